// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is shared by every caller. It reports fields by
their JSON names so that error details match the request bodies clients send,
and it registers two domain validators:

  - roomcode: an upper-case alphanumeric room code such as "K3X9QZ2A"
  - itemid: a catalog key without whitespace or control characters, such as "tt0111161"

Usage:

	type RateRequest struct {
	    ItemID string `json:"item_id" validate:"required,itemid"`
	    Rating int    `json:"rating" validate:"min=1,max=10"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
	    return
	}

Error Format:

A single failure produces its message directly, for example
"rating must be at most 10". Multiple failures are joined with "; " and
listed individually under Details["fields"].
*/
package validation
