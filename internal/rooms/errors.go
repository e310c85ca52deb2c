// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package rooms

import "errors"

var (
	// ErrNotFound is returned when a room does not exist or has expired, or
	// when a liked item is not one of the room's candidates.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an operation is not allowed in the
	// room's current state. The room is never modified when it is returned.
	ErrInvalidState = errors.New("invalid room state")
)
