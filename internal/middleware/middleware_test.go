// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package middleware

import (
	"io"

	"github.com/tomtom215/moviematch/internal/logging"
)

//nolint:gochecknoinits
func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}
