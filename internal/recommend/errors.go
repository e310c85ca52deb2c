// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import "errors"

var (
	// ErrNotFound is returned when an item or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrColdStart signals that no profile can be built. Recommend never returns it;
	// it answers with the popularity fallback instead.
	ErrColdStart = errors.New("cold start")

	// ErrStaleIndex signals an inconsistency between matrix, item IDs and index.
	// The request fails and a rebuild is scheduled.
	ErrStaleIndex = errors.New("stale index")

	// ErrCollaboratorUnavailable wraps catalog or preference lookup failures.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrNotReady is returned when no feature set is published and none could be built.
	ErrNotReady = errors.New("recommendation index not ready")

	// ErrArtifactNotFound is returned by ArtifactStore.Load when nothing is stored.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrCorruptArtifact is returned when a stored blob fails framing, checksum or shape checks.
	ErrCorruptArtifact = errors.New("corrupt artifact")
)
