// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package catalog guards the catalog and preference collaborators used by the
recommendation engine and the HTTP API.

Guarded wraps any recommend.Catalog and recommend.Preferences pair with a
sony/gobreaker circuit breaker and keeps recently resolved items in an LRU
cache. While the breaker is open every call fails fast with an error wrapping
recommend.ErrCollaboratorUnavailable.

Circuit breaker configuration:
  - Max 3 concurrent requests in half-open state
  - 1 minute measurement window
  - Configurable timeout before attempting recovery (default 30 seconds)
  - Opens after 60% failure rate with minimum 10 requests

Missing items (recommend.ErrNotFound) and canceled contexts do not count as
failures.
*/
package catalog
