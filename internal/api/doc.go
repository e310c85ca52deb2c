// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package api provides the HTTP surface of MovieMatch using the Chi router.

Endpoints (all JSON, under /api/v1 unless noted):

	GET    /health/live                   process liveness
	GET    /health/ready                  database reachable and recommendation index published
	POST   /auth/token                    issue a development token (security.dev_tokens)
	GET    /media?page=&page_size=&sort_by=&sort_dir=&min_rating=&search=&categories=
	                                      one page of catalog ids, {ids, has_more}
	GET    /media/categories              distinct categories for filter chips
	GET    /media/popular?limit=          most popular titles, for onboarding
	GET    /media/search?q=&limit=        title search
	GET    /media/{itemID}                title details
	GET    /recommendations?k=            personal recommendations
	GET    /preferences                   the caller's ratings, most recent first
	PUT    /preferences                   {item_id, rating} upsert, rating 1..10
	DELETE /preferences/{itemID}          remove a rating
	POST   /rooms                         create a room with the caller as creator
	GET    /rooms/{roomID}                room snapshot
	POST   /rooms/{roomID}/join           join a room that has not started
	GET    /rooms/{roomID}/recommendations the room's shared candidate list
	DELETE /rooms/{roomID}                creator deletes the room
	POST   /admin/features/rebuild        rebuild the feature set and index
	GET    /admin/stats                   engine, room, connection and endpoint statistics
	GET    /metrics                       Prometheus (root path)
	GET    /swagger/*                     Swagger UI and doc.json (root path)
	GET    /ws                            WebSocket room events (root path)
	*      /socket.io/                    Socket.IO room events (root path)

Responses share one envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "request_id": "..."}}
	{"status": "error", "error": {"code": "NOT_FOUND", "message": "..."}, "metadata": {...}}

Error Mapping:

  - recommend.ErrNotFound, rooms.ErrNotFound, recommend.ErrCollaboratorUnavailable: 404 NOT_FOUND
  - rooms.ErrInvalidState: 409 CONFLICT
  - recommend.ErrStaleIndex, recommend.ErrNotReady: 503 SERVICE_UNAVAILABLE
  - request validation: 400 VALIDATION_ERROR
  - missing identity: 401 UNAUTHORIZED
  - admin route without the admin role: 403 FORBIDDEN

Identity comes from auth.Middleware: a bearer token or token cookie, or the
X-User-ID header when security.require_auth is false. Admin routes are
additionally checked by authz.Middleware when admin users or a policy file
are configured.
*/
package api
