// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package services adapts MovieMatch components to suture.Service.

Each wrapper translates a component's own lifecycle into
Serve(ctx context.Context) error and names itself through fmt.Stringer so
supervisor events identify it.

# Available Services

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine and
Shutdown drains connections when the context ends.

RunnerService wraps anything with RunWithContext(ctx) error, such as the
WebSocket hub.

RefreshService keeps the recommendation index current. It builds on startup,
reloads on a fixed interval when one is configured, and reloads as soon as
the engine reports a stale index.

JanitorService calls a cleanup function on a fixed interval. It evicts
expired catalog cache entries.

Components that already implement Serve (the event bus and the Socket.IO
server) are added to the tree directly.
*/
package services
