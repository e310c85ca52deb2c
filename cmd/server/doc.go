// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Command server runs the MovieMatch API.

MovieMatch recommends titles from an IMDb-derived catalog. Single users get
nearest-neighbor recommendations from their own ratings. Groups open a room,
start it to freeze a shared candidate list, and vote until every member
likes the same title.

# Startup Order

 1. Configuration: defaults, optional YAML file, environment (koanf v2)
 2. Logging: zerolog, with slog and Watermill adapters
 3. Database: DuckDB catalog and preference store, optional IMDb import or demo seed
 4. Recommendation engine: breaker-guarded catalog, artifact store (Badger or S3), index
 5. Rooms: registry with expiry timers
 6. Realtime: WebSocket hub, Socket.IO server, event bus (in-memory or NATS)
 7. HTTP: chi router with auth, rate limiting, Prometheus metrics and Swagger UI
 8. Supervisor tree: everything long-lived runs under suture

# Configuration

Common environment variables:

	HTTP_PORT=5000
	DUCKDB_PATH=/data/moviematch.duckdb
	IMDB_BASICS=/data/title.basics.tsv
	IMDB_RATINGS=/data/title.ratings.tsv
	SEED_DEMO_DATA=true
	ARTIFACT_BACKEND=badger|s3|none
	EVENTS_BACKEND=memory|nats
	NATS_EMBEDDED=true
	JWT_SECRET=...            (32+ characters when REQUIRE_AUTH=true)
	REQUIRE_AUTH=false        (accept X-User-ID for local development)
	DEV_TOKENS=true           (enable POST /api/v1/auth/token)
	ADMIN_USERS=alice,bob     (grant the admin role for /api/v1/admin)
	AUTHZ_POLICY_PATH=...     (casbin CSV policy instead of ADMIN_USERS)

A config.yaml in the working directory, /etc/moviematch or CONFIG_PATH is
loaded between the defaults and the environment.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, the HTTP server drains for server.shutdown_timeout, and the
database and artifact store are closed.
*/
package main
