// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package middleware provides HTTP middleware for the MovieMatch API.

Every middleware has the chi signature func(http.Handler) http.Handler and is
mounted by the api package router.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation IDs in the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled by chi route pattern
  - Compression: gzip for clients that accept it, skipping websocket and socket.io upgrades
  - PerformanceMonitor: in-memory latency percentiles per route, served by the admin API

Middleware Stack:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
	r.Use(chiMw.CORS())
	r.Use(chiMw.RateLimit())
	r.With(middleware.Compression).Get("/media/popular", h.PopularMedia)

Route Labels:

Metrics and performance stats use the chi route pattern ("/api/v1/rooms/{roomID}")
rather than the raw path so that room codes and item IDs do not create a new
label value per request. Requests that match no route are labeled "unmatched".
*/
package middleware
