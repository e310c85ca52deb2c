// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/moviematch/internal/auth"
	"github.com/tomtom215/moviematch/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. chiMw may be nil for defaults.
func NewRouter(handler *Handler, authMw *auth.Middleware, chiMw *ChiMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	if authMw == nil {
		authMw = auth.NewMiddleware(nil, false)
	}
	return &Router{
		handler:       handler,
		middleware:    authMw.WithErrorWriter(writeAccessError),
		chiMiddleware: chiMw,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	if h.perfMon != nil {
		r.Use(h.perfMon.Middleware)
	}
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflights are answered

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.Post("/token", h.IssueDevToken)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(router.middleware.Authenticate)

		r.Route("/media", func(r chi.Router) {
			r.Use(middleware.Compression)
			r.Get("/", h.ListMedia)
			r.Get("/categories", h.MediaCategories)
			r.Get("/popular", h.PopularMedia)
			r.Get("/search", h.SearchMedia)
			r.Get("/{itemID}", h.GetMedia)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RequireUser)

			r.With(middleware.Compression).Get("/recommendations", h.GetRecommendations)

			r.Get("/preferences", h.ListPreferences)
			r.Put("/preferences", h.RateItem)
			r.Delete("/preferences/{itemID}", h.DeletePreference)

			r.Post("/rooms", h.CreateRoom)
			r.Get("/rooms/{roomID}", h.GetRoom)
			r.Delete("/rooms/{roomID}", h.DeleteRoom)
			r.Post("/rooms/{roomID}/join", h.JoinRoom)
			r.Get("/rooms/{roomID}/recommendations", h.GetRoomRecommendations)

			r.Route("/admin", func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitAdmin())
				if h.adminAuthz != nil {
					r.Use(h.adminAuthz.AuthorizeRequest)
				}
				r.Post("/features/rebuild", h.RebuildFeatures)
				r.Get("/stats", h.Stats)
			})
		})
	})

	// Realtime transports authenticate per connection and per event.
	r.With(router.chiMiddleware.RateLimitWebSocket(), router.middleware.Authenticate).
		Get("/ws", h.WebSocket)
	if h.socketIO != nil {
		r.Handle("/socket.io/*", h.socketIO)
	}

	return r
}
