// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/moviematch/internal/auth"
	"github.com/tomtom215/moviematch/internal/authz"
	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/database"
	"github.com/tomtom215/moviematch/internal/gateway"
	"github.com/tomtom215/moviematch/internal/middleware"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/rooms"
	ws "github.com/tomtom215/moviematch/internal/websocket"
)

// Recommender is the recommendation engine surface. *recommend.Engine satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, userID string, k int) (*recommend.Result, error)
	Reload(ctx context.Context) error
	Ready() bool
	Stats() recommend.Stats
}

// RoomService is the room registry surface. *rooms.Registry satisfies it.
type RoomService interface {
	Create(creator string) (*rooms.Snapshot, error)
	Get(id string) (*rooms.Snapshot, error)
	Join(id, user string) (*rooms.Snapshot, error)
	Delete(id, user string) error
	Len() int
}

// Store is the preference and search storage. *database.DB satisfies it.
type Store interface {
	SearchTitles(ctx context.Context, query string, limit int) ([]recommend.Item, error)
	ListMedia(ctx context.Context, f database.MediaFilter) (*database.MediaPage, error)
	ListPreferences(ctx context.Context, userID string) ([]database.Preference, error)
	UpsertRating(ctx context.Context, userID, itemID string, rating int) error
	DeleteRating(ctx context.Context, userID, itemID string) error
	Ping(ctx context.Context) error
}

// TokenIssuer mints identity tokens. *auth.TokenManager satisfies it.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// Dependencies are the collaborators a Handler serves. Catalog, Store,
// Recommender and Rooms are required.
type Dependencies struct {
	// Catalog answers item lookups, normally through the guarded catalog client.
	Catalog recommend.Catalog

	Store       Store
	Recommender Recommender
	Rooms       RoomService

	// Events receives member-joined broadcasts for REST joins.
	Events gateway.Broadcaster

	// Tokens issues development tokens. nil disables POST /auth/token.
	Tokens TokenIssuer

	// Verifier checks ?token= on WebSocket upgrades, which cannot set headers.
	Verifier gateway.TokenVerifier

	Hub      *ws.Hub
	SocketIO http.Handler
	PerfMon  *middleware.PerformanceMonitor

	// Admins authorizes /admin routes. nil leaves them open to any identified user.
	Admins *authz.Enforcer

	// AfterReload runs after every successful admin rebuild, e.g. to drop
	// cached catalog items.
	AfterReload func()

	// BreakerStates reports circuit breaker states by name for /admin/stats.
	BreakerStates func() map[string]string

	Config *config.Config
}

// Handler serves the HTTP API.
type Handler struct {
	catalog     recommend.Catalog
	store       Store
	recommender Recommender
	rooms       RoomService
	events      gateway.Broadcaster
	tokens      TokenIssuer
	verifier    gateway.TokenVerifier
	wsHub       *ws.Hub
	socketIO    http.Handler
	perfMon     *middleware.PerformanceMonitor
	adminAuthz  *authz.Middleware
	afterReload func()
	breakers    func() map[string]string
	config      *config.Config
	startTime   time.Time
}

// NewHandler creates a handler from deps.
func NewHandler(deps *Dependencies) (*Handler, error) {
	if deps == nil || deps.Catalog == nil || deps.Store == nil || deps.Recommender == nil || deps.Rooms == nil {
		return nil, errors.New("api: catalog, store, recommender and rooms are required")
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	h := &Handler{
		catalog:     deps.Catalog,
		store:       deps.Store,
		recommender: deps.Recommender,
		rooms:       deps.Rooms,
		events:      deps.Events,
		tokens:      deps.Tokens,
		verifier:    deps.Verifier,
		wsHub:       deps.Hub,
		socketIO:    deps.SocketIO,
		perfMon:     deps.PerfMon,
		afterReload: deps.AfterReload,
		breakers:    deps.BreakerStates,
		config:      cfg,
		startTime:   time.Now(),
	}
	if deps.Admins != nil {
		h.adminAuthz = authz.NewMiddleware(deps.Admins, writeAccessError)
	}
	return h, nil
}

// writeAccessError answers requests rejected by authentication or
// authorization with the standard envelope.
func writeAccessError(w http.ResponseWriter, r *http.Request, status int, message string) {
	code := CodeForbidden
	switch status {
	case http.StatusUnauthorized:
		code = CodeUnauthorized
	case http.StatusInternalServerError:
		code = CodeInternal
	}
	respondError(w, r, status, code, message, nil)
}

// currentUser returns the authenticated caller. RequireUser guarantees it is
// set on user-scoped routes.
func currentUser(r *http.Request) string {
	return auth.UserFromContext(r.Context())
}

// resolveItems looks up ids in order, skipping items that left the catalog.
func (h *Handler) resolveItems(ctx context.Context, ids []string) ([]recommend.Item, error) {
	items := make([]recommend.Item, 0, len(ids))
	for _, id := range ids {
		item, err := h.catalog.ItemByID(ctx, id)
		if errors.Is(err, recommend.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}
