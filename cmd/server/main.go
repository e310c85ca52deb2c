// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/moviematch/docs" // Registers the swagger document
	"github.com/tomtom215/moviematch/internal/api"
	"github.com/tomtom215/moviematch/internal/auth"
	"github.com/tomtom215/moviematch/internal/authz"
	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/database"
	"github.com/tomtom215/moviematch/internal/gateway"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/middleware"
	"github.com/tomtom215/moviematch/internal/rooms"
	"github.com/tomtom215/moviematch/internal/socketio"
	"github.com/tomtom215/moviematch/internal/supervisor"
	"github.com/tomtom215/moviematch/internal/supervisor/services"
	ws "github.com/tomtom215/moviematch/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("MovieMatch stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential startup wiring
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("db_path", cfg.Database.Path).
		Str("artifact_backend", cfg.Artifact.Backend).
		Str("events_backend", cfg.Events.Backend).
		Bool("require_auth", cfg.Security.RequireAuth).
		Msg("Starting MovieMatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === DATABASE ===
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()
	if err := loadCatalog(ctx, db, &cfg.Database); err != nil {
		return err
	}

	// === RECOMMENDATIONS ===
	rec, err := initRecommend(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rec.closeArtifacts(); err != nil {
			logger.Error().Err(err).Msg("Error closing artifact store")
		}
	}()

	// === ROOMS ===
	registry, err := rooms.NewRegistry(rooms.Config{
		TTL:        cfg.Rooms.TTL,
		CodeLength: cfg.Rooms.CodeLength,
		CandidateK: cfg.Rooms.CandidateK,
	}, rec.engine, nil, logger)
	if err != nil {
		return fmt.Errorf("create room registry: %w", err)
	}
	defer registry.Close()
	registry.SetHooks(rooms.Hooks{
		OnCreated:   metrics.RecordRoomCreated,
		OnStarted:   metrics.RecordRoomStarted,
		OnExpired:   metrics.RecordRoomExpired,
		OnDeleted:   metrics.RecordRoomDeleted,
		OnConsensus: metrics.RecordConsensus,
	})

	// === AUTH ===
	tokens, err := initTokens(&cfg.Security)
	if err != nil {
		return err
	}
	var verifier gateway.TokenVerifier
	var issuer api.TokenIssuer
	if tokens != nil {
		verifier = tokens
		issuer = tokens
	}
	admins, err := initAdmins(&cfg.Security)
	if err != nil {
		return err
	}
	if admins == nil {
		logger.Warn().Msg("No admin users or policy configured: admin routes are open to any identified user")
	}
	if !cfg.Security.RequireAuth {
		logger.Warn().Msg("Authentication is optional: X-User-ID is trusted. Use only for development.")
	}
	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED")
	}

	// === REALTIME ===
	hub := ws.NewHub(ws.Config{
		MessagesPerSecond: cfg.WebSocket.MessagesPerSecond,
		Burst:             cfg.WebSocket.Burst,
		SendBuffer:        cfg.WebSocket.SendBuffer,
		BroadcastTimeout:  cfg.WebSocket.BroadcastTimeout,
	})
	hub.OnConnectionsChanged = metrics.ConnectionGauge("websocket")
	hub.OnBroadcastDropped = metrics.BroadcastDropCounter("websocket")

	local := gateway.Broadcasters{hub}
	var sio *socketio.Server
	if cfg.Server.SocketIOEnabled {
		sio = socketio.New(socketio.Config{
			Verifier:          verifier,
			MessagesPerSecond: cfg.WebSocket.MessagesPerSecond,
			Burst:             cfg.WebSocket.Burst,
		}, nil, logger)
		sio.OnConnectionsChanged = metrics.ConnectionGauge("socketio")
		local = append(local, sio)
	}

	events, err := initEvents(ctx, &cfg.Events, local, logger)
	if err != nil {
		return err
	}
	defer events.close()

	gw := gateway.New(registry, events.bus, gateway.Config{
		Verifier:    verifier,
		RequireAuth: cfg.Security.RequireAuth,
	}, logger)
	gw.SetHooks(gateway.Hooks{OnEvent: metrics.RecordGatewayEvent})
	hub.SetDispatcher(gw)
	var sioHandler http.Handler
	if sio != nil {
		sio.SetDispatcher(gw)
		sioHandler = sio
	}

	// === HTTP ===
	perfMon := middleware.NewPerformanceMonitor(1000)
	handler, err := api.NewHandler(&api.Dependencies{
		Catalog:     rec.catalog,
		Store:       db,
		Recommender: rec.engine,
		Rooms:       registry,
		Events:      events.bus,
		Tokens:      issuer,
		Verifier:    verifier,
		Hub:         hub,
		SocketIO:    sioHandler,
		PerfMon:     perfMon,
		Admins:      admins,
		AfterReload: rec.catalog.InvalidateItems,
		BreakerStates: func() map[string]string {
			return map[string]string{
				"catalog": rec.catalog.State(),
				"events":  events.bus.BreakerState(),
			}
		},
		Config: cfg,
	})
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}
	router := api.NewRouter(handler,
		auth.NewMiddleware(tokens, cfg.Security.RequireAuth),
		api.NewChiMiddlewareFromConfig(&cfg.Security),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	// === SUPERVISOR TREE ===
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewRefreshService(rec.engine, services.RefreshServiceConfig{
		BuildOnStartup: cfg.Recommend.BuildOnStartup,
		Interval:       cfg.Recommend.RefreshInterval,
		AfterReload:    rec.catalog.InvalidateItems,
	}, logger))
	tree.AddDataService(services.NewJanitorService("catalog-cache-janitor", cfg.Recommend.ItemCacheTTL, rec.catalog.CleanupExpired, logger))

	tree.AddMessagingService(services.NewRunnerService("websocket-hub", hub))
	tree.AddMessagingService(events.bus)
	if sio != nil {
		tree.AddMessagingService(sio)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}

// initTokens returns nil when no secret is configured and auth is optional.
func initTokens(cfg *config.SecurityConfig) (*auth.TokenManager, error) {
	tokens, err := auth.NewTokenManager(cfg)
	switch {
	case err == nil:
		return tokens, nil
	case errors.Is(err, auth.ErrNoSecret) && !cfg.RequireAuth:
		logging.Info().Msg("No JWT secret configured; bearer tokens are disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("create token manager: %w", err)
	}
}

// initAdmins returns nil when neither admin users nor a policy file are configured.
func initAdmins(cfg *config.SecurityConfig) (*authz.Enforcer, error) {
	if len(cfg.AdminUsers) == 0 && cfg.AuthzPolicyPath == "" {
		return nil, nil
	}
	acfg := authz.DefaultConfig()
	acfg.PolicyPath = cfg.AuthzPolicyPath
	acfg.Admins = cfg.AdminUsers
	enforcer, err := authz.NewEnforcer(acfg)
	if err != nil {
		return nil, fmt.Errorf("create authorization enforcer: %w", err)
	}
	return enforcer, nil
}

// loadCatalog runs the configured IMDb import or demo seed.
func loadCatalog(ctx context.Context, db *database.DB, cfg *config.DatabaseConfig) error {
	if cfg.ImportBasics != "" {
		start := time.Now()
		n, err := db.ImportIMDb(ctx, database.ImportOptions{
			BasicsPath:  cfg.ImportBasics,
			RatingsPath: cfg.ImportRatings,
			TitleTypes:  cfg.ImportTitleTypes,
		})
		if err != nil {
			return fmt.Errorf("import IMDb data: %w", err)
		}
		logging.Info().Int64("items", n).Dur("duration", time.Since(start)).Msg("IMDb catalog imported")
	}
	if cfg.SeedDemoData {
		if err := db.SeedDemoData(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}
	return nil
}
