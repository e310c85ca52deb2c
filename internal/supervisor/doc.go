// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package supervisor runs the long-lived MovieMatch components under a suture v4
supervisor tree.

The tree has three layers so that a crashing component only restarts its
siblings' supervisor, never the whole process:

	moviematch (root)
	├── data-layer       feature refresh loop, cache janitor
	├── messaging-layer  WebSocket hub, Socket.IO server, event bus
	└── api-layer        HTTP server

Components implement suture.Service (Serve(ctx) error plus fmt.Stringer).
Adapters for components with other lifecycles live in the services
subpackage.

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog into the zerolog pipeline via logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewRefreshService(engine, refreshCfg, logger))
	tree.AddMessagingService(services.NewRunnerService("websocket-hub", hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
