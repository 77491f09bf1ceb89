// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
Package supervisor runs CineScope's long-lived services under suture v4.

# Overview

	RootSupervisor ("cinescope")
	├── DataSupervisor ("data-layer")
	│   ├── badger-gc (embedded store only)
	│   └── report-janitor
	├── MessagingSupervisor ("messaging-layer")
	│   └── notification-hub
	└── APISupervisor ("api-layer")
	    ├── http-server
	    ├── login-limiter
	    ├── authz-cache
	    └── ttl-cache (analytics aggregates)

A crashed service is restarted with backoff; its siblings keep running.
Restarts are logged through sutureslog and counted in the
supervisor_service_restarts_total metric.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Shutdown is driven by context cancellation. Services that miss the
shutdown timeout are listed by UnstoppedServiceReport.

See Also:
  - internal/supervisor/services: adapters for *http.Server and periodic tasks
*/
package supervisor
