// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
Package main is the entry point for the CineScope server.

CineScope is a movie cataloging and social backend. Accounts search the
TMDB catalog, keep personal and shared watchlists, write reviews and blog
posts, befriend each other and receive notifications, recommendations and
viewing analytics.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("cinescope")
	├── DataSupervisor ("data-layer")
	│   ├── Report janitor (stale analytics PDFs)
	│   └── BadgerDB value log GC (badger backend only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Notification hub (live websocket push)
	└── APISupervisor ("api-layer")
	    ├── HTTP Server (Chi router)
	    ├── Login limiter cleanup
	    ├── Authorization decision cache
	    └── Analytics summary cache

Component initialization order:

 1. Configuration: Koanf v2 over defaults, config.yaml, .env and the environment
 2. Logging: zerolog with JSON/console output modes
 3. Telemetry: Sentry error reporting when SENTRY_DSN is set
 4. Store: embedded BadgerDB or MongoDB document store
 5. Services: auth, authorization, TMDB catalog, recommendations,
    analytics, uploads and notifications
 6. Supervisor Tree: Suture v4 process supervision
 7. HTTP Server: Chi router with middleware stack

# Configuration

Sources are layered, highest priority wins:

	Priority: Environment variables > .env file > Config file > Defaults

Core environment variables:

	# Server
	PORT=5000                    # HTTP server port
	ENVIRONMENT=production       # development, test or production
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Store
	DB_BACKEND=badger            # badger or mongo
	DB_PATH=./data/cinescope
	MONGODB_URI=mongodb://localhost:27017

	# Credentials
	JWT_SECRET=<32+ chars>
	TMDB_API_KEY=<api-key>

	# Optional
	SENTRY_DSN=<dsn>

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (SHUTDOWN_TIMEOUT)
 3. Disconnects notification streams
 4. Closes the store and flushes pending error reports
 5. Reports any services that failed to stop

# Usage Examples

Development:

	export JWT_SECRET=$(openssl rand -base64 32)
	export TMDB_API_KEY=xxx LOG_FORMAT=console
	go run ./cmd/server

Production with MongoDB:

	export ENVIRONMENT=production DB_BACKEND=mongo
	export MONGODB_URI=mongodb://mongo:27017 MONGODB_DATABASE=cinescope
	export JWT_SECRET=$(openssl rand -base64 32) TMDB_API_KEY=xxx
	./cinescope

# API Documentation

Swagger documentation is served at /swagger/index.html. Endpoints live
under /api and are grouped as Auth, Users, Movies, Watchlist, Reviews,
Blogs, Social, Recommendations and Analytics.

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/store: Document store backends
*/
package main
