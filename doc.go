// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the EventPros NZ API server.

EventPros NZ is an event-services marketplace; this server backs its
feature-request board (voting, roadmap, analytics), the admin console
(email templates, user administration, security), and satisfaction
tracking.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=eventpros.db go run main.go

Or with flags:

	go run main.go -p 3440 -d "postgres://..." -t postgres

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for service key HMAC and IP hashing
  - PROFILE_SLUG_SALT (--slug-salt): Secret for business profile slugs

Optional settings:

  - PORT (-p): Server port (default: 3440)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (requests, voting, roadmap, admin)
  - optimistic: client-side optimistic update and reconciliation model
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Token generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
