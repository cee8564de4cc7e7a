// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Routeboard server.

Routeboard lets signed-in users keep private routes (ordered points over a
background image, plus line pairs) and share dot boards on which anyone can
draw named paths. New boards and new paths are announced live to every
connected browser.

# Starting the Server

A JWT secret is the only required setting:

	JWT_SECRET=$(openssl rand -hex 32) go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

Variables in a .env file in the working directory are loaded first.

# Configuration

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:routeboard.db)
  - JWT_SECRET (-jwt-secret): Token signing secret, at least 32 bytes
  - ACCESS_TOKEN_TTL, REFRESH_TOKEN_TTL, SESSION_TTL: Token lifetimes
  - SSE_KEEPALIVE (-keepalive): Event stream keepalive interval
  - LOGIN_RATE_LIMIT (-login-rate): Login attempts per IP per minute
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - handlers: HTTP handlers for the API, pages and event stream
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth guards, logging, metrics, CORS, JSON helpers
  - store: Ownership-scoped persistence on sqlx
  - events: In-process broadcaster for server-sent events
  - views: Embedded HTML templates
  - validation: Field validation with per-field messages
  - auth: Passwords, IDs and JWTs
  - metrics: Prometheus collectors
  - models: Domain and wire types
  - db: Connections and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
