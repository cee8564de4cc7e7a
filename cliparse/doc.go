// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

main loads an optional .env file with godotenv before calling ParseFlags,
so values from .env behave exactly like real environment variables.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string (default: file:routeboard.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - JWTSecret: HMAC secret for API and session tokens (required, 32+ chars)
  - AccessTokenTTL / RefreshTokenTTL: API token lifetimes (5m / 24h)
  - SessionTTL: Browser session lifetime (336h)
  - LogLevel: debug, info, warn or error (default: info)
  - SSEKeepalive: Comment interval on the event stream (default: 15s)

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	JWT_SECRET        → -jwt-secret
	ACCESS_TOKEN_TTL  → -access-ttl
	REFRESH_TOKEN_TTL → -refresh-ttl
	SESSION_TTL       → -session-ttl
	LOG_LEVEL         → -log-level
	SSE_KEEPALIVE     → -keepalive

CLI flags take precedence over environment variables.
*/
package cliparse
