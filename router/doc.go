// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for Routeboard.

# Route Registration

NewRouter builds the handler tree from the store, the event broadcaster,
the metrics registry and the configuration:

	handler := router.NewRouter(st, broadcaster, m, cfg)

Every request is counted by route pattern. CORS headers are added under
/api/ only.

# Endpoints

Operations:

	GET /health  - Liveness probe
	GET /metrics - Prometheus metrics

API tokens (rate limited per client IP):

	POST /api/token         - Exchange credentials for access + refresh
	POST /api/token/refresh - Exchange a refresh token for a new access token

Routes API (Bearer access token, caller's routes only):

	GET    /api/backgrounds
	GET    /api/routes
	POST   /api/routes
	GET    /api/routes/{id}
	PUT    /api/routes/{id}
	PATCH  /api/routes/{id}
	DELETE /api/routes/{id}
	GET    /api/routes/{id}/points
	POST   /api/routes/{id}/points
	GET    /api/routes/{id}/points/{pointID}
	DELETE /api/routes/{id}/points/{pointID}

Accounts:

	GET/POST /register
	GET/POST /login
	POST     /logout

Pages (session cookie; anonymous visitors are sent to /login):

	GET /                        - Home
	GET/POST /routes/new
	GET/POST /routes/{id}        - Detail; POST carries an action field
	POST     /routes/{id}/delete
	GET/POST /boards/new
	GET      /boards/{id}
	GET/POST /boards/{id}/edit
	POST     /boards/{id}/delete
	GET/POST /boards/{id}/draw   - Draw or overwrite a path
	GET/POST /boards/{id}/route  - Build a route from board cells
	GET      /events/log         - Live notification log

Notifications (session cookie or Bearer token):

	GET /events - Server-sent newBoard and newPath events
*/
package router
