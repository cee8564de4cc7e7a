// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start at debug level and completion (status, duration_ms) at
info level.

# Metrics

Instrument wraps the whole mux and reports method, matched pattern, status
and duration to a RequestObserver such as *metrics.Metrics:

	handler := middleware.Instrument(m, mux)

# Authentication

Three guards put the caller's auth.Identity into the request context:

	middleware.RequireAPIUser(tokens, h)     // bearer access token, 401 JSON otherwise
	middleware.RequireSessionUser(tokens, h) // session cookie, redirect to /login?next=...
	middleware.RequireAnyUser(tokens, h)     // either of the above

# Rate Limiting

Login and token endpoints are limited per client IP with go-chi/httprate:

	limit := middleware.RateLimit(cfg.LoginRateLimit)
	mux.HandleFunc("POST /api/token", middleware.Limited(limit, h.Token))

# CORS Middleware

Enable cross-origin requests for API clients:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.NotFound(w)              // {"detail": "Not found."}
	middleware.FieldErrors(w, fields)   // 400 {"field": ["message"]}

Parse JSON request bodies:

	var req models.TokenRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
