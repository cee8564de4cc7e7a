// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/cliparse"
	"github.com/danielhkuo/routeboard/events"
	"github.com/danielhkuo/routeboard/handlers"
	"github.com/danielhkuo/routeboard/metrics"
	"github.com/danielhkuo/routeboard/middleware"
	"github.com/danielhkuo/routeboard/store"
)

// NewRouter wires every endpoint. The returned handler records metrics for
// all requests and applies CORS to the API.
func NewRouter(st *store.Store, broadcaster *events.Broadcaster, m *metrics.Metrics, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.SessionTTL)
	limit := middleware.RateLimit(cfg.LoginRateLimit)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st, tokens)
	apiHandler := handlers.NewRouteAPIHandler(st)
	pageHandler := handlers.NewPageHandler(st, broadcaster)
	eventsHandler := handlers.NewEventsHandler(broadcaster, cfg.SSEKeepalive)

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAPIUser(tokens, h))
	}
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSessionUser(tokens, h))
	}
	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.Limited(limit, h))
	}

	// Health check and metrics
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// API tokens
	mux.HandleFunc("POST /api/token", public(authHandler.Token))
	mux.HandleFunc("POST /api/token/refresh", public(authHandler.Refresh))

	// Routes and points API
	mux.HandleFunc("GET /api/backgrounds", api(apiHandler.ListBackgrounds))
	mux.HandleFunc("GET /api/routes", api(apiHandler.ListRoutes))
	mux.HandleFunc("POST /api/routes", api(apiHandler.CreateRoute))
	mux.HandleFunc("GET /api/routes/{id}", api(apiHandler.GetRoute))
	mux.HandleFunc("PUT /api/routes/{id}", api(apiHandler.UpdateRoute))
	mux.HandleFunc("PATCH /api/routes/{id}", api(apiHandler.PatchRoute))
	mux.HandleFunc("DELETE /api/routes/{id}", api(apiHandler.DeleteRoute))
	mux.HandleFunc("GET /api/routes/{id}/points", api(apiHandler.ListPoints))
	mux.HandleFunc("POST /api/routes/{id}/points", api(apiHandler.CreatePoint))
	mux.HandleFunc("GET /api/routes/{id}/points/{pointID}", api(apiHandler.GetPoint))
	mux.HandleFunc("DELETE /api/routes/{id}/points/{pointID}", api(apiHandler.DeletePoint))

	// Accounts
	mux.HandleFunc("GET /register", middleware.WithLogging(authHandler.RegisterPage))
	mux.HandleFunc("POST /register", public(authHandler.Register))
	mux.HandleFunc("GET /login", middleware.WithLogging(authHandler.LoginPage))
	mux.HandleFunc("POST /login", public(authHandler.Login))
	mux.HandleFunc("POST /logout", middleware.WithLogging(authHandler.Logout))

	// Routes UI
	mux.HandleFunc("GET /{$}", page(pageHandler.Home))
	mux.HandleFunc("GET /routes/new", page(pageHandler.NewRoutePage))
	mux.HandleFunc("POST /routes/new", page(pageHandler.CreateRoute))
	mux.HandleFunc("GET /routes/{id}", page(pageHandler.RoutePage))
	mux.HandleFunc("POST /routes/{id}", page(pageHandler.EditRoute))
	mux.HandleFunc("POST /routes/{id}/delete", page(pageHandler.DeleteRoute))

	// Boards UI
	mux.HandleFunc("GET /boards/new", page(pageHandler.NewBoardPage))
	mux.HandleFunc("POST /boards/new", page(pageHandler.CreateBoard))
	mux.HandleFunc("GET /boards/{id}", page(pageHandler.BoardPage))
	mux.HandleFunc("GET /boards/{id}/edit", page(pageHandler.EditBoardPage))
	mux.HandleFunc("POST /boards/{id}/edit", page(pageHandler.EditBoard))
	mux.HandleFunc("POST /boards/{id}/delete", page(pageHandler.DeleteBoard))
	mux.HandleFunc("GET /boards/{id}/draw", page(pageHandler.DrawPage))
	mux.HandleFunc("POST /boards/{id}/draw", page(pageHandler.SavePath))
	mux.HandleFunc("GET /boards/{id}/route", page(pageHandler.BoardRoutePage))
	mux.HandleFunc("POST /boards/{id}/route", page(pageHandler.CreateBoardRoute))

	// Notifications
	mux.HandleFunc("GET /events", middleware.RequireAnyUser(tokens, eventsHandler.Stream))
	mux.HandleFunc("GET /events/log", page(eventsHandler.LogPage))

	return middleware.Instrument(m, apiCORS(mux))
}

// apiCORS applies CORS headers to /api/ requests only
func apiCORS(next http.Handler) http.Handler {
	withCORS := middleware.CORS(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			withCORS.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
