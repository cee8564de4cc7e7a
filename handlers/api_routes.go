// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/routeboard/middleware"
	"github.com/danielhkuo/routeboard/store"
)

// RouteAPIHandler serves the JSON API for routes and their points.
// Every method runs behind middleware.RequireAPIUser.
type RouteAPIHandler struct {
	store *store.Store
}

func NewRouteAPIHandler(st *store.Store) *RouteAPIHandler {
	return &RouteAPIHandler{store: st}
}

// ListBackgrounds handles GET /api/backgrounds
func (h *RouteAPIHandler) ListBackgrounds(w http.ResponseWriter, r *http.Request) {
	backgrounds, err := h.store.ListBackgrounds(r.Context())
	if err != nil {
		writeAPIError(w, err, "failed to list backgrounds")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, backgrounds)
}

// ListRoutes handles GET /api/routes
func (h *RouteAPIHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.store.ListRoutes(r.Context(), caller(r).UserID)
	if err != nil {
		writeAPIError(w, err, "failed to list routes")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, routes)
}

// CreateRoute handles POST /api/routes
func (h *RouteAPIHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(w, r)
	if err != nil {
		middleware.DetailResponse(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	route, err := h.store.CreateRoute(r.Context(), caller(r).UserID, src)
	if err != nil {
		writeAPIError(w, err, "failed to create route")
		return
	}

	slog.Info("route created", "route_id", route.ID, "user", caller(r).Username)
	middleware.JSONResponse(w, http.StatusCreated, route)
}

// GetRoute handles GET /api/routes/{id}
func (h *RouteAPIHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	route, err := h.store.GetRoute(r.Context(), r.PathValue("id"), caller(r).UserID)
	if err != nil {
		writeAPIError(w, err, "failed to get route", "route_id", r.PathValue("id"))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, route)
}

// UpdateRoute handles PUT /api/routes/{id}
func (h *RouteAPIHandler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PatchRoute handles PATCH /api/routes/{id}
func (h *RouteAPIHandler) PatchRoute(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *RouteAPIHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	src, err := readSource(w, r)
	if err != nil {
		middleware.DetailResponse(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	route, err := h.store.UpdateRoute(r.Context(), r.PathValue("id"), caller(r).UserID, src, partial)
	if err != nil {
		writeAPIError(w, err, "failed to update route", "route_id", r.PathValue("id"))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, route)
}

// DeleteRoute handles DELETE /api/routes/{id}
func (h *RouteAPIHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteRoute(r.Context(), r.PathValue("id"), caller(r).UserID); err != nil {
		writeAPIError(w, err, "failed to delete route", "route_id", r.PathValue("id"))
		return
	}

	slog.Info("route deleted", "route_id", r.PathValue("id"), "user", caller(r).Username)
	w.WriteHeader(http.StatusNoContent)
}

// ListPoints handles GET /api/routes/{id}/points
func (h *RouteAPIHandler) ListPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.ListPoints(r.Context(), r.PathValue("id"), caller(r).UserID)
	if err != nil {
		writeAPIError(w, err, "failed to list points", "route_id", r.PathValue("id"))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, points)
}

// CreatePoint handles POST /api/routes/{id}/points
func (h *RouteAPIHandler) CreatePoint(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(w, r)
	if err != nil {
		middleware.DetailResponse(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	point, err := h.store.CreatePoint(r.Context(), r.PathValue("id"), caller(r).UserID, src)
	if err != nil {
		writeAPIError(w, err, "failed to create point", "route_id", r.PathValue("id"))
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, point)
}

// GetPoint handles GET /api/routes/{id}/points/{pointID}
func (h *RouteAPIHandler) GetPoint(w http.ResponseWriter, r *http.Request) {
	point, err := h.store.GetPoint(r.Context(), r.PathValue("id"), r.PathValue("pointID"), caller(r).UserID)
	if err != nil {
		writeAPIError(w, err, "failed to get point", "point_id", r.PathValue("pointID"))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, point)
}

// DeletePoint handles DELETE /api/routes/{id}/points/{pointID}
func (h *RouteAPIHandler) DeletePoint(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeletePoint(r.Context(), r.PathValue("id"), r.PathValue("pointID"), caller(r).UserID)
	if err != nil {
		writeAPIError(w, err, "failed to delete point", "point_id", r.PathValue("pointID"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
