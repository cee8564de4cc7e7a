// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/store"
	"github.com/danielhkuo/routeboard/validation"
	"github.com/danielhkuo/routeboard/views"
)

// PageHandler serves the HTML interface. Every method runs behind
// middleware.RequireSessionUser.
type PageHandler struct {
	store     *store.Store
	publisher Publisher
}

func NewPageHandler(st *store.Store, publisher Publisher) *PageHandler {
	return &PageHandler{store: st, publisher: publisher}
}

type boardListing struct {
	Board models.GameBoard
	Mine  bool
}

type homeData struct {
	Routes []models.Route
	Boards []boardListing
	Paths  []models.UserPath
}

// Home handles GET /{$}
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	me := caller(r)

	routes, err := h.store.ListRoutes(ctx, me.UserID)
	if err != nil {
		writePageError(w, r, err, "failed to list routes")
		return
	}
	boards, err := h.store.ListBoards(ctx)
	if err != nil {
		writePageError(w, r, err, "failed to list boards")
		return
	}
	paths, err := h.store.ListOwnedPaths(ctx, me.UserID)
	if err != nil {
		writePageError(w, r, err, "failed to list paths")
		return
	}

	data := homeData{Routes: routes, Paths: paths}
	for _, b := range boards {
		data.Boards = append(data.Boards, boardListing{Board: b, Mine: b.UserID == me.UserID})
	}

	views.Render(w, http.StatusOK, "home.html", views.Page{Title: "Routeboard", Username: me.Username, Data: data})
}

type routeFormData struct {
	Backgrounds []models.BackgroundImage
}

// NewRoutePage handles GET /routes/new
func (h *PageHandler) NewRoutePage(w http.ResponseWriter, r *http.Request) {
	h.renderNewRoute(w, r, http.StatusOK, nil, nil)
}

func (h *PageHandler) renderNewRoute(w http.ResponseWriter, r *http.Request, status int, errs map[string][]string, form url.Values) {
	backgrounds, err := h.store.ListBackgrounds(r.Context())
	if err != nil {
		writePageError(w, r, err, "failed to list backgrounds")
		return
	}
	views.Render(w, status, "route_new.html", views.Page{
		Title:    "New route",
		Username: caller(r).Username,
		Errors:   errs,
		Form:     form,
		Data:     routeFormData{Backgrounds: backgrounds},
	})
}

// CreateRoute handles POST /routes/new
func (h *PageHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	route, err := h.store.CreateRoute(r.Context(), caller(r).UserID, validation.Form(r.PostForm))
	if fields, ok := fieldErrors(err); ok {
		h.renderNewRoute(w, r, http.StatusBadRequest, fields, r.PostForm)
		return
	}
	if err != nil {
		writePageError(w, r, err, "failed to create route")
		return
	}

	slog.Info("route created", "route_id", route.ID, "user", caller(r).Username)
	seeOther(w, r, "/routes/"+route.ID)
}

type routeDetailData struct {
	Route      models.Route
	Pairs      []models.Pair
	GridSize   int
	PairFields []string
}

func gridCookieName(routeID string) string {
	return "grid_size_" + routeID
}

// gridSize reads the route's grid size preference, falling back to the default
func gridSize(r *http.Request, routeID string) int {
	c, err := r.Cookie(gridCookieName(routeID))
	if err != nil {
		return models.DefaultGridSize
	}
	n, err := strconv.Atoi(c.Value)
	if err != nil || n < models.MinGridSize || n > models.MaxGridSize {
		return models.DefaultGridSize
	}
	return n
}

// RoutePage handles GET /routes/{id}
func (h *PageHandler) RoutePage(w http.ResponseWriter, r *http.Request) {
	h.renderRoute(w, r, http.StatusOK, nil, nil)
}

func (h *PageHandler) renderRoute(w http.ResponseWriter, r *http.Request, status int, errs map[string][]string, form url.Values) {
	ctx := r.Context()
	me := caller(r)
	id := r.PathValue("id")

	route, err := h.store.GetRoute(ctx, id, me.UserID)
	if err != nil {
		writePageError(w, r, err, "failed to get route", "route_id", id)
		return
	}
	pairs, err := h.store.ListPairs(ctx, id, me.UserID)
	if err != nil {
		writePageError(w, r, err, "failed to list pairs", "route_id", id)
		return
	}

	views.Render(w, status, "route_detail.html", views.Page{
		Title:    route.Name,
		Username: me.Username,
		Errors:   errs,
		Form:     form,
		Data: routeDetailData{
			Route:      route,
			Pairs:      pairs,
			GridSize:   gridSize(r, id),
			PairFields: []string{"x1", "y1", "x2", "y2"},
		},
	})
}

// EditRoute handles POST /routes/{id}. The action field selects the change.
func (h *PageHandler) EditRoute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	me := caller(r)
	id := r.PathValue("id")
	form := validation.Form(r.PostForm)

	// the route must be visible before any action, including grid_size
	if _, err := h.store.GetRoute(ctx, id, me.UserID); err != nil {
		writePageError(w, r, err, "failed to get route", "route_id", id)
		return
	}

	var err error
	switch action := r.PostForm.Get("action"); action {
	case "add_point":
		_, err = h.store.CreatePoint(ctx, id, me.UserID, form)
	case "add_pair":
		_, err = h.store.CreatePair(ctx, id, me.UserID, form)
	case "delete_point":
		err = h.store.DeletePoint(ctx, id, r.PostForm.Get("point_id"), me.UserID)
	case "delete_pair":
		err = h.store.DeletePair(ctx, id, r.PostForm.Get("pair_id"), me.UserID)
	case "grid_size":
		err = setGridSize(w, id, form)
	default:
		err = unknownAction(action)
	}

	if fields, ok := fieldErrors(err); ok {
		h.renderRoute(w, r, http.StatusBadRequest, fields, r.PostForm)
		return
	}
	if err != nil {
		writePageError(w, r, err, "failed to edit route", "route_id", id)
		return
	}
	seeOther(w, r, "/routes/"+id)
}

func unknownAction(action string) error {
	var errs validation.Errors
	errs.Add("non_field_errors", "Unknown action "+strconv.Quote(action)+".")
	return errs.Err()
}

func setGridSize(w http.ResponseWriter, routeID string, src validation.Source) error {
	var errs validation.Errors
	in := struct {
		GridSize *int `json:"grid_size" validate:"required,gte=5,lte=200"`
	}{GridSize: validation.Int(src, "grid_size", &errs)}
	validation.Struct(&in, &errs)
	if err := errs.Err(); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     gridCookieName(routeID),
		Value:    strconv.Itoa(*in.GridSize),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// DeleteRoute handles POST /routes/{id}/delete
func (h *PageHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteRoute(r.Context(), id, caller(r).UserID); err != nil {
		writePageError(w, r, err, "failed to delete route", "route_id", id)
		return
	}

	slog.Info("route deleted", "route_id", id, "user", caller(r).Username)
	seeOther(w, r, "/")
}
