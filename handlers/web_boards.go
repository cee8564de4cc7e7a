// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/store"
	"github.com/danielhkuo/routeboard/validation"
	"github.com/danielhkuo/routeboard/views"
)

type gridCell struct {
	Row, Col int
	Color    string
}

// buildGrid lays dots out as rows of cells for rendering
func buildGrid(board models.GameBoard, dots []models.Dot) [][]gridCell {
	grid := make([][]gridCell, board.Rows)
	for r := range grid {
		grid[r] = make([]gridCell, board.Cols)
		for c := range grid[r] {
			grid[r][c] = gridCell{Row: r, Col: c}
		}
	}
	for _, d := range dots {
		if d.Row < board.Rows && d.Col < board.Cols {
			grid[d.Row][d.Col].Color = d.Color
		}
	}
	return grid
}

// encodeJSON renders v for a form textarea
func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

type boardFormData struct {
	Board    *models.GameBoard
	Name     string
	Rows     string
	Cols     string
	DotsJSON string
	Pairs    []models.DotPair
}

// NewBoardPage handles GET /boards/new
func (h *PageHandler) NewBoardPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, http.StatusOK, "board_form.html", views.Page{
		Title:    "New board",
		Username: caller(r).Username,
		Data:     boardFormData{Rows: "5", Cols: "5", DotsJSON: "[]"},
	})
}

// CreateBoard handles POST /boards/new and announces the board
func (h *PageHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	me := caller(r)

	board, err := h.store.CreateBoard(r.Context(), me.UserID, validation.Form(r.PostForm))
	if fields, ok := fieldErrors(err); ok {
		views.Render(w, http.StatusBadRequest, "board_form.html", views.Page{
			Title:    "New board",
			Username: me.Username,
			Errors:   fields,
			Form:     r.PostForm,
			Data:     boardFormData{},
		})
		return
	}
	if err != nil {
		writePageError(w, r, err, "failed to create board")
		return
	}

	slog.Info("board created", "board_id", board.ID, "user", me.Username)
	h.publisher.Publish(models.EventNewBoard, models.NewBoardEvent{
		BoardID:         board.ID,
		BoardName:       board.Name,
		CreatorUsername: board.Username,
	})
	seeOther(w, r, "/boards/"+board.ID)
}

type boardViewData struct {
	Board models.GameBoard
	Mine  bool
	Grid  [][]gridCell
	Paths []models.UserPath
}

// BoardPage handles GET /boards/{id}. Any signed-in user may view a board.
func (h *PageHandler) BoardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	me := caller(r)
	id := r.PathValue("id")

	board, err := h.store.GetBoard(ctx, id)
	if err != nil {
		writePageError(w, r, err, "failed to get board", "board_id", id)
		return
	}
	dots, err := h.store.ListDots(ctx, id)
	if err != nil {
		writePageError(w, r, err, "failed to list dots", "board_id", id)
		return
	}
	paths, err := h.store.ListBoardPaths(ctx, id, me.UserID)
	if err != nil {
		writePageError(w, r, err, "failed to list paths", "board_id", id)
		return
	}

	views.Render(w, http.StatusOK, "board_view.html", views.Page{
		Title:    board.Name,
		Username: me.Username,
		Data: boardViewData{
			Board: board,
			Mine:  board.UserID == me.UserID,
			Grid:  buildGrid(board, dots),
			Paths: paths,
		},
	})
}

// EditBoardPage handles GET /boards/{id}/edit
func (h *PageHandler) EditBoardPage(w http.ResponseWriter, r *http.Request) {
	h.renderEditBoard(w, r, http.StatusOK, nil, nil)
}

func (h *PageHandler) renderEditBoard(w http.ResponseWriter, r *http.Request, status int, errs map[string][]string, form url.Values) {
	ctx := r.Context()
	me := caller(r)
	id := r.PathValue("id")

	board, err := h.store.GetOwnedBoard(ctx, id, me.UserID)
	if err != nil {
		writePageError(w, r, err, "failed to get board", "board_id", id)
		return
	}
	dots, err := h.store.ListDots(ctx, id)
	if err != nil {
		writePageError(w, r, err, "failed to list dots", "board_id", id)
		return
	}

	views.Render(w, status, "board_form.html", views.Page{
		Title:    "Edit " + board.Name,
		Username: me.Username,
		Errors:   errs,
		Form:     form,
		Data: boardFormData{
			Board:    &board,
			Name:     board.Name,
			Rows:     strconv.Itoa(board.Rows),
			Cols:     strconv.Itoa(board.Cols),
			DotsJSON: encodeJSON(dots),
			Pairs:    store.PairDots(dots),
		},
	})
}

// EditBoard handles POST /boards/{id}/edit. A delete_pair_color field
// removes every dot of that color; otherwise the board and its whole dot
// set are replaced. Edits never announce anything.
func (h *PageHandler) EditBoard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	me := caller(r)
	id := r.PathValue("id")

	if color := r.PostForm.Get("delete_pair_color"); color != "" {
		n, err := h.store.DeleteDotsByColor(ctx, id, me.UserID, color)
		if err != nil {
			writePageError(w, r, err, "failed to delete dots", "board_id", id)
			return
		}
		slog.Info("dot pair deleted", "board_id", id, "color", color, "dots", n)
		seeOther(w, r, "/boards/"+id+"/edit")
		return
	}

	_, err := h.store.UpdateBoard(ctx, id, me.UserID, validation.Form(r.PostForm))
	if fields, ok := fieldErrors(err); ok {
		h.renderEditBoard(w, r, http.StatusBadRequest, fields, r.PostForm)
		return
	}
	if err != nil {
		writePageError(w, r, err, "failed to update board", "board_id", id)
		return
	}
	seeOther(w, r, "/boards/"+id)
}

// DeleteBoard handles POST /boards/{id}/delete
func (h *PageHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteBoard(r.Context(), id, caller(r).UserID); err != nil {
		writePageError(w, r, err, "failed to delete board", "board_id", id)
		return
	}

	slog.Info("board deleted", "board_id", id, "user", caller(r).Username)
	seeOther(w, r, "/")
}

type drawData struct {
	Board      models.GameBoard
	Grid       [][]gridCell
	Paths      []models.UserPath
	SelectedID string
	Name       string
	PathJSON   string
}

// DrawPage handles GET /boards/{id}/draw. A path_id query parameter loads
// one of the caller's paths on this board for editing.
func (h *PageHandler) DrawPage(w http.ResponseWriter, r *http.Request) {
	h.renderDraw(w, r, http.StatusOK, nil, nil)
}

func (h *PageHandler) renderDraw(w http.ResponseWriter, r *http.Request, status int, errs map[string][]string, form url.Values) {
	ctx := r.Context()
	me := caller(r)
	id := r.PathValue("id")

	board, err := h.store.GetBoard(ctx, id)
	if err != nil {
		writePageError(w, r, err, "failed to get board", "board_id", id)
		return
	}
	dots, err := h.store.ListDots(ctx, id)
	if err != nil {
		writePageError(w, r, err, "failed to list dots", "board_id", id)
		return
	}
	paths, err := h.store.ListBoardPaths(ctx, id, me.UserID)
	if err != nil {
		writePageError(w, r, err, "failed to list paths", "board_id", id)
		return
	}

	data := drawData{Board: board, Grid: buildGrid(board, dots), Paths: paths, PathJSON: "[]"}
	if pathID := r.URL.Query().Get("path_id"); pathID != "" {
		for _, p := range paths {
			if p.ID == pathID {
				data.SelectedID, data.Name, data.PathJSON = p.ID, p.Name, encodeJSON(p.Path)
			}
		}
		if data.SelectedID == "" {
			http.NotFound(w, r)
			return
		}
	}

	views.Render(w, status, "board_draw.html", views.Page{
		Title:    "Draw on " + board.Name,
		Username: me.Username,
		Errors:   errs,
		Form:     form,
		Data:     data,
	})
}

// SavePath handles POST /boards/{id}/draw. Only a newly created path is
// announced; overwriting an existing one is silent.
func (h *PageHandler) SavePath(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	me := caller(r)
	id := r.PathValue("id")

	path, created, err := h.store.SavePath(ctx, id, me.UserID, validation.Form(r.PostForm))
	if fields, ok := fieldErrors(err); ok {
		h.renderDraw(w, r, http.StatusBadRequest, fields, r.PostForm)
		return
	}
	if err != nil {
		writePageError(w, r, err, "failed to save path", "board_id", id)
		return
	}

	if created {
		slog.Info("path created", "path_id", path.ID, "board_id", id, "user", me.Username)
		h.publisher.Publish(models.EventNewPath, models.NewPathEvent{
			PathID:       path.ID,
			BoardID:      path.BoardID,
			BoardName:    path.BoardName,
			UserUsername: me.Username,
			PathName:     path.Name,
		})
	} else {
		slog.Info("path updated", "path_id", path.ID, "board_id", id, "user", me.Username)
	}
	seeOther(w, r, "/boards/"+id+"/draw?path_id="+url.QueryEscape(path.ID))
}

type boardRouteData struct {
	Board models.GameBoard
	Grid  [][]gridCell
}

// BoardRoutePage handles GET /boards/{id}/route
func (h *PageHandler) BoardRoutePage(w http.ResponseWriter, r *http.Request) {
	h.renderBoardRoute(w, r, http.StatusOK, nil, nil)
}

func (h *PageHandler) renderBoardRoute(w http.ResponseWriter, r *http.Request, status int, errs map[string][]string, form url.Values) {
	ctx := r.Context()
	id := r.PathValue("id")

	board, err := h.store.GetBoard(ctx, id)
	if err != nil {
		writePageError(w, r, err, "failed to get board", "board_id", id)
		return
	}
	dots, err := h.store.ListDots(ctx, id)
	if err != nil {
		writePageError(w, r, err, "failed to list dots", "board_id", id)
		return
	}

	views.Render(w, status, "board_route.html", views.Page{
		Title:    "Route on " + board.Name,
		Username: caller(r).Username,
		Errors:   errs,
		Form:     form,
		Data:     boardRouteData{Board: board, Grid: buildGrid(board, dots)},
	})
}

// CreateBoardRoute handles POST /boards/{id}/route
func (h *PageHandler) CreateBoardRoute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")

	route, err := h.store.CreateRouteFromCells(r.Context(), id, caller(r).UserID, validation.Form(r.PostForm))
	if fields, ok := fieldErrors(err); ok {
		h.renderBoardRoute(w, r, http.StatusBadRequest, fields, r.PostForm)
		return
	}
	if err != nil {
		writePageError(w, r, err, "failed to create route from board", "board_id", id)
		return
	}

	slog.Info("route created from board", "route_id", route.ID, "board_id", id)
	seeOther(w, r, "/routes/"+route.ID)
}
