// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/validation"
)

type boardInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Rows *int   `json:"rows" validate:"required,gte=1,lte=50"`
	Cols *int   `json:"cols" validate:"required,gte=1,lte=50"`
}

// cell is one submitted grid position. Pointers tell a missing coordinate
// apart from zero.
type cell struct {
	Row   *int   `json:"row"`
	Col   *int   `json:"col"`
	Color string `json:"color"`
}

// parseCells decodes a JSON array of cells from field. A missing or blank
// field yields an empty slice.
func parseCells(src validation.Source, field string, errs *validation.Errors) []cell {
	raw, ok := src.Lookup(field)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil
	}

	var cells []cell
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		errs.Add(field, MsgInvalidCells)
		return nil
	}
	for i, c := range cells {
		if c.Row == nil || c.Col == nil {
			errs.Add(field, fmt.Sprintf("Item %d needs integer row and col.", i+1))
			return nil
		}
	}
	return cells
}

// MsgInvalidCells is reported when a cell list is not a JSON array of
// {row, col} objects
const MsgInvalidCells = "Enter a JSON list of objects with integer row and col."

func inBounds(c cell, rows, cols int) bool {
	return *c.Row >= 0 && *c.Row < rows && *c.Col >= 0 && *c.Col < cols
}

// parseBoard validates the board fields and its dot set together
func parseBoard(src validation.Source) (boardInput, []models.Dot, error) {
	var errs validation.Errors
	var in boardInput
	if v := validation.String(src, "name"); v != nil {
		in.Name = *v
	}
	in.Rows = validation.Int(src, "rows", &errs)
	in.Cols = validation.Int(src, "cols", &errs)
	validation.Struct(&in, &errs)

	cells := parseCells(src, "dots", &errs)
	dots := make([]models.Dot, 0, len(cells))
	if !errs.Has("rows") && !errs.Has("cols") {
		taken := make(map[[2]int]bool, len(cells))
		for i, c := range cells {
			switch {
			case !inBounds(c, *in.Rows, *in.Cols):
				errs.Add("dots", fmt.Sprintf("Dot %d at (%d, %d) is outside the board.", i+1, *c.Row, *c.Col))
			case !validation.Var(c.Color, "required,rgbcolor"):
				errs.Add("dots", fmt.Sprintf("Dot %d has an invalid color %q.", i+1, c.Color))
			case taken[[2]int{*c.Row, *c.Col}]:
				errs.Add("dots", fmt.Sprintf("Dot %d shares a cell with another dot.", i+1))
			default:
				taken[[2]int{*c.Row, *c.Col}] = true
				dots = append(dots, models.Dot{Row: *c.Row, Col: *c.Col, Color: strings.ToLower(c.Color)})
			}
		}
	}

	return in, dots, errs.Err()
}

func insertDots(ctx context.Context, q sqlx.ExtContext, boardID string, dots []models.Dot) error {
	for _, d := range dots {
		id, err := auth.NewID()
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, q.Rebind(`
			INSERT INTO dot (id, board_id, row_index, col_index, color) VALUES (?, ?, ?, ?, ?)
		`), id, boardID, d.Row, d.Col, d.Color)
		if err != nil {
			return fmt.Errorf("failed to insert dot: %w", err)
		}
	}
	return nil
}

// ListBoards returns every board of every user, oldest first
func (s *Store) ListBoards(ctx context.Context) ([]models.GameBoard, error) {
	return listAll[models.GameBoard](ctx, s.db, boardScope, "")
}

func (s *Store) ListOwnedBoards(ctx context.Context, ownerID string) ([]models.GameBoard, error) {
	return listOwned[models.GameBoard](ctx, s.db, boardScope, ownerID, "")
}

// GetBoard returns any board. Boards are readable by every signed-in user.
func (s *Store) GetBoard(ctx context.Context, id string) (models.GameBoard, error) {
	return getByID[models.GameBoard](ctx, s.db, boardScope, id)
}

func (s *Store) GetOwnedBoard(ctx context.Context, id, ownerID string) (models.GameBoard, error) {
	return getOwned[models.GameBoard](ctx, s.db, boardScope, id, ownerID)
}

// CreateBoard stores a board and its dots in one transaction
func (s *Store) CreateBoard(ctx context.Context, ownerID string, src validation.Source) (models.GameBoard, error) {
	in, dots, err := parseBoard(src)
	if err != nil {
		return models.GameBoard{}, err
	}

	id, err := auth.NewID()
	if err != nil {
		return models.GameBoard{}, err
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO game_board (id, user_id, name, row_count, col_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`), id, ownerID, in.Name, *in.Rows, *in.Cols, s.now())
		if err != nil {
			return fmt.Errorf("failed to insert board: %w", err)
		}
		return insertDots(ctx, tx, id, dots)
	})
	if err != nil {
		return models.GameBoard{}, err
	}

	return s.GetOwnedBoard(ctx, id, ownerID)
}

// UpdateBoard changes an owned board's fields and replaces its whole dot set
func (s *Store) UpdateBoard(ctx context.Context, id, ownerID string, src validation.Source) (models.GameBoard, error) {
	if _, err := s.GetOwnedBoard(ctx, id, ownerID); err != nil {
		return models.GameBoard{}, err
	}

	in, dots, err := parseBoard(src)
	if err != nil {
		return models.GameBoard{}, err
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE game_board SET name = ?, row_count = ?, col_count = ? WHERE id = ? AND user_id = ?
		`), in.Name, *in.Rows, *in.Cols, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM dot WHERE board_id = ?`), id); err != nil {
			return fmt.Errorf("failed to clear dots: %w", err)
		}
		return insertDots(ctx, tx, id, dots)
	})
	if err != nil {
		return models.GameBoard{}, err
	}

	return s.GetOwnedBoard(ctx, id, ownerID)
}

// DeleteBoard deletes an owned board; dots and paths cascade
func (s *Store) DeleteBoard(ctx context.Context, id, ownerID string) error {
	return deleteOwned(ctx, s.db, boardScope, id, ownerID)
}

// ListDots returns the dots of any board
func (s *Store) ListDots(ctx context.Context, boardID string) ([]models.Dot, error) {
	return listAll[models.Dot](ctx, s.db, dotScope, "t.board_id = ?", boardID)
}

// DeleteDotsByColor removes every dot of color from an owned board and
// returns how many were removed
func (s *Store) DeleteDotsByColor(ctx context.Context, boardID, ownerID, color string) (int64, error) {
	if _, err := s.GetOwnedBoard(ctx, boardID, ownerID); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM dot WHERE board_id = ? AND color = ?
	`), boardID, strings.ToLower(strings.TrimSpace(color)))
	if err != nil {
		return 0, fmt.Errorf("failed to delete dots: %w", err)
	}
	return res.RowsAffected()
}

// PairDots groups dots by color, keeping colors with exactly two dots in
// order of first appearance
func PairDots(dots []models.Dot) []models.DotPair {
	byColor := make(map[string][]models.Dot)
	var order []string
	for _, d := range dots {
		if _, seen := byColor[d.Color]; !seen {
			order = append(order, d.Color)
		}
		byColor[d.Color] = append(byColor[d.Color], d)
	}

	var pairs []models.DotPair
	for _, color := range order {
		if ds := byColor[color]; len(ds) == 2 {
			pairs = append(pairs, models.DotPair{Color: color, First: ds[0], Last: ds[1]})
		}
	}
	return pairs
}

// CreateRouteFromCells creates a route for ownerID from cells picked on a
// board. The route has no background; each cell becomes a point with
// x = col and y = row.
func (s *Store) CreateRouteFromCells(ctx context.Context, boardID, ownerID string, src validation.Source) (models.Route, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return models.Route{}, err
	}

	var errs validation.Errors
	var in struct {
		Name string `json:"name" validate:"required,max=100"`
	}
	if v := validation.String(src, "name"); v != nil {
		in.Name = *v
	}
	validation.Struct(&in, &errs)

	cells := parseCells(src, "route", &errs)
	if len(cells) == 0 && !errs.Has("route") {
		errs.Add("route", "Pick at least one cell.")
	}
	for i, c := range cells {
		if !inBounds(c, board.Rows, board.Cols) {
			errs.Add("route", fmt.Sprintf("Cell %d at (%d, %d) is outside the board.", i+1, *c.Row, *c.Col))
		}
	}
	if err := errs.Err(); err != nil {
		return models.Route{}, err
	}

	routeID, err := auth.NewID()
	if err != nil {
		return models.Route{}, err
	}
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertRoute(ctx, tx, models.Route{ID: routeID, UserID: ownerID, Name: in.Name}); err != nil {
			return err
		}
		for _, c := range cells {
			id, err := auth.NewID()
			if err != nil {
				return err
			}
			p := models.Point{ID: id, RouteID: routeID, X: float64(*c.Col), Y: float64(*c.Row)}
			if err := insertPoint(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Route{}, err
	}

	return s.GetRoute(ctx, routeID, ownerID)
}
