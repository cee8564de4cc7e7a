// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/validation"
)

func decodePaths(paths []models.UserPath) error {
	for i := range paths {
		if err := decodePath(&paths[i]); err != nil {
			return err
		}
	}
	return nil
}

func decodePath(p *models.UserPath) error {
	p.Path = []models.Waypoint{}
	if p.PathJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(p.PathJSON), &p.Path); err != nil {
		return fmt.Errorf("failed to decode path %s: %w", p.ID, err)
	}
	return nil
}

// ListOwnedPaths returns every path drawn by ownerID, oldest first
func (s *Store) ListOwnedPaths(ctx context.Context, ownerID string) ([]models.UserPath, error) {
	paths, err := listOwned[models.UserPath](ctx, s.db, pathScope, ownerID, "")
	if err != nil {
		return nil, err
	}
	return paths, decodePaths(paths)
}

// ListBoardPaths returns the paths ownerID drew on one board
func (s *Store) ListBoardPaths(ctx context.Context, boardID, ownerID string) ([]models.UserPath, error) {
	paths, err := listOwned[models.UserPath](ctx, s.db, pathScope, ownerID, "t.board_id = ?", boardID)
	if err != nil {
		return nil, err
	}
	return paths, decodePaths(paths)
}

func (s *Store) GetOwnedPath(ctx context.Context, id, ownerID string) (models.UserPath, error) {
	p, err := getOwned[models.UserPath](ctx, s.db, pathScope, id, ownerID)
	if err != nil {
		return p, err
	}
	return p, decodePath(&p)
}

// SavePath stores a path drawn on a board. Without a path_id a new path is
// created; with one, that owned path on the same board is overwritten in
// place. created reports which of the two happened.
func (s *Store) SavePath(ctx context.Context, boardID, ownerID string, src validation.Source) (path models.UserPath, created bool, err error) {
	if _, err := s.GetBoard(ctx, boardID); err != nil {
		return models.UserPath{}, false, err
	}

	var existing *models.UserPath
	if id := validation.String(src, "path_id"); id != nil && *id != "" {
		p, err := s.GetOwnedPath(ctx, *id, ownerID)
		if err != nil {
			return models.UserPath{}, false, err
		}
		if p.BoardID != boardID {
			return models.UserPath{}, false, ErrNotFound
		}
		existing = &p
	}

	var errs validation.Errors
	var in struct {
		Name string `json:"name" validate:"max=100"`
	}
	if v := validation.String(src, "name"); v != nil {
		in.Name = *v
	}
	validation.Struct(&in, &errs)

	cells := parseCells(src, "path", &errs)
	if cells == nil && !errs.Has("path") {
		errs.Add("path", validation.MsgRequired)
	}
	if err := errs.Err(); err != nil {
		return models.UserPath{}, false, err
	}

	waypoints := make([]models.Waypoint, 0, len(cells))
	for _, c := range cells {
		waypoints = append(waypoints, models.Waypoint{Row: *c.Row, Col: *c.Col, Color: c.Color})
	}
	encoded, err := json.Marshal(waypoints)
	if err != nil {
		return models.UserPath{}, false, fmt.Errorf("failed to encode path: %w", err)
	}

	if existing != nil {
		_, err = s.db.ExecContext(ctx, s.db.Rebind(`
			UPDATE user_path SET name = ?, path = ? WHERE id = ? AND user_id = ?
		`), in.Name, string(encoded), existing.ID, ownerID)
		if err != nil {
			return models.UserPath{}, false, fmt.Errorf("failed to update path: %w", err)
		}
		path, err = s.GetOwnedPath(ctx, existing.ID, ownerID)
		return path, false, err
	}

	id, err := auth.NewID()
	if err != nil {
		return models.UserPath{}, false, err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO user_path (id, board_id, user_id, name, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, boardID, ownerID, in.Name, string(encoded), s.now())
	if err != nil {
		return models.UserPath{}, false, fmt.Errorf("failed to insert path: %w", err)
	}

	path, err = s.GetOwnedPath(ctx, id, ownerID)
	return path, err == nil, err
}
