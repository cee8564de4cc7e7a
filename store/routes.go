// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/validation"
)

type backgroundInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Image string `json:"image" validate:"required,max=255"`
}

type routeInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	BackgroundID string `json:"background_id" validate:"required"`
}

type pointInput struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type pairInput struct {
	X1 *float64 `json:"x1" validate:"required"`
	Y1 *float64 `json:"y1" validate:"required"`
	X2 *float64 `json:"x2" validate:"required"`
	Y2 *float64 `json:"y2" validate:"required"`
}

// Backgrounds

func (s *Store) ListBackgrounds(ctx context.Context) ([]models.BackgroundImage, error) {
	items := []models.BackgroundImage{}
	err := s.db.SelectContext(ctx, &items, `SELECT id, name, image FROM background_image ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list backgrounds: %w", err)
	}
	return items, nil
}

func (s *Store) GetBackground(ctx context.Context, id string) (models.BackgroundImage, error) {
	var bg models.BackgroundImage
	err := s.db.GetContext(ctx, &bg, s.db.Rebind(`SELECT id, name, image FROM background_image WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return bg, ErrNotFound
	}
	if err != nil {
		return bg, fmt.Errorf("failed to get background: %w", err)
	}
	return bg, nil
}

// CreateBackground stores a background image reference (a path or URL)
func (s *Store) CreateBackground(ctx context.Context, src validation.Source) (models.BackgroundImage, error) {
	var errs validation.Errors
	var in backgroundInput
	if v := validation.String(src, "name"); v != nil {
		in.Name = *v
	}
	if v := validation.String(src, "image"); v != nil {
		in.Image = *v
	}
	validation.Struct(&in, &errs)
	if err := errs.Err(); err != nil {
		return models.BackgroundImage{}, err
	}

	id, err := auth.NewID()
	if err != nil {
		return models.BackgroundImage{}, err
	}
	bg := models.BackgroundImage{ID: id, Name: in.Name, Image: in.Image}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO background_image (id, name, image) VALUES (?, ?, ?)
	`), bg.ID, bg.Name, bg.Image)
	if err != nil {
		return models.BackgroundImage{}, fmt.Errorf("failed to insert background: %w", err)
	}
	return bg, nil
}

// Routes

// ListRoutes returns the owner's routes with background and points loaded
func (s *Store) ListRoutes(ctx context.Context, ownerID string) ([]models.Route, error) {
	routes, err := listOwned[models.Route](ctx, s.db, routeScope, ownerID, "")
	if err != nil {
		return nil, err
	}
	for i := range routes {
		if err := s.loadRoute(ctx, &routes[i]); err != nil {
			return nil, err
		}
	}
	return routes, nil
}

// GetRoute returns an owned route with background and points loaded
func (s *Store) GetRoute(ctx context.Context, id, ownerID string) (models.Route, error) {
	route, err := getOwned[models.Route](ctx, s.db, routeScope, id, ownerID)
	if err != nil {
		return route, err
	}
	if err := s.loadRoute(ctx, &route); err != nil {
		return route, err
	}
	return route, nil
}

func (s *Store) loadRoute(ctx context.Context, route *models.Route) error {
	if route.BackgroundID != nil {
		bg, err := s.GetBackground(ctx, *route.BackgroundID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if err == nil {
			route.Background = &bg
		}
	}

	points, err := listOwned[models.Point](ctx, s.db, pointScope, route.UserID, "t.route_id = ?", route.ID)
	if err != nil {
		return err
	}
	route.Points = points
	return nil
}

// parseRoute reads name and background_id. Missing fields are taken from
// base, which makes partial updates validate like full ones.
func (s *Store) parseRoute(ctx context.Context, src validation.Source, base *models.Route) (routeInput, error) {
	var errs validation.Errors
	var in routeInput
	if base != nil {
		in.Name = base.Name
		if base.BackgroundID != nil {
			in.BackgroundID = *base.BackgroundID
		}
	}
	if v := validation.String(src, "name"); v != nil {
		in.Name = *v
	}
	if v := validation.String(src, "background_id"); v != nil {
		in.BackgroundID = *v
	}
	validation.Struct(&in, &errs)

	if !errs.Has("background_id") {
		_, err := s.GetBackground(ctx, in.BackgroundID)
		if errors.Is(err, ErrNotFound) {
			errs.Add("background_id", fmt.Sprintf("Invalid pk %q - object does not exist.", in.BackgroundID))
		} else if err != nil {
			return in, err
		}
	}
	return in, errs.Err()
}

// CreateRoute creates a route owned by ownerID
func (s *Store) CreateRoute(ctx context.Context, ownerID string, src validation.Source) (models.Route, error) {
	in, err := s.parseRoute(ctx, src, nil)
	if err != nil {
		return models.Route{}, err
	}

	id, err := auth.NewID()
	if err != nil {
		return models.Route{}, err
	}
	route := models.Route{ID: id, UserID: ownerID, BackgroundID: &in.BackgroundID, Name: in.Name}
	if err := insertRoute(ctx, s.db, route); err != nil {
		return models.Route{}, err
	}

	return s.GetRoute(ctx, id, ownerID)
}

func insertRoute(ctx context.Context, q sqlx.ExtContext, route models.Route) error {
	_, err := q.ExecContext(ctx, q.Rebind(`
		INSERT INTO route (id, user_id, background_id, name) VALUES (?, ?, ?, ?)
	`), route.ID, route.UserID, route.BackgroundID, route.Name)
	if err != nil {
		return fmt.Errorf("failed to insert route: %w", err)
	}
	return nil
}

// UpdateRoute replaces name and background of an owned route. With partial
// set, fields absent from src keep their current values.
func (s *Store) UpdateRoute(ctx context.Context, id, ownerID string, src validation.Source, partial bool) (models.Route, error) {
	current, err := getOwned[models.Route](ctx, s.db, routeScope, id, ownerID)
	if err != nil {
		return models.Route{}, err
	}

	var base *models.Route
	if partial {
		base = &current
	}
	in, err := s.parseRoute(ctx, src, base)
	if err != nil {
		return models.Route{}, err
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE route SET name = ?, background_id = ? WHERE id = ? AND user_id = ?
	`), in.Name, in.BackgroundID, id, ownerID)
	if err != nil {
		return models.Route{}, fmt.Errorf("failed to update route: %w", err)
	}

	return s.GetRoute(ctx, id, ownerID)
}

// DeleteRoute deletes an owned route; its points and pairs cascade
func (s *Store) DeleteRoute(ctx context.Context, id, ownerID string) error {
	return deleteOwned(ctx, s.db, routeScope, id, ownerID)
}

// Points

// ListPoints returns the points of an owned route in creation order
func (s *Store) ListPoints(ctx context.Context, routeID, ownerID string) ([]models.Point, error) {
	if _, err := getOwned[models.Route](ctx, s.db, routeScope, routeID, ownerID); err != nil {
		return nil, err
	}
	return listOwned[models.Point](ctx, s.db, pointScope, ownerID, "t.route_id = ?", routeID)
}

// GetPoint returns a point of an owned route
func (s *Store) GetPoint(ctx context.Context, routeID, pointID, ownerID string) (models.Point, error) {
	p, err := getOwned[models.Point](ctx, s.db, pointScope, pointID, ownerID)
	if err != nil {
		return p, err
	}
	if p.RouteID != routeID {
		return models.Point{}, ErrNotFound
	}
	return p, nil
}

// CreatePoint appends a point to an owned route. x and y must both be
// present and numeric; every problem is reported.
func (s *Store) CreatePoint(ctx context.Context, routeID, ownerID string, src validation.Source) (models.Point, error) {
	return createChild(ctx, s.db, routeScope, routeID, ownerID,
		func(route models.Route) (models.Point, error) {
			var errs validation.Errors
			in := pointInput{
				X: validation.Float(src, "x", &errs),
				Y: validation.Float(src, "y", &errs),
			}
			validation.Struct(&in, &errs)
			if err := errs.Err(); err != nil {
				return models.Point{}, err
			}

			id, err := auth.NewID()
			if err != nil {
				return models.Point{}, err
			}
			return models.Point{ID: id, RouteID: route.ID, X: *in.X, Y: *in.Y}, nil
		},
		insertPoint,
	)
}

func insertPoint(ctx context.Context, q sqlx.ExtContext, p models.Point) error {
	_, err := q.ExecContext(ctx, q.Rebind(`
		INSERT INTO point (id, route_id, x, y) VALUES (?, ?, ?, ?)
	`), p.ID, p.RouteID, p.X, p.Y)
	if err != nil {
		return fmt.Errorf("failed to insert point: %w", err)
	}
	return nil
}

// DeletePoint removes one point of an owned route
func (s *Store) DeletePoint(ctx context.Context, routeID, pointID, ownerID string) error {
	if _, err := s.GetPoint(ctx, routeID, pointID, ownerID); err != nil {
		return err
	}
	return deleteOwned(ctx, s.db, pointScope, pointID, ownerID)
}

// Pairs

// ListPairs returns the pairs of an owned route in creation order
func (s *Store) ListPairs(ctx context.Context, routeID, ownerID string) ([]models.Pair, error) {
	if _, err := getOwned[models.Route](ctx, s.db, routeScope, routeID, ownerID); err != nil {
		return nil, err
	}
	return listOwned[models.Pair](ctx, s.db, pairScope, ownerID, "t.route_id = ?", routeID)
}

// CreatePair adds a pair of endpoints to an owned route
func (s *Store) CreatePair(ctx context.Context, routeID, ownerID string, src validation.Source) (models.Pair, error) {
	return createChild(ctx, s.db, routeScope, routeID, ownerID,
		func(route models.Route) (models.Pair, error) {
			var errs validation.Errors
			in := pairInput{
				X1: validation.Float(src, "x1", &errs),
				Y1: validation.Float(src, "y1", &errs),
				X2: validation.Float(src, "x2", &errs),
				Y2: validation.Float(src, "y2", &errs),
			}
			validation.Struct(&in, &errs)
			if err := errs.Err(); err != nil {
				return models.Pair{}, err
			}

			id, err := auth.NewID()
			if err != nil {
				return models.Pair{}, err
			}
			return models.Pair{ID: id, RouteID: route.ID, X1: *in.X1, Y1: *in.Y1, X2: *in.X2, Y2: *in.Y2}, nil
		},
		func(ctx context.Context, q sqlx.ExtContext, p models.Pair) error {
			_, err := q.ExecContext(ctx, q.Rebind(`
				INSERT INTO pair (id, route_id, x1, y1, x2, y2) VALUES (?, ?, ?, ?, ?, ?)
			`), p.ID, p.RouteID, p.X1, p.Y1, p.X2, p.Y2)
			if err != nil {
				return fmt.Errorf("failed to insert pair: %w", err)
			}
			return nil
		},
	)
}

// DeletePair removes one pair of an owned route
func (s *Store) DeletePair(ctx context.Context, routeID, pairID, ownerID string) error {
	p, err := getOwned[models.Pair](ctx, s.db, pairScope, pairID, ownerID)
	if err != nil {
		return err
	}
	if p.RouteID != routeID {
		return ErrNotFound
	}
	return deleteOwned(ctx, s.db, pairScope, pairID, ownerID)
}
