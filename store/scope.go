// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// scope describes how records of one table reach their owner. The table is
// always aliased t; from may join the parent that carries the owner column.
type scope struct {
	table string
	from  string
	owner string
	cols  string
}

var (
	routeScope = scope{
		table: "route",
		from:  "route t",
		owner: "t.user_id",
		cols:  "t.id, t.user_id, t.background_id, t.name",
	}
	pointScope = scope{
		table: "point",
		from:  "point t JOIN route r ON r.id = t.route_id",
		owner: "r.user_id",
		cols:  "t.id, t.route_id, t.x, t.y",
	}
	pairScope = scope{
		table: "pair",
		from:  "pair t JOIN route r ON r.id = t.route_id",
		owner: "r.user_id",
		cols:  "t.id, t.route_id, t.x1, t.y1, t.x2, t.y2",
	}
	boardScope = scope{
		table: "game_board",
		from:  "game_board t JOIN app_user u ON u.id = t.user_id",
		owner: "t.user_id",
		cols:  "t.id, t.user_id, u.username, t.name, t.row_count, t.col_count, t.created_at",
	}
	dotScope = scope{
		table: "dot",
		from:  "dot t JOIN game_board b ON b.id = t.board_id",
		owner: "b.user_id",
		cols:  "t.id, t.board_id, t.row_index, t.col_index, t.color",
	}
	pathScope = scope{
		table: "user_path",
		from:  "user_path t JOIN game_board b ON b.id = t.board_id",
		owner: "t.user_id",
		cols:  "t.id, t.board_id, t.user_id, b.name AS board_name, t.name, t.path, t.created_at",
	}
)

// listOwned returns the records of s owned by ownerID, oldest first.
// filter is an optional extra condition on t.
func listOwned[T any](ctx context.Context, q sqlx.ExtContext, s scope, ownerID, filter string, args ...any) ([]T, error) {
	query := "SELECT " + s.cols + " FROM " + s.from + " WHERE " + s.owner + " = ?"
	if filter != "" {
		query += " AND " + filter
	}
	query += " ORDER BY t.id"

	items := []T{}
	if err := sqlx.SelectContext(ctx, q, &items, q.Rebind(query), append([]any{ownerID}, args...)...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table, err)
	}
	return items, nil
}

// listAll returns records of s regardless of owner, oldest first
func listAll[T any](ctx context.Context, q sqlx.ExtContext, s scope, filter string, args ...any) ([]T, error) {
	query := "SELECT " + s.cols + " FROM " + s.from
	if filter != "" {
		query += " WHERE " + filter
	}
	query += " ORDER BY t.id"

	items := []T{}
	if err := sqlx.SelectContext(ctx, q, &items, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table, err)
	}
	return items, nil
}

// getOwned returns one record of s. A missing record and a record owned by
// someone else both yield ErrNotFound.
func getOwned[T any](ctx context.Context, q sqlx.ExtContext, s scope, id, ownerID string) (T, error) {
	var item T
	query := "SELECT " + s.cols + " FROM " + s.from + " WHERE t.id = ? AND " + s.owner + " = ?"
	err := sqlx.GetContext(ctx, q, &item, q.Rebind(query), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return item, ErrNotFound
	}
	if err != nil {
		return item, fmt.Errorf("failed to get %s: %w", s.table, err)
	}
	return item, nil
}

// getByID returns one record of s regardless of owner
func getByID[T any](ctx context.Context, q sqlx.ExtContext, s scope, id string) (T, error) {
	var item T
	query := "SELECT " + s.cols + " FROM " + s.from + " WHERE t.id = ?"
	err := sqlx.GetContext(ctx, q, &item, q.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return item, ErrNotFound
	}
	if err != nil {
		return item, fmt.Errorf("failed to get %s: %w", s.table, err)
	}
	return item, nil
}

// deleteOwned deletes one record of s, with the same not-found rule as getOwned
func deleteOwned(ctx context.Context, q sqlx.ExtContext, s scope, id, ownerID string) error {
	query := "DELETE FROM " + s.table + " WHERE id = ? AND id IN (SELECT t.id FROM " + s.from + " WHERE " + s.owner + " = ?)"
	res, err := q.ExecContext(ctx, q.Rebind(query), id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// createChild resolves the parent through getOwned before anything else, so
// a child can never be attached to another user's parent and such attempts
// look exactly like a missing parent. build validates the payload against
// the parent and returns every field problem at once; insert persists the
// child.
func createChild[P, C any](
	ctx context.Context,
	q sqlx.ExtContext,
	parent scope,
	parentID, ownerID string,
	build func(P) (C, error),
	insert func(context.Context, sqlx.ExtContext, C) error,
) (C, error) {
	var zero C

	p, err := getOwned[P](ctx, q, parent, parentID, ownerID)
	if err != nil {
		return zero, err
	}

	child, err := build(p)
	if err != nil {
		return zero, err
	}

	if err := insert(ctx, q, child); err != nil {
		return zero, err
	}
	return child, nil
}
