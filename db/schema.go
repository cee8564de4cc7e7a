// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know
	sqlx.BindDriver(TypeSQLite, sqlx.QUESTION)
}

// Open connects to the database and verifies the connection.
// SQLite connections enforce foreign keys so ON DELETE CASCADE works.
func Open(dbType, url string) (*sqlx.DB, error) {
	dsn := url
	if dbType == TypeSQLite {
		dsn = withPragma(url, "foreign_keys(1)")
	}

	conn, err := sqlx.Connect(dbType, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dbType, err)
	}

	if dbType == TypeSQLite {
		// One writer at a time; also keeps :memory: databases on one connection
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}

func withPragma(url, pragma string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=" + pragma
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sqlx.DB) error {
	_, err := db.Exec(Schema(db.DriverName()))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema returns the DDL for the given driver
func Schema(dbType string) string {
	floatType, timeType := "DOUBLE PRECISION", "TIMESTAMP"
	if dbType == TypeSQLite {
		floatType, timeType = "REAL", "DATETIME"
	}
	return strings.NewReplacer("{float}", floatType, "{time}", timeType).Replace(schema)
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at {time} NOT NULL
);

-- Background images
CREATE TABLE IF NOT EXISTS background_image (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    image TEXT NOT NULL
);

-- Routes
CREATE TABLE IF NOT EXISTS route (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    background_id TEXT REFERENCES background_image(id) ON DELETE CASCADE,
    name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_route_user_id ON route(user_id);

-- Points
CREATE TABLE IF NOT EXISTS point (
    id TEXT PRIMARY KEY,
    route_id TEXT NOT NULL REFERENCES route(id) ON DELETE CASCADE,
    x {float} NOT NULL,
    y {float} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_point_route_id ON point(route_id);

-- Pairs
CREATE TABLE IF NOT EXISTS pair (
    id TEXT PRIMARY KEY,
    route_id TEXT NOT NULL REFERENCES route(id) ON DELETE CASCADE,
    x1 {float} NOT NULL,
    y1 {float} NOT NULL,
    x2 {float} NOT NULL,
    y2 {float} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pair_route_id ON pair(route_id);

-- Boards
CREATE TABLE IF NOT EXISTS game_board (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    row_count INTEGER NOT NULL CHECK (row_count > 0),
    col_count INTEGER NOT NULL CHECK (col_count > 0),
    created_at {time} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_game_board_user_id ON game_board(user_id);

-- Dots
CREATE TABLE IF NOT EXISTS dot (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL REFERENCES game_board(id) ON DELETE CASCADE,
    row_index INTEGER NOT NULL CHECK (row_index >= 0),
    col_index INTEGER NOT NULL CHECK (col_index >= 0),
    color TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dot_board_id ON dot(board_id);

-- User paths
CREATE TABLE IF NOT EXISTS user_path (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL REFERENCES game_board(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    name TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL,
    created_at {time} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_path_board_user ON user_path(board_id, user_id);
`
