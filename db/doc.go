// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite):

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections get foreign_keys(1) appended to the DSN and are limited
to a single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Column types differ per driver (REAL/DATETIME vs DOUBLE PRECISION/TIMESTAMP).

# Tables

  - app_user: Login identities
  - background_image: Route backgrounds
  - route, point, pair: Routes and their coordinates
  - game_board, dot: Boards and their colored dots
  - user_path: Paths drawn on boards

# Relationships

	app_user 1──* route 1──* point
	                    1──* pair
	app_user 1──* game_board 1──* dot
	                         1──* user_path *──1 app_user
	background_image 1──* route

All foreign keys use ON DELETE CASCADE.
*/
package db
