// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Event kinds sent on the notification stream
const (
	EventNewBoard = "newBoard"
	EventNewPath  = "newPath"
)

// Board size limits
const (
	MinBoardSize = 1
	MaxBoardSize = 50
)

// Grid size preference for the route editor
const (
	DefaultGridSize = 20
	MinGridSize     = 5
	MaxGridSize     = 200
)

// Domain types

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type BackgroundImage struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Image string `json:"image" db:"image"`
}

type Route struct {
	ID           string           `json:"id" db:"id"`
	UserID       string           `json:"-" db:"user_id"`
	BackgroundID *string          `json:"-" db:"background_id"`
	Name         string           `json:"name" db:"name"`
	Background   *BackgroundImage `json:"background" db:"-"`
	Points       []Point          `json:"points" db:"-"`
}

type Point struct {
	ID      string  `json:"id" db:"id"`
	RouteID string  `json:"-" db:"route_id"`
	X       float64 `json:"x" db:"x"`
	Y       float64 `json:"y" db:"y"`
}

type Pair struct {
	ID      string  `json:"id" db:"id"`
	RouteID string  `json:"-" db:"route_id"`
	X1      float64 `json:"x1" db:"x1"`
	Y1      float64 `json:"y1" db:"y1"`
	X2      float64 `json:"x2" db:"x2"`
	Y2      float64 `json:"y2" db:"y2"`
}

type GameBoard struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Name      string    `json:"name" db:"name"`
	Rows      int       `json:"rows" db:"row_count"`
	Cols      int       `json:"cols" db:"col_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Dot struct {
	ID      string `json:"id,omitempty" db:"id"`
	BoardID string `json:"-" db:"board_id"`
	Row     int    `json:"row" db:"row_index"`
	Col     int    `json:"col" db:"col_index"`
	Color   string `json:"color" db:"color"`
}

// DotPair is two same-colored dots on a board
type DotPair struct {
	Color string
	First Dot
	Last  Dot
}

// Waypoint is one cell of a drawn path. Color is set by the path editor
// and may be empty for paths created elsewhere.
type Waypoint struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Color string `json:"color,omitempty"`
}

type UserPath struct {
	ID        string     `json:"id" db:"id"`
	BoardID   string     `json:"board_id" db:"board_id"`
	UserID    string     `json:"-" db:"user_id"`
	BoardName string     `json:"board_name" db:"board_name"`
	Name      string     `json:"name" db:"name"`
	PathJSON  string     `json:"-" db:"path"`
	Path      []Waypoint `json:"path" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Request types

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// Response types

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Event payloads

type NewBoardEvent struct {
	BoardID         string `json:"board_id"`
	BoardName       string `json:"board_name"`
	CreatorUsername string `json:"creator_username"`
}

type NewPathEvent struct {
	PathID       string `json:"path_id"`
	BoardID      string `json:"board_id"`
	BoardName    string `json:"board_name"`
	UserUsername string `json:"user_username"`
	PathName     string `json:"path_name"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DetailResponse is the body of 401 and 404 API responses
type DetailResponse struct {
	Detail string `json:"detail"`
}
