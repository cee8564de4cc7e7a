// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for Routeboard.

# Handler Types

Each handler is a struct holding only what it needs:

  - AuthHandler: API tokens, login, registration and logout
  - RouteAPIHandler: JSON API for routes and points
  - PageHandler: HTML pages for routes, boards and paths
  - EventsHandler: Server-sent event stream and its log page

	authHandler := handlers.NewAuthHandler(st, tokens)
	pageHandler := handlers.NewPageHandler(st, broadcaster)

Handlers expect the caller's identity in the request context. The guards in
middleware put it there; handlers never check credentials themselves.

# Errors

The API answers store.ErrNotFound with 404 {"detail": "Not found."} whether
the record is missing or belongs to someone else. Validation failures are a
400 whose body maps each field to its messages:

	{"x": ["A valid number is required."], "y": ["This field is required."]}

Pages re-render the form with the same messages and status 400. A
successful form post redirects with 303 See Other.

# Route Detail Actions

POST /routes/{id} carries an action field:

	add_point    - x, y
	add_pair     - x1, y1, x2, y2
	delete_point - point_id
	delete_pair  - pair_id
	grid_size    - grid_size (5..200), stored in a per-route cookie

# Notifications

PageHandler announces through a Publisher after the write has succeeded:

	newBoard - once per created board
	newPath  - once per created path; overwriting a path is silent

Edits and deletes are never announced.
*/
package handlers
