// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, response, and event types.

# Domain Types

Records stored by the store package:

  - User: login identity (password hash never serialized)
  - BackgroundImage: name and image reference
  - Route: owned by a user, optional background, with Points
  - Point, Pair: coordinates belonging to one route
  - GameBoard: owned grid of Rows x Cols
  - Dot: colored cell on a board
  - UserPath: named waypoint sequence drawn by a user on a board

# Request and Response Types

  - TokenRequest / RefreshRequest: API credentials
  - TokenResponse: access and refresh tokens
  - ErrorResponse, DetailResponse: error bodies

# Event Payloads

Sent on the notification stream:

	EventNewBoard = "newBoard" → NewBoardEvent
	EventNewPath  = "newPath"  → NewPathEvent
*/
package models
