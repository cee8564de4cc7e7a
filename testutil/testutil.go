// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/cliparse"
	"github.com/danielhkuo/routeboard/db"
	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/store"
	"github.com/danielhkuo/routeboard/validation"
)

// TestDBURL is an in-memory sqlite database, private to its connection
const TestDBURL = "file::memory:"

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "correct-horse-battery"

// SetupTestDB opens a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a store over a fresh database, hashing with the
// cheapest bcrypt cost to keep tests fast
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t), store.WithPasswordCost(bcrypt.MinCost))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     TestDBURL,
		DatabaseType:    db.TypeSQLite,
		JWTSecret:       "test-secret-that-is-at-least-32-bytes",
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: time.Hour,
		SessionTTL:      time.Hour,
		LogLevel:        "error",
		SSEKeepalive:    50 * time.Millisecond,
	}
}

// NewTokenManager returns a token manager for cfg
func NewTokenManager(cfg cliparse.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.SessionTTL)
}

// CreateTestUser registers a user with TestPassword
func CreateTestUser(t *testing.T, st *store.Store, username string) models.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), validation.Form{
		"username": {username},
		"password": {TestPassword},
	})
	if err != nil {
		t.Fatalf("Failed to create test user %q: %v", username, err)
	}
	return user
}

// CreateTestBackground adds a background image
func CreateTestBackground(t *testing.T, st *store.Store, name string) models.BackgroundImage {
	t.Helper()

	bg, err := st.CreateBackground(context.Background(), validation.Form{
		"name":  {name},
		"image": {"backgrounds/" + strings.ToLower(name) + ".png"},
	})
	if err != nil {
		t.Fatalf("Failed to create test background: %v", err)
	}
	return bg
}

// CreateTestRoute creates a route for user on bg
func CreateTestRoute(t *testing.T, st *store.Store, user models.User, bg models.BackgroundImage, name string) models.Route {
	t.Helper()

	route, err := st.CreateRoute(context.Background(), user.ID, validation.Form{
		"name":          {name},
		"background_id": {bg.ID},
	})
	if err != nil {
		t.Fatalf("Failed to create test route: %v", err)
	}
	return route
}

// CreateTestBoard creates a board for user with the given dots JSON
func CreateTestBoard(t *testing.T, st *store.Store, user models.User, name string, rows, cols int, dots string) models.GameBoard {
	t.Helper()

	board, err := st.CreateBoard(context.Background(), user.ID, validation.Form{
		"name": {name},
		"rows": {strconv.Itoa(rows)},
		"cols": {strconv.Itoa(cols)},
		"dots": {dots},
	})
	if err != nil {
		t.Fatalf("Failed to create test board: %v", err)
	}
	return board
}

// Identity returns the identity of user
func Identity(user models.User) auth.Identity {
	return auth.Identity{UserID: user.ID, Username: user.Username}
}

// AccessToken issues an API access token for user
func AccessToken(t *testing.T, tm *auth.TokenManager, user models.User) string {
	t.Helper()

	token, err := tm.Issue(Identity(user), auth.KindAccess)
	if err != nil {
		t.Fatalf("Failed to issue access token: %v", err)
	}
	return token
}

// SessionCookie issues a browser session cookie for user
func SessionCookie(t *testing.T, tm *auth.TokenManager, user models.User) *http.Cookie {
	t.Helper()

	token, err := tm.Issue(Identity(user), auth.KindSession)
	if err != nil {
		t.Fatalf("Failed to issue session token: %v", err)
	}
	return &http.Cookie{Name: "session", Value: token}
}

// BearerHeader returns request headers authenticating as user
func BearerHeader(t *testing.T, tm *auth.TokenManager, user models.User) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + AccessToken(t, tm, user)}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates a form POST, optionally carrying cookies
func MakeFormRequest(path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
