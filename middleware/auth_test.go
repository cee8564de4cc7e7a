// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/routeboard/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokens() *auth.TokenManager {
	return auth.NewTokenManager(testSecret, time.Minute, time.Hour, time.Hour)
}

func issue(t *testing.T, tm *auth.TokenManager, kind auth.TokenKind) string {
	t.Helper()
	token, err := tm.Issue(auth.Identity{UserID: "u1", Username: "alice"}, kind)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// identityEcho writes the caller's username
func identityEcho(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "no identity", http.StatusInternalServerError)
		return
	}
	w.Write([]byte(id.Username))
}

func TestRequireAPIUser(t *testing.T) {
	tm := newTestTokens()
	handler := RequireAPIUser(tm, identityEcho)

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"access token", "Bearer " + issue(t, tm, auth.KindAccess), http.StatusOK, "alice"},
		{"no header", "", http.StatusUnauthorized, "not provided"},
		{"refresh token", "Bearer " + issue(t, tm, auth.KindRefresh), http.StatusUnauthorized, "not valid"},
		{"session token", "Bearer " + issue(t, tm, auth.KindSession), http.StatusUnauthorized, "not valid"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "not valid"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "not provided"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/routes", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if !strings.Contains(w.Body.String(), tc.wantBody) {
				t.Errorf("Expected body containing %q, got %q", tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireSessionUser(t *testing.T) {
	tm := newTestTokens()
	handler := RequireSessionUser(tm, identityEcho)

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/routes/abc", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: issue(t, tm, auth.KindSession)})
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Code != http.StatusOK || w.Body.String() != "alice" {
			t.Errorf("Expected 200 alice, got %d %q", w.Code, w.Body.String())
		}
	})

	t.Run("redirects to login with next", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/routes/abc?x=1", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("Expected 302, got %d", w.Code)
		}
		want := "/login?next=%2Froutes%2Fabc%3Fx%3D1"
		if loc := w.Header().Get("Location"); loc != want {
			t.Errorf("Expected Location %q, got %q", want, loc)
		}
	})

	t.Run("access token cookie is not a session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: issue(t, tm, auth.KindAccess)})
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Code != http.StatusFound {
			t.Errorf("Expected redirect, got %d", w.Code)
		}
	})
}

func TestRequireAnyUser(t *testing.T) {
	tm := newTestTokens()
	handler := RequireAnyUser(tm, identityEcho)

	cookieReq := httptest.NewRequest("GET", "/events", nil)
	cookieReq.AddCookie(&http.Cookie{Name: SessionCookie, Value: issue(t, tm, auth.KindSession)})

	bearerReq := httptest.NewRequest("GET", "/events", nil)
	bearerReq.Header.Set("Authorization", "Bearer "+issue(t, tm, auth.KindAccess))

	for name, req := range map[string]*http.Request{"cookie": cookieReq, "bearer": bearerReq} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d", w.Code)
			}
		})
	}

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/events", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	handler := Limited(RateLimit(2), ok)

	codes := make([]int, 0, 4)
	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		req := httptest.NewRequest("POST", "/api/token", nil)
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		handler(w, req)
		codes = append(codes, w.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusOK}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("Request %d: expected %d, got %d", i, want[i], codes[i])
		}
	}

	t.Run("zero disables", func(t *testing.T) {
		handler := Limited(RateLimit(0), ok)
		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest("POST", "/api/token", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Request %d limited with limiting disabled", i)
			}
		}
	})
}
