// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/httprate"

	"github.com/danielhkuo/routeboard/auth"
)

// SessionCookie holds the browser session token
const SessionCookie = "session"

// LoginPath is where unauthenticated browser requests are sent
const LoginPath = "/login"

// SessionIdentity returns the identity in the request's session cookie
func SessionIdentity(tm *auth.TokenManager, r *http.Request) (auth.Identity, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return auth.Identity{}, false
	}
	id, err := tm.Verify(c.Value, auth.KindSession)
	if err != nil {
		return auth.Identity{}, false
	}
	return id, true
}

func bearerIdentity(tm *auth.TokenManager, r *http.Request) (auth.Identity, bool, error) {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return auth.Identity{}, false, nil
	}
	id, err := tm.Verify(token, auth.KindAccess)
	if err != nil {
		return auth.Identity{}, true, err
	}
	return id, true, nil
}

// RequireAPIUser admits requests carrying a valid bearer access token and
// answers everything else with 401
func RequireAPIUser(tm *auth.TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, present, err := bearerIdentity(tm, r)
		if !present {
			DetailResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if err != nil {
			DetailResponse(w, http.StatusUnauthorized, "Given token not valid for any token type.")
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

// RequireSessionUser admits requests with a valid session cookie and
// redirects everything else to the login page
func RequireSessionUser(tm *auth.TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := SessionIdentity(tm, r)
		if !ok {
			target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

// RequireAnyUser accepts either a session cookie or a bearer access token
func RequireAnyUser(tm *auth.TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := SessionIdentity(tm, r); ok {
			next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
			return
		}
		if id, present, err := bearerIdentity(tm, r); present && err == nil {
			next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
			return
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
}

// RateLimit allows requests per minute per client IP. A zero limit
// disables limiting.
func RateLimit(requests int) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requests,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return GetClientIP(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			DetailResponse(w, http.StatusTooManyRequests, "Request was throttled.")
		}),
	)
}

// Limited applies limit to a single handler function
func Limited(limit func(http.Handler) http.Handler, next http.HandlerFunc) http.HandlerFunc {
	return limit(next).ServeHTTP
}
