// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/middleware"
	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/store"
	"github.com/danielhkuo/routeboard/views"
)

// AuthHandler issues API tokens and browser sessions
type AuthHandler struct {
	store  *store.Store
	tokens *auth.TokenManager
}

func NewAuthHandler(st *store.Store, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: st, tokens: tokens}
}

type loginData struct {
	Next string
}

// Token handles POST /api/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(w, r)
	if err != nil {
		middleware.DetailResponse(w, http.StatusBadRequest, "JSON parse error")
		return
	}
	username, _ := src.Lookup("username")
	password, _ := src.Lookup("password")

	user, err := h.store.Authenticate(r.Context(), username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		middleware.DetailResponse(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}
	if err != nil {
		writeAPIError(w, err, "failed to authenticate")
		return
	}

	id := auth.Identity{UserID: user.ID, Username: user.Username}
	access, err := h.tokens.Issue(id, auth.KindAccess)
	if err != nil {
		writeAPIError(w, err, "failed to issue access token")
		return
	}
	refresh, err := h.tokens.Issue(id, auth.KindRefresh)
	if err != nil {
		writeAPIError(w, err, "failed to issue refresh token")
		return
	}

	slog.Info("api token issued", "user", user.Username)
	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{Access: access, Refresh: refresh})
}

// Refresh handles POST /api/token/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.DetailResponse(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	id, err := h.tokens.Verify(req.Refresh, auth.KindRefresh)
	if err != nil {
		middleware.DetailResponse(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	// the account may have been removed since the refresh token was issued
	if _, err := h.store.UserByID(r.Context(), id.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.DetailResponse(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}
		writeAPIError(w, err, "failed to load user")
		return
	}

	access, err := h.tokens.Issue(id, auth.KindAccess)
	if err != nil {
		writeAPIError(w, err, "failed to issue access token")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{Access: access})
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, http.StatusOK, "login.html", views.Page{
		Title: "Log in",
		Data:  loginData{Next: r.URL.Query().Get("next")},
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	next := r.PostForm.Get("next")

	user, err := h.store.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		views.Render(w, http.StatusBadRequest, "login.html", views.Page{
			Title:  "Log in",
			Errors: map[string][]string{"non_field_errors": {"Please enter a correct username and password."}},
			Form:   r.PostForm,
			Data:   loginData{Next: next},
		})
		return
	}
	if err != nil {
		writePageError(w, r, err, "failed to authenticate")
		return
	}

	if err := h.startSession(w, user); err != nil {
		writePageError(w, r, err, "failed to start session")
		return
	}
	slog.Info("user logged in", "user", user.Username)
	seeOther(w, r, safeNext(next))
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, http.StatusOK, "register.html", views.Page{Title: "Register"})
}

// Register handles POST /register and logs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(w, r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	user, err := h.store.CreateUser(r.Context(), src)
	if fields, ok := fieldErrors(err); ok {
		r.PostForm.Del("password")
		views.Render(w, http.StatusBadRequest, "register.html", views.Page{
			Title:  "Register",
			Errors: fields,
			Form:   r.PostForm,
		})
		return
	}
	if err != nil {
		writePageError(w, r, err, "failed to create user")
		return
	}

	if err := h.startSession(w, user); err != nil {
		writePageError(w, r, err, "failed to start session")
		return
	}
	slog.Info("user registered", "user", user.Username)
	seeOther(w, r, "/")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	seeOther(w, r, middleware.LoginPath)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user models.User) error {
	token, err := h.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username}, auth.KindSession)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL(auth.KindSession).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
