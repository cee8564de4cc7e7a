// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/middleware"
	"github.com/danielhkuo/routeboard/store"
	"github.com/danielhkuo/routeboard/validation"
)

// Publisher fans an event out to listeners
type Publisher interface {
	Publish(kind string, payload any)
}

// maxBodyBytes bounds JSON and form bodies
const maxBodyBytes = 1 << 20

// caller returns the identity placed in the context by the auth guards
func caller(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// readSource returns the submitted fields of a form or JSON body. An empty
// JSON body is an empty object, so every required field gets reported.
func readSource(w http.ResponseWriter, r *http.Request) (validation.Source, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return validation.Form(r.PostForm), nil
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	fields := validation.JSON{}
	if strings.TrimSpace(string(body)) == "" {
		return fields, nil
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// writeAPIError maps store errors onto JSON responses
func writeAPIError(w http.ResponseWriter, err error, msg string, args ...any) {
	var verrs *validation.Errors
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.NotFound(w)
	case errors.As(err, &verrs):
		middleware.FieldErrors(w, verrs.Fields())
	default:
		slog.Error(msg, append(args, "error", err)...)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// writePageError handles store errors that cannot be shown on a form
func writePageError(w http.ResponseWriter, r *http.Request, err error, msg string, args ...any) {
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	slog.Error(msg, append(args, "error", err)...)
	http.Error(w, "Database error", http.StatusInternalServerError)
}

// fieldErrors returns the field messages carried by err, if it is a
// validation failure
func fieldErrors(err error) (map[string][]string, bool) {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		return verrs.Fields(), true
	}
	return nil, false
}

// seeOther redirects after a successful form submission
func seeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// safeNext returns next when it is a local path, otherwise "/"
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
