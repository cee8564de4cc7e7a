// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// asUser attaches user's identity the way the auth guards do
func asUser(req *http.Request, user models.User) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), testutil.Identity(user)))
}

type published struct {
	kind    string
	payload any
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(kind string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{kind: kind, payload: payload})
}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

// expectRedirect checks for a 303 to location
func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	testutil.AssertStatus(t, w, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}
