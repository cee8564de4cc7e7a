// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/routeboard/events"
	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/testutil"
)

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStreamStopsWhenClientLeaves(t *testing.T) {
	b := events.NewBroadcaster(nil, nil)
	handler := NewEventsHandler(b, time.Hour)
	st := testutil.SetupTestStore(t)
	alice := testutil.CreateTestUser(t, st, "alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	handler.Stream(w, asUser(req, alice))

	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Expected event stream content type, got %q", got)
	}
	if !strings.HasPrefix(w.Body.String(), ": connected\n\n") {
		t.Errorf("Expected connected comment, got %q", w.Body.String())
	}
	if n := b.Len(); n != 0 {
		t.Errorf("Expected subscription to be removed, %d remain", n)
	}
}

func TestStreamDeliversEvents(t *testing.T) {
	b := events.NewBroadcaster(nil, nil)
	handler := NewEventsHandler(b, testutil.GetTestConfig().SSEKeepalive)
	st := testutil.SetupTestStore(t)
	alice := testutil.CreateTestUser(t, st, "alice")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.Stream(w, asUser(r, alice))
	}))
	defer srv.Close()

	transport := &http.Transport{}
	defer transport.CloseIdleConnections()
	client := &http.Client{Transport: transport}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		t.Helper()
		for lines.Scan() {
			line := lines.Text()
			// skip blank separators and keepalive comments
			if line == "" || line == ": keepalive" {
				continue
			}
			return line
		}
		t.Fatalf("Stream ended early: %v", lines.Err())
		return ""
	}

	if line := next(); line != ": connected" {
		t.Fatalf("Expected connected comment, got %q", line)
	}
	waitFor(t, func() bool { return b.Len() == 1 })

	b.Publish(models.EventNewBoard, models.NewBoardEvent{BoardID: "b1", BoardName: "Grid1", CreatorUsername: "U"})
	b.Publish(models.EventNewPath, models.NewPathEvent{PathID: "p1", BoardID: "b1", BoardName: "Grid1", UserUsername: "U", PathName: "Zigzag"})

	if line := next(); line != "event: newBoard" {
		t.Errorf("Expected newBoard event, got %q", line)
	}
	if line := next(); !strings.Contains(line, `"board_name":"Grid1"`) || !strings.Contains(line, `"creator_username":"U"`) {
		t.Errorf("Unexpected newBoard data %q", line)
	}
	if line := next(); line != "event: newPath" {
		t.Errorf("Expected newPath event, got %q", line)
	}
	if line := next(); !strings.Contains(line, `"path_name":"Zigzag"`) {
		t.Errorf("Unexpected newPath data %q", line)
	}

	// the subscription goes away with the client
	cancel()
	waitFor(t, func() bool { return b.Len() == 0 })
}

func TestEventsLogPage(t *testing.T) {
	st := testutil.SetupTestStore(t)
	alice := testutil.CreateTestUser(t, st, "alice")
	handler := NewEventsHandler(events.NewBroadcaster(nil, nil), time.Second)

	w := httptest.NewRecorder()
	handler.LogPage(w, asUser(httptest.NewRequest("GET", "/events/log", nil), alice))

	testutil.AssertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	for _, want := range []string{`data-sse-url="/events"`, `"newBoard"`, `"newPath"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %s on the log page", want)
		}
	}
}
