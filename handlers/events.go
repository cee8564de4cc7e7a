// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/routeboard/events"
	"github.com/danielhkuo/routeboard/views"
)

// EventsHandler streams broadcaster events to browsers
type EventsHandler struct {
	broadcaster *events.Broadcaster
	keepalive   time.Duration
}

func NewEventsHandler(b *events.Broadcaster, keepalive time.Duration) *EventsHandler {
	return &EventsHandler{broadcaster: b, keepalive: keepalive}
}

// Stream handles GET /events. It runs until the client goes away.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	// Set http headers required for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(sub)

	user := caller(r).Username
	slog.Info("event stream opened", "user", user, "subscribers", h.broadcaster.Len())
	defer slog.Info("event stream closed", "user", user)

	if err := write(w, rc, ": connected\n\n"); err != nil {
		slog.Warn("event stream not writable", "error", err)
		return
	}

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sub.Ready():
			for _, msg := range sub.Drain() {
				if err := write(w, rc, msg); err != nil {
					return
				}
			}
		case <-ticker.C:
			if err := write(w, rc, ": keepalive\n\n"); err != nil {
				return
			}
		}
	}
}

func write(w io.Writer, rc *http.ResponseController, msg string) error {
	if _, err := io.WriteString(w, msg); err != nil {
		return err
	}
	return rc.Flush()
}

// LogPage handles GET /events/log
func (h *EventsHandler) LogPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, http.StatusOK, "events_log.html", views.Page{
		Title:    "Notifications",
		Username: caller(r).Username,
	})
}
