// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"
)

// Subscription is one listener's queue of formatted messages.
// Publishers append; the listener drains.
type Subscription struct {
	mu     sync.Mutex
	queue  []string
	ready  chan struct{}
	closed bool
}

func newSubscription() *Subscription {
	return &Subscription{ready: make(chan struct{}, 1)}
}

// Ready is signalled after new messages are appended.
// A single pending signal may cover several messages.
func (s *Subscription) Ready() <-chan struct{} {
	return s.ready
}

// Drain removes and returns all pending messages in publish order
func (s *Subscription) Drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.queue
	s.queue = nil
	return msgs
}

// Pending returns the number of undrained messages
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Subscription) push(msg string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Observer receives broadcaster activity, e.g. for metrics
type Observer interface {
	SubscriberCount(n int)
	Published(kind string, delivered int)
}

// Broadcaster fans each published event out to every registered
// subscription. The queues are unbounded: a listener that never drains
// grows without limit until it unsubscribes.
type Broadcaster struct {
	mu       sync.Mutex
	subs     []*Subscription
	logger   *slog.Logger
	observer Observer
}

func NewBroadcaster(logger *slog.Logger, observer Observer) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{logger: logger, observer: observer}
}

// Subscribe registers a new empty subscription
func (b *Broadcaster) Subscribe() *Subscription {
	sub := newSubscription()

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	n := len(b.subs)
	b.mu.Unlock()

	if b.observer != nil {
		b.observer.SubscriberCount(n)
	}
	b.logger.Debug("subscriber registered", "subscribers", n)
	return sub
}

// Unsubscribe removes sub. Calling it more than once is harmless.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	removed := false
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			removed = true
			break
		}
	}
	n := len(b.subs)
	b.mu.Unlock()

	if !removed {
		return
	}

	sub.mu.Lock()
	sub.closed = true
	sub.mu.Unlock()

	if b.observer != nil {
		b.observer.SubscriberCount(n)
	}
	b.logger.Debug("subscriber removed", "subscribers", n)
}

// Len returns the number of registered subscriptions
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish formats payload as an SSE message tagged kind and appends it to
// every registered subscription in registration order. Failures are logged
// and never returned: the caller's write has already succeeded.
func (b *Broadcaster) Publish(kind string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event publish panicked", "kind", kind, "panic", r)
		}
	}()

	msg, err := Format(kind, payload)
	if err != nil {
		b.logger.Error("failed to format event", "kind", kind, "error", err)
		return
	}

	b.mu.Lock()
	for _, sub := range b.subs {
		sub.push(msg)
	}
	delivered := len(b.subs)
	b.mu.Unlock()

	if b.observer != nil {
		b.observer.Published(kind, delivered)
	}
	b.logger.Info("event published", "kind", kind, "subscribers", delivered)
}

// Format renders one server-sent event
func Format(kind string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", kind, data), nil
}
