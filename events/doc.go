// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events relays "something was created" notifications to connected
listeners.

# Broadcaster

One Broadcaster is constructed in main and passed to the handlers that
publish or listen:

	b := events.NewBroadcaster(logger, observer)

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	for {
		select {
		case <-sub.Ready():
			for _, msg := range sub.Drain() {
				io.WriteString(w, msg)
			}
		case <-ctx.Done():
			return
		}
	}

Publish appends the formatted message to every registered subscription
under one mutex, so a subscription registered after Publish returns never
sees that event. Publish never blocks on listeners and never returns an
error; marshal failures are logged.

# Wire Format

Each message is a server-sent event:

	event: newBoard
	data: {"board_id":"...","board_name":"Grid1","creator_username":"U"}

Missed events are not replayed.
*/
package events
