// Package chat holds the client-side session state: the scrollback buffer,
// the identity/room bookkeeping, and the typed-input command parser.
package chat

import "time"

// Message is one scrollback entry. Immutable once created; order in the
// buffer equals arrival order of the events that produced it.
type Message struct {
	Sender string
	Color  string // 6 hex digits
	Room   string
	Text   string
	Time   time.Time
}
