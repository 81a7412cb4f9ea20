package chat

import (
	"partyline/internal/identity"
)

// DefaultRoom is where a fresh session lands before any /join.
const DefaultRoom = "general"

// Session is the local view of the chat session. It is created once after
// the identity prompts and mutated only from the UI's update loop, so it
// needs no locking.
type Session struct {
	Nickname    string
	Color       string
	Room        string
	Buffer      *Buffer
	ClientCount int
}

// NewSession builds a session for a validated identity.
func NewSession(id identity.Identity, rows int) *Session {
	return &Session{
		Nickname: id.Nickname,
		Color:    id.Color,
		Room:     DefaultRoom,
		Buffer:   NewBuffer(rows),
	}
}

// SetColor updates the display color. Callers validate first; an invalid
// value is ignored rather than corrupting the session.
func (s *Session) SetColor(hex string) {
	if identity.ValidColor(hex) {
		s.Color = hex
	}
}

// EnterRoom records the new current room. Scrollback is retained across
// room switches; messages carry their room tag instead.
func (s *Session) EnterRoom(room string) {
	if room != "" {
		s.Room = room
	}
}
