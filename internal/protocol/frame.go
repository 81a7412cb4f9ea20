// Package protocol defines the JSON frames exchanged with the chat server.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the frame variants the server and client exchange.
type Kind string

const (
	KindJoin        Kind = "join"
	KindLeave       Kind = "leave"
	KindChat        Kind = "chat"
	KindClientCount Kind = "client_count"
	KindError       Kind = "error"
)

// Frame is one discrete protocol message. Fields are populated per kind;
// unused fields marshal away via omitempty.
type Frame struct {
	Kind     Kind   `json:"kind"`
	Nickname string `json:"nickname,omitempty"`
	Color    string `json:"color,omitempty"`
	Room     string `json:"room,omitempty"`
	Password string `json:"password,omitempty"`
	Text     string `json:"text,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// ProtocolError reports a malformed inbound frame. It is never fatal: the
// frame is dropped and the receive loop continues.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol: %s: %v", e.Reason, e.Err)
	}
	return "protocol: " + e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Join builds an outbound join frame. Password may be empty.
func Join(room, password string) Frame {
	return Frame{Kind: KindJoin, Room: room, Password: password}
}

// Chat builds an outbound chat frame.
func Chat(text string) Frame {
	return Frame{Kind: KindChat, Text: text}
}

// Leave builds the implicit leave frame sent before closing a connection.
func Leave() Frame {
	return Frame{Kind: KindLeave}
}

// Encode marshals a frame for the wire.
func Encode(f Frame) ([]byte, error) {
	return json.Marshal(f)
}

// Decode parses an inbound frame, rejecting unknown kinds.
func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, &ProtocolError{Reason: "malformed frame", Err: err}
	}
	switch f.Kind {
	case KindJoin, KindLeave, KindChat, KindClientCount, KindError:
		return f, nil
	default:
		return Frame{}, &ProtocolError{Reason: fmt.Sprintf("unknown frame kind %q", f.Kind)}
	}
}
