package chat

import (
	"fmt"
	"net/url"
	"strings"

	"partyline/internal/identity"
)

// Command is the closed set of actions a line of input can produce.
// Adding a command means adding a variant here and a case in the UI's
// dispatch, never a runtime lookup table.
type Command interface{ isCommand() }

type (
	// QuitCmd ends the session.
	QuitCmd struct{}
	// ClearCmd empties the scrollback and resets the viewport.
	ClearCmd struct{}
	// JoinCmd switches rooms, optionally with a password.
	JoinCmd struct {
		Room     string
		Password string
	}
	// ColorCmd changes the local display color.
	ColorCmd struct{ Hex string }
	// ServerCmd switches servers.
	ServerCmd struct{ URL string }
	// ChatCmd is plain text forwarded to the current room.
	ChatCmd struct{ Text string }
)

func (QuitCmd) isCommand()   {}
func (ClearCmd) isCommand()  {}
func (JoinCmd) isCommand()   {}
func (ColorCmd) isCommand()  {}
func (ServerCmd) isCommand() {}
func (ChatCmd) isCommand()   {}

// ParseReason classifies why a line could not be turned into an action.
type ParseReason int

const (
	ReasonUnknown ParseReason = iota
	ReasonMissingArgument
	ReasonInvalidFormat
	ReasonNotConnected
)

// ParseError is a local, non-fatal input error. It is shown inline and
// never produces a network frame.
type ParseError struct {
	Reason ParseReason
	Detail string
}

func (e *ParseError) Error() string { return e.Detail }

func parseErrf(r ParseReason, format string, args ...any) *ParseError {
	return &ParseError{Reason: r, Detail: fmt.Sprintf(format, args...)}
}

// Parse turns one line of input into a Command. Lines without the "/"
// prefix are chat text; command validation happens here, before any
// network action.
func Parse(line string) (Command, error) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "/") {
		return ChatCmd{Text: s}, nil
	}
	fields := strings.Fields(s)
	name := strings.ToLower(fields[0])
	args := fields[1:]
	switch name {
	case "/quit", "/exit":
		return QuitCmd{}, nil
	case "/clear":
		return ClearCmd{}, nil
	case "/join":
		if len(args) < 1 {
			return nil, parseErrf(ReasonMissingArgument, "usage: /join <room> [password]")
		}
		j := JoinCmd{Room: args[0]}
		if len(args) > 1 {
			j.Password = args[1]
		}
		return j, nil
	case "/color":
		if len(args) < 1 {
			return nil, parseErrf(ReasonMissingArgument, "usage: /color <rrggbb>")
		}
		if !identity.ValidColor(args[0]) {
			return nil, parseErrf(ReasonInvalidFormat, "%q is not a 6-hex-digit color", args[0])
		}
		return ColorCmd{Hex: args[0]}, nil
	case "/server":
		if len(args) < 1 {
			return nil, parseErrf(ReasonMissingArgument, "usage: /server <url>")
		}
		u, err := url.Parse(args[0])
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return nil, parseErrf(ReasonInvalidFormat, "%q is not a ws:// or wss:// url", args[0])
		}
		return ServerCmd{URL: args[0]}, nil
	default:
		return nil, parseErrf(ReasonUnknown, "unknown command %s", name)
	}
}

// NotConnectedErr is produced at dispatch time when a command needs a live
// connection and none exists.
func NotConnectedErr() *ParseError {
	return &ParseError{Reason: ReasonNotConnected, Detail: "not connected, use /server <url>"}
}
