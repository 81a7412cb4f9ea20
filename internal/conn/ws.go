package conn

import (
	"context"
	"errors"
	"net"
	"os"

	"github.com/gorilla/websocket"

	"partyline/internal/protocol"
)

// WSDialer opens gorilla/websocket transports carrying one JSON frame per
// text message.
type WSDialer struct{}

func (WSDialer) Dial(ctx context.Context, url string) (Transport, error) {
	c, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		kind := Unreachable
		switch {
		case errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err):
			kind = Timeout
		case errors.Is(err, websocket.ErrBadHandshake):
			kind = Rejected
		default:
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				kind = Timeout
			}
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, &ConnError{Kind: kind, URL: url, Err: err}
	}
	return &wsTransport{c: c}, nil
}

type wsTransport struct {
	c *websocket.Conn
}

func (t *wsTransport) ReadFrame() (protocol.Frame, error) {
	// No read deadline: steady-state silence is not an error.
	_, data, err := t.c.ReadMessage()
	if err != nil {
		return protocol.Frame{}, err
	}
	return protocol.Decode(data)
}

func (t *wsTransport) WriteFrame(f protocol.Frame) error {
	data, err := protocol.Encode(f)
	if err != nil {
		return err
	}
	return t.c.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) Close() error {
	// Polite close frame first; the peer may already be gone.
	_ = t.c.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return t.c.Close()
}
