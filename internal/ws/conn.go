package ws

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/GreeFine/orim-back/internal/room"
)

// Conn wraps one upgraded websocket for a registered client.
type Conn struct {
	ws *websocket.Conn
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop drains the client's outbound queue into the socket and sends
// periodic pings. It exits when the client is closed, the context ends, or a
// write fails; a closed client also closes the socket so the read loop
// unwinds.
func (c *Conn) WriteLoop(ctx context.Context, cl *room.Client) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-cl.Out():
			if err := c.ws.Write(ctx, websocket.MessageText, b); err != nil {
				cl.Close()
				return
			}
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-cl.Done():
			_ = c.ws.Close(websocket.StatusPolicyViolation, "outbound queue overflow")
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close closes the WS connection normally
func (c *Conn) Close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
