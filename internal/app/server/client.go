package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Identity is the verified identity attached to a connection. It is an
// immutable snapshot: rating changes during a game do not alter the
// snapshot a running game was created with.
type Identity struct {
	UserId   string
	Username string
	Rating   int
}

// wsConn is the subset of *websocket.Conn the core touches.
type wsConn interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Client is one live connection handle.
type Client struct {
	identity Identity
	conn     wsConn

	mu sync.Mutex
}

func newClient(conn wsConn, identity Identity) *Client {
	return &Client{
		identity: identity,
		conn:     conn,
	}
}

func (c *Client) send(eventType string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.WriteJSON(event{
		Type: eventType,
		Data: data,
	})
}

// forceClose signals a close to the peer and drops the connection.
// Fire-and-forget: the caller never waits on the peer.
func (c *Client) forceClose(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	deadline := time.Now().Add(time.Second)
	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		deadline,
	)
	c.conn.Close()
}
