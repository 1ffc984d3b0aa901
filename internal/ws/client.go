package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// client wraps one websocket connection. It implements game.Peer:
// sends are queued on a buffered channel drained by writePump, so the
// core never blocks on a slow or dead connection.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, sendBuffer int) *client {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *client) ID() string { return c.id }

func (c *client) IsOpen() bool { return !c.closed.Load() }

// Send marshals v and queues it for delivery. Sending to a closed
// client is a no-op; a full queue drops the message rather than
// blocking the caller.
func (c *client) Send(v any) {
	if c.closed.Load() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshal outbound message for %s: %v", c.id, err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("client %s too slow, dropping message", c.id)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.closed.Store(true)
				return
			}
		case <-c.done:
			return
		}
	}
}

// close marks the client dead and stops writePump. Idempotent.
func (c *client) close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
	})
}
