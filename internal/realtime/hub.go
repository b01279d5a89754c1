// Package realtime pushes notification events to connected WebSocket clients.
// Delivery is best effort and at most once: a disconnected client simply
// misses the event and catches up from the persisted store on its next poll.
package realtime

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the payload written to joined clients.
type Event struct {
	Kind    string      `json:"kind"` // "notification" or "badge"
	Payload interface{} `json:"payload"`
}

// BadgePayload carries the unseen-notification count after a read-state change.
type BadgePayload struct {
	Count int64 `json:"count"`
}

type client struct {
	conn   *websocket.Conn
	userID uint
	send   chan Event
}

// Hub tracks WebSocket connections per user id and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Publish sends an event to every connection joined under userID.
// Never blocks the caller: slow clients get their event dropped.
func (h *Hub) Publish(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.send <- event:
		default:
			// client is not draining, drop rather than stall the producer
		}
	}
}

// ConnectionCount returns the number of connections joined under userID.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for c := range h.clients {
		if c.userID == userID {
			n++
		}
	}
	return n
}

// Serve upgrades the request and joins the connection under userID. The
// identity is resolved server-side by the caller (from the JWT), never taken
// from a client-submitted id. Serve blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, userID: userID, send: make(chan Event, 16)}
	h.register(c)
	defer h.unregister(c)

	go c.writeLoop()

	// Drain inbound frames; clients have nothing meaningful to say, but
	// reading is what detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("Realtime client joined: user %d", c.userID)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	c.conn.Close()
	log.Printf("Realtime client left: user %d", c.userID)
}

func (c *client) writeLoop() {
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			log.Printf("Realtime write error for user %d: %v", c.userID, err)
			c.conn.Close()
			return
		}
	}
}
