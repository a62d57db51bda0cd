package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playlexico/backend/internal/store"
)

// Client is one live WebSocket connection for a user.
type Client struct {
	conn     *websocket.Conn
	userID   int
	socketID string
	send     chan []byte
}

// Hub is the process-wide socket registry: at most one live connection per
// user, replaced on reconnect, removed on disconnect. Socket-session rows
// in the store mirror the live map.
type Hub struct {
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	store      store.Store
	mu         sync.RWMutex
}

func NewHub(st store.Store) *Hub {
	return &Hub{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		store:      st,
	}
}

// Run processes register/unregister events. Start it once, in a goroutine.
func (h *Hub) Run() {
	ctx := context.Background()
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, exists := h.clients[client.userID]; exists {
				log.Printf("[WS] User %d reconnecting - closing old connection", client.userID)
				old.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
					time.Now().Add(5*time.Second))
				old.conn.Close()
				close(old.send)
			}
			h.clients[client.userID] = client
			h.mu.Unlock()

			if err := h.store.UpsertSocketSession(ctx, client.userID, client.socketID); err != nil {
				log.Printf("[WS] Failed to persist socket session for user %d: %v", client.userID, err)
			}
			log.Printf("[WS] User %d connected (socket=%s)", client.userID, client.socketID)

		case client := <-h.unregister:
			h.mu.Lock()
			cur, ok := h.clients[client.userID]
			if ok && cur == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()

			if ok && cur == client {
				if err := h.store.DeleteSocketSession(ctx, client.userID, client.socketID); err != nil {
					log.Printf("[WS] Failed to remove socket session for user %d: %v", client.userID, err)
				}
				log.Printf("[WS] User %d disconnected (socket=%s)", client.userID, client.socketID)
			}
		}
	}
}

// SendToUser pushes an event envelope to the user's live connection.
// Users without a connection are dropped silently; a full send buffer drops
// the message rather than blocking the caller.
func (h *Hub) SendToUser(userID int, event string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		log.Printf("[WS] Error marshaling %s event: %v", event, err)
		return
	}

	// The read lock must cover the send: Run closes a replaced client's
	// channel under the write lock, so releasing early would allow a send
	// on a closed channel.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[userID]
	if !exists {
		return
	}

	select {
	case client.send <- payload:
	default:
		log.Printf("[WS] Send buffer full for user %d, dropping %s", userID, event)
	}
}

// writePump writes queued messages to the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed: connection replaced or cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for user %d: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for user %d: %v", c.userID, err)
				return
			}
		}
	}
}

// readPump drains inbound frames until the connection drops. Clients send
// nothing the engine consumes; state changes arrive over HTTP.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error for user %d: %v", c.userID, err)
			}
			return
		}
	}
}
