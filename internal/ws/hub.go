package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrHubStopped = errors.New("websocket hub stopped")

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one websocket connection of an authenticated user.
type Client struct {
	UserID uuid.UUID
	Conn   Conn
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// Hub routes messages to the connections of a single user. Register,
// Unregister and Publish are safe to call from any goroutine once Run has
// been started.
type Hub struct {
	clients    map[uuid.UUID]map[Conn]bool
	register   chan *Client
	unregister chan *Client
	send       chan message
	done       chan struct{}
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[Conn]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		send:       make(chan message, 64),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Register adds c to the hub. After Run has returned the connection is
// closed instead.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Conn.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues payload for every connection of userID.
func (h *Hub) Publish(ctx context.Context, userID uuid.UUID, payload []byte) error {
	select {
	case h.send <- message{userID: userID, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

// ClientCount returns the number of live connections of userID.
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[userID])
}

// Run serves the hub until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for _, conns := range h.clients {
				for conn := range conns {
					_ = conn.Close()
				}
			}
			h.clients = make(map[uuid.UUID]map[Conn]bool)
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			if h.clients[c.UserID] == nil {
				h.clients[c.UserID] = make(map[Conn]bool)
			}
			h.clients[c.UserID][c.Conn] = true
			h.mutex.Unlock()
			h.log.Debug("client connected", zap.String("user_id", c.UserID.String()))

		case c := <-h.unregister:
			h.mutex.Lock()
			h.remove(c.UserID, c.Conn)
			h.mutex.Unlock()

		case msg := <-h.send:
			h.mutex.Lock()
			for conn := range h.clients[msg.userID] {
				if err := conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					h.log.Debug("dropping client after write error", zap.Error(err))
					h.remove(msg.userID, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(userID uuid.UUID, conn Conn) {
	conns, ok := h.clients[userID]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	_ = conn.Close()
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
}
