package websocket

import (
	"sync"
	"time"

	"hardware-distribution-backend/config"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageType string

const (
	MessageTypeImportCompleted     MessageType = "IMPORT_COMPLETED"
	MessageTypeAchievementUnlocked MessageType = "ACHIEVEMENT_UNLOCKED"
	MessageTypePing                MessageType = "PING"
	MessageTypePong                MessageType = "PONG"
	MessageTypeError               MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan WebSocketMessage
}

// Hub tracks connected clients and fans events out to every connection a
// user has open.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.removeClient(client)

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register hands client to Run. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister hands client back to Run. After Stop every client has already
// been dropped, so it returns at once.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// deliver queues msg without blocking. Send is only closed under the write
// lock, so holding the read lock while the client is registered keeps the
// channel open for the send.
func (h *Hub) deliver(client *Client, msg WebSocketMessage) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return false
	}
	select {
	case client.Send <- msg:
		return true
	default:
		return false
	}
}

// Publish delivers an event to every connection of userID. A client whose
// buffer is full is dropped.
func (h *Hub) Publish(userID uuid.UUID, eventType string, payload interface{}) {
	message := WebSocketMessage{
		Type:      MessageType(eventType),
		Payload:   payload,
		Timestamp: time.Now(),
	}

	var slow []*Client
	h.mu.RLock()
	for client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		config.Logger.Warn("Dropping slow WebSocket client",
			zap.String("clientID", client.ID.String()),
			zap.String("userID", userID.String()))
		h.removeClient(client)
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
