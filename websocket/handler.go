package websocket

import (
	"time"

	"hardware-distribution-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WsHandler manages WebSocket requests and connections
type WsHandler struct {
	hub *Hub
}

func NewWsHandler(hub *Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// HandleWebSocket upgrades /ws?user_id=<uuid> and registers the connection
// for that user's import and achievement events.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		config.Logger.Warn("WebSocket connection attempted without a valid user_id", zap.String("user_id", c.Query("user_id")))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "user_id query parameter must be a valid UUID",
		})
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:     uuid.New(),
			UserID: userID,
			Conn:   conn,
			Hub:    h.hub,
			Send:   make(chan WebSocketMessage, 64),
		}

		if !h.hub.Register(client) {
			config.Logger.Debug("WebSocket hub stopped, closing new connection", zap.String("userID", userID.String()))
			conn.Close()
			return
		}

		config.Logger.Info("WebSocket client registered",
			zap.String("clientID", client.ID.String()),
			zap.String("userID", userID.String()),
		)

		go client.writePump()
		client.readPump()
	})(c)
}

// readPump keeps the connection alive and answers PING messages.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg WebSocketMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket unexpected close",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
			}
			return
		}

		switch msg.Type {
		case MessageTypePing:
			c.trySend(WebSocketMessage{Type: MessageTypePong, Timestamp: time.Now()})
		default:
			c.trySend(WebSocketMessage{
				Type:      MessageTypeError,
				Payload:   map[string]interface{}{"message": "Unknown message type: " + string(msg.Type)},
				Timestamp: time.Now(),
			})
		}
	}
}

// writePump sends queued messages and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Debug("WebSocket write error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend replies to the client unless it has already been dropped.
func (c *Client) trySend(msg WebSocketMessage) bool {
	return c.Hub.deliver(c, msg)
}
