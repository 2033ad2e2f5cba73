package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StreamClient is one WebSocket subscriber to a chat session's events
type StreamClient struct {
	ID        string
	SessionID uuid.UUID
	Conn      *websocket.Conn
	Send      chan *ChatEvent
	Hub       *StreamHub
	mu        sync.Mutex
}

// StreamHub fans chat events out to WebSocket subscribers, keyed by the
// chat session they are watching.
type StreamHub struct {
	// Registered clients by session ID
	clients map[uuid.UUID]map[string]*StreamClient

	register   chan *StreamClient
	unregister chan *StreamClient
	broadcast  chan *ChatEvent

	mu sync.RWMutex

	logger *zap.Logger
}

// NewStreamHub creates a new stream hub
func NewStreamHub(logger *zap.Logger) *StreamHub {
	return &StreamHub{
		clients:    make(map[uuid.UUID]map[string]*StreamClient),
		register:   make(chan *StreamClient),
		unregister: make(chan *StreamClient),
		broadcast:  make(chan *ChatEvent, 256),
		logger:     logger,
	}
}

// Run starts the hub loop
func (h *StreamHub) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-ticker.C:
			h.cleanupStaleConnections()

		case <-ctx.Done():
			h.logger.Info("stream hub shutting down")
			h.closeAllConnections()
			return
		}
	}
}

// Register queues a client for registration with the hub
func (h *StreamHub) Register(client *StreamClient) {
	h.register <- client
}

// Broadcast queues an event for delivery to the session's subscribers
func (h *StreamHub) Broadcast(event *ChatEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			zap.String("event_type", event.Type),
		)
	}
}

func (h *StreamHub) registerClient(client *StreamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.SessionID]; !exists {
		h.clients[client.SessionID] = make(map[string]*StreamClient)
	}

	h.clients[client.SessionID][client.ID] = client

	h.logger.Info("client connected",
		zap.String("client_id", client.ID),
		zap.String("session_id", client.SessionID.String()),
	)
}

func (h *StreamHub) unregisterClient(client *StreamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessionClients, exists := h.clients[client.SessionID]; exists {
		if _, exists := sessionClients[client.ID]; exists {
			delete(sessionClients, client.ID)
			close(client.Send)

			if len(sessionClients) == 0 {
				delete(h.clients, client.SessionID)
			}

			h.logger.Info("client disconnected",
				zap.String("client_id", client.ID),
				zap.String("session_id", client.SessionID.String()),
			)
		}
	}
}

func (h *StreamHub) broadcastEvent(event *ChatEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessionClients, exists := h.clients[event.SessionID]
	if !exists {
		return
	}

	for _, client := range sessionClients {
		select {
		case client.Send <- event:
		default:
			// Client's send channel is full, skip this event
			h.logger.Warn("client send channel full, dropping event",
				zap.String("client_id", client.ID),
				zap.String("event_type", event.Type),
			)
		}
	}
}

func (h *StreamHub) cleanupStaleConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID, sessionClients := range h.clients {
		for clientID, client := range sessionClients {
			client.mu.Lock()
			err := client.Conn.WriteControl(
				websocket.PingMessage,
				[]byte{},
				time.Now().Add(10*time.Second),
			)
			client.mu.Unlock()

			if err != nil {
				h.logger.Warn("client ping failed, removing",
					zap.String("client_id", clientID),
					zap.Error(err),
				)
				delete(sessionClients, clientID)
				close(client.Send)
			}
		}

		if len(sessionClients) == 0 {
			delete(h.clients, sessionID)
		}
	}
}

func (h *StreamHub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID, sessionClients := range h.clients {
		for clientID, client := range sessionClients {
			close(client.Send)
			client.Conn.Close()
			h.logger.Info("closed client connection",
				zap.String("client_id", clientID),
				zap.String("session_id", sessionID.String()),
			)
		}
	}

	h.clients = make(map[uuid.UUID]map[string]*StreamClient)
}

// WritePump pumps events from the hub to the websocket connection
func (c *StreamClient) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.mu.Lock()
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))

			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				c.mu.Unlock()
				return
			}

			err := c.Conn.WriteJSON(event)
			c.mu.Unlock()

			if err != nil {
				c.Hub.logger.Error("write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.mu.Lock()
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			err := c.Conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

// ReadPump reads control messages from the connection until it closes
func (c *StreamClient) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg map[string]interface{}
		err := c.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Error("unexpected close error", zap.Error(err))
			}
			break
		}

		if msgType, ok := msg["type"].(string); ok && msgType == "ping" {
			c.handlePing()
		}
	}
}

func (c *StreamClient) handlePing() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	c.Conn.WriteJSON(map[string]interface{}{
		"type":      "pong",
		"timestamp": time.Now().UTC(),
	})
}
