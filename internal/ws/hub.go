package ws

import (
	"sync"

	"github.com/gorilla/websocket"

	"airwatch/internal/logging"
	"airwatch/internal/metrics"
)

const maxConnsPerUser = 10

// Envelope is the frame pushed to clients. Exactly one of Topic or
// Queue is set: Topic for broadcasts, Queue for per-user delivery.
type Envelope struct {
	Topic string `json:"topic,omitempty"`
	Queue string `json:"queue,omitempty"`
	Data  any    `json:"data"`
}

type client struct {
	userID int64
	topics map[string]bool
}

// Hub tracks live WebSocket connections, addressed either by a stable
// user identity or by subscribed topic. Delivery is best-effort: a
// recipient with no live connection simply misses the push.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	users   map[int64]map[*websocket.Conn]bool
	logger  *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		users:   make(map[int64]map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// Register adds a connection for a user with its topic subscriptions.
// userID 0 registers an anonymous, topic-only subscriber. Returns false
// when the user already holds the per-user connection limit; the caller
// owns closing a rejected connection.
func (h *Hub) Register(conn *websocket.Conn, userID int64, topics []string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userID != 0 {
		if _, ok := h.users[userID]; !ok {
			h.users[userID] = make(map[*websocket.Conn]bool)
		}
		if len(h.users[userID]) >= maxConnsPerUser {
			h.logger.Warnf("Max connections reached for user %d", userID)
			return false
		}
		h.users[userID][conn] = true
	}

	c := &client{userID: userID, topics: make(map[string]bool, len(topics))}
	for _, t := range topics {
		if t != "" {
			c.topics[t] = true
		}
	}
	h.clients[conn] = c
	metrics.WSConnections.Set(float64(len(h.clients)))
	h.logger.Infof("Registered WebSocket connection (user=%d, topics=%d, total=%d)", userID, len(c.topics), len(h.clients))
	return true
}

// Unregister drops a connection from all indexes.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(conn)
}

// drop must be called with the mutex held.
func (h *Hub) drop(conn *websocket.Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	if c.userID != 0 {
		if conns, ok := h.users[c.userID]; ok {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(h.users, c.userID)
			}
		}
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// Broadcast publishes to every connection subscribed to topic.
func (h *Hub) Broadcast(topic string, data any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	env := Envelope{Topic: topic, Data: data}
	for conn, c := range h.clients {
		if !c.topics[topic] {
			continue
		}
		if err := conn.WriteJSON(env); err != nil {
			h.logger.Errorf("Failed to broadcast on %s: %v", topic, err)
			h.drop(conn)
		}
	}
	return nil
}

// SendToUser delivers to every live connection of one user identity.
func (h *Hub) SendToUser(userID int64, queue string, data any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.users[userID]
	if !ok {
		return nil // not connected; the persisted row is the durable record
	}
	env := Envelope{Queue: queue, Data: data}
	for conn := range conns {
		if err := conn.WriteJSON(env); err != nil {
			h.logger.Errorf("Failed to send %s to user %d: %v", queue, userID, err)
			h.drop(conn)
		}
	}
	return nil
}
