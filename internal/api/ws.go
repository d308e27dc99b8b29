package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and registers it with the hub.
// `user_id` binds the connection to a per-user queue; `topics` is a
// comma-separated broadcast subscription list. A connected user gets
// their recent notifications pushed immediately.
func (h *Handler) ServeWS(c *gin.Context) {
	var userID int64
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		userID = id
	}

	var topics []string
	if v := c.Query("topics"); v != "" {
		topics = strings.Split(v, ",")
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	if !h.hub.Register(conn, userID, topics) {
		conn.Close()
		return
	}
	if userID != 0 {
		h.notify.SendRecent(c.Request.Context(), userID)
	}

	go h.readLoop(conn)
}

// readLoop drains client frames until the connection dies, then
// unregisters it. Inbound payloads are ignored; the socket is
// push-only.
func (h *Handler) readLoop(conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
