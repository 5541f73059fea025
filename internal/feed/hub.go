// Package feed relays the redis change feed to websocket consoles. Delivery
// is best effort: a slow or dead client is dropped, never waited on.
package feed

import (
	"context"
	"net/http"
	"sync"

	"aquadesk/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Consoles connect from a separate origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans messages from the redis events channel out to connected clients.
type Hub struct {
	rdb     *redis.Client
	clients map[*websocket.Conn]struct{}
	mu      sync.Mutex
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rdb:     rdb,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Run subscribes to the events channel and broadcasts every payload until ctx
// is cancelled. Intended to run in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	sub := h.rdb.Subscribe(ctx, events.Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg, ok := <-ch:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Debug().Err(err).Msg("feed: dropping client")
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// ServeWS upgrades the request and keeps the connection registered until the
// client disconnects. The feed is one-way; inbound messages are discarded.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("feed: websocket upgrade failed")
		return
	}
	h.register(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(conn)
}
