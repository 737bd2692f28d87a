// Package live fans out control-plane lifecycle events to connected
// operator clients over WebSocket, best-effort: a slow consumer is dropped
// rather than allowed to block the event producer.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Geekthedev/korra/obslog"
)

var log = obslog.For("live")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// Event is a single lifecycle notification broadcast to every connected
// client.
type Event struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

type connection struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub owns the set of connected clients and the goroutine that fans out
// broadcasts to them.
type Hub struct {
	connections map[string]*connection

	register   chan *connection
	unregister chan *connection
	broadcast  chan []byte

	upgrader websocket.Upgrader

	mu sync.RWMutex
}

// NewHub constructs a Hub. Call Run in its own goroutine to start the fan-out
// loop.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*connection),
		register:    make(chan *connection),
		unregister:  make(chan *connection),
		broadcast:   make(chan []byte, sendBuffer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run is the hub's main loop; it owns all mutation of the connection set and
// must run in exactly one goroutine for the lifetime of the Hub.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.connections[c.id] = c
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[c.id]; ok {
				delete(h.connections, c.id)
				close(c.send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.connections {
				select {
				case c.send <- data:
				default:
					log.Warn().Str("connection", c.id).Msg("live feed buffer full, dropping connection")
					go h.dropConnection(c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) dropConnection(c *connection) {
	h.unregister <- c
}

// Broadcast publishes a lifecycle event to every connected client.
func (h *Hub) Broadcast(kind string, payload interface{}) {
	data, err := json.Marshal(Event{Kind: kind, Payload: payload, At: time.Now()})
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to marshal live event")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn().Str("kind", kind).Msg("broadcast channel full, dropping event")
	}
}

// ConnectionCount reports the number of currently connected clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// HandleUpgrade upgrades an HTTP request to a WebSocket connection and
// registers it with the hub. Clients are read-only observers; any inbound
// message is discarded, kept alive only to detect disconnects.
func (h *Hub) HandleUpgrade(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	conn := &connection{id: uuid.New().String(), conn: ws, send: make(chan []byte, sendBuffer)}
	h.register <- conn

	go h.writePump(conn)
	go h.readPump(conn)
	return nil
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
