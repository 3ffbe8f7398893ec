package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"lodgecred/internal/domain/profile"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

const EventCounts = "counts"

// LiveEvent is pushed to every connected admin.
type LiveEvent struct {
	Type   string         `json:"type"`
	Counts profile.Counts `json:"counts"`
}

type countsReader interface {
	Counts(ctx context.Context) (profile.Counts, error)
}

type connection struct {
	conn *websocket.Conn
	send chan []byte
}

// LiveHub keeps the admin dashboard counts current over WebSocket.
type LiveHub struct {
	mu       sync.RWMutex
	conns    map[*connection]struct{}
	counts   countsReader
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewLiveHub(counts countsReader, allowedOrigins []string, log *zap.Logger) *LiveHub {
	if log == nil {
		log = zap.NewNop()
	}
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.TrimRight(o, "/")] = true
	}
	return &LiveHub{
		conns:  make(map[*connection]struct{}),
		counts: counts,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
	}
}

// Refresh reads the current counts and pushes them to every connection.
func (h *LiveHub) Refresh(ctx context.Context) {
	if h == nil {
		return
	}
	data, err := h.snapshot(ctx)
	if err != nil {
		h.log.Warn("live_counts_failed", zap.Error(err))
		return
	}
	h.broadcast(data)
}

func (h *LiveHub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *LiveHub) snapshot(ctx context.Context) ([]byte, error) {
	c, err := h.counts.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(LiveEvent{Type: EventCounts, Counts: c})
}

func (h *LiveHub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		select {
		case c.send <- data:
		default:
			// client too slow, skip
		}
	}
}

// Serve upgrades the request, sends the current counts and keeps the
// connection until the client goes away.
func (h *LiveHub) Serve(w http.ResponseWriter, r *http.Request) error {
	initial, err := h.snapshot(r.Context())
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{conn: conn, send: make(chan []byte, 16)}
	c.send <- initial
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *LiveHub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *LiveHub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
}

// readPump only drains control frames; admins never send data.
func (h *LiveHub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *LiveHub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
