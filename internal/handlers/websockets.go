package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"campanario/internal/logger"
	"campanario/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
	clientBuffer     = 64
)

// Envelope used for WebSocket messages. Type is "state" for periodic
// snapshots, otherwise the service event type.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsCommand is what a UI client may send. Only "page" is understood.
type wsCommand struct {
	Type string `json:"type"`
	Page string `json:"page,omitempty"`
}

// Upgrader for HTTP -> WebSocket. The gateway only listens on the local network.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans controller events out to every connected /ws client.
// A client that falls behind loses events; the next snapshot resyncs it.
type Hub struct {
	mu      sync.Mutex
	clients map[chan service.Event]struct{}
	dropped int
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{clients: make(map[chan service.Event]struct{}), log: log}
}

// Publish implements service.Publisher. It never blocks.
func (hb *Hub) Publish(ev service.Event) {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	for ch := range hb.clients {
		select {
		case ch <- ev:
		default:
			hb.dropped++
			if hb.log != nil {
				hb.log.Debugw("ws_event_dropped", "type", ev.Type)
			}
		}
	}
}

func (hb *Hub) subscribe() chan service.Event {
	ch := make(chan service.Event, clientBuffer)
	hb.mu.Lock()
	hb.clients[ch] = struct{}{}
	hb.mu.Unlock()
	return ch
}

func (hb *Hub) unsubscribe(ch chan service.Event) {
	hb.mu.Lock()
	delete(hb.clients, ch)
	hb.mu.Unlock()
}

// Dropped counts events discarded because a client buffer was full.
func (hb *Hub) Dropped() int {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return hb.dropped
}

// Clients reports the number of connected UI clients.
func (hb *Hub) Clients() int {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return len(hb.clients)
}

// @Summary      UI event stream
// @Description  WebSocket upgrade. Sends a "state" snapshot immediately and every interval, plus every controller event as it happens. Clients may send {"type":"page","page":"/Campanas.html"}.
// @Tags         system
// @Param        interval     query  string  false  "Snapshot period, e.g. 2s (max 10s)"
// @Param        interval_ms  query  int     false  "Snapshot period in ms (max 10000)"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var events chan service.Event
	if h.hub != nil {
		events = h.hub.subscribe()
		defer h.hub.unsubscribe(events)
	}

	// Reader goroutine to handle control frames, page reports and disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send initial state immediately.
	if err := h.sendState(c.Request.Context(), conn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case ev := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsEnvelope{Type: ev.Type, Data: ev.Data}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "event", ev.Type, "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendState(c.Request.Context(), conn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages, applies page reports and detects closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		h.handleClientMessage(data)
	}
}

func (h *Handler) handleClientMessage(data []byte) {
	var cmd wsCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		if h.log != nil {
			h.log.Debugw("ws_client_message_ignored", "err", err)
		}
		return
	}
	switch cmd.Type {
	case "page":
		if cmd.Page != "" && h.services.Monitoring != nil {
			h.services.Monitoring.SetPage(cmd.Page)
		}
	default:
		if h.log != nil {
			h.log.Debugw("ws_client_message_ignored", "type", cmd.Type)
		}
	}
}

// Helper: sendState fetches and writes the current state with a write deadline.
func (h *Handler) sendState(ctx context.Context, conn *websocket.Conn) error {
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_state_failed", "err", err)
		}
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "state", Data: st})
}
