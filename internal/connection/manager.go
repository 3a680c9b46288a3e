package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"campanario/internal/logger"
)

// DefaultReconnectDelay is the fixed wait between a close and the next dial.
const DefaultReconnectDelay = 2500 * time.Millisecond

const (
	writeWait        = 10 * time.Second
	handshakeTimeout = 10 * time.Second
	maxMsgSize       = 1 << 16 // alarm lists can be large
	endpointPath     = "/ws"
)

// ErrNotConnected is returned by Send when the socket is not open.
var ErrNotConnected = errors.New("device connection not open")

// State mirrors the WebSocket readyState values.
type State int32

const (
	Connecting State = iota
	Open
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "CONNECTING"
	case Open:
		return "OPEN"
	case Closing:
		return "CLOSING"
	default:
		return "CLOSED"
	}
}

// Dialer opens the device socket. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Options configures a Manager.
type Options struct {
	Endpoint       string
	ReconnectDelay time.Duration
	Dialer         Dialer
	Log            *logger.Logger
}

// Manager owns the single device connection and reconnects it forever.
type Manager struct {
	endpoint string
	delay    time.Duration
	dialer   Dialer
	log      *logger.Logger
	// wait blocks for d or until ctx is done; reports whether the full delay elapsed.
	wait func(ctx context.Context, d time.Duration) bool

	state atomic.Int32

	writeMu sync.Mutex
	conn    *websocket.Conn

	hooksMu   sync.RWMutex
	onOpen    []func()
	onClose   []func(err error)
	onMessage []func(frame string)
}

// Endpoint builds ws(s)://host[:port]/ws. Port 0 leaves the scheme default.
func Endpoint(host string, port int, secure bool) string {
	scheme := "ws"
	if secure {
		scheme = "wss"
	}
	if port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(port))
	}
	u := url.URL{Scheme: scheme, Host: host, Path: endpointPath}
	return u.String()
}

// New creates a manager in the CLOSED state. Call Run to connect.
func New(opts Options) *Manager {
	m := &Manager{
		endpoint: opts.Endpoint,
		delay:    opts.ReconnectDelay,
		dialer:   opts.Dialer,
		log:      opts.Log,
		wait:     sleepCtx,
	}
	if m.delay <= 0 {
		m.delay = DefaultReconnectDelay
	}
	if m.dialer == nil {
		m.dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		}
	}
	if m.log == nil {
		m.log = logger.Nop()
	}
	m.state.Store(int32(Closed))
	return m
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// OnOpen registers a hook run after every successful dial.
func (m *Manager) OnOpen(f func()) {
	m.hooksMu.Lock()
	m.onOpen = append(m.onOpen, f)
	m.hooksMu.Unlock()
}

// OnClose registers a hook run after every close or failed dial.
func (m *Manager) OnClose(f func(err error)) {
	m.hooksMu.Lock()
	m.onClose = append(m.onClose, f)
	m.hooksMu.Unlock()
}

// OnMessage registers a hook for every inbound text frame.
func (m *Manager) OnMessage(f func(frame string)) {
	m.hooksMu.Lock()
	m.onMessage = append(m.onMessage, f)
	m.hooksMu.Unlock()
}

// Endpoint returns the dialed URL.
func (m *Manager) Endpoint() string { return m.endpoint }

// ReconnectDelay returns the fixed reconnect delay.
func (m *Manager) ReconnectDelay() time.Duration { return m.delay }

// State returns the current connection state.
func (m *Manager) State() State { return State(m.state.Load()) }

// Connected reports whether the socket is OPEN.
func (m *Manager) Connected() bool { return m.State() == Open }

// Send writes one text frame. There is no outbound queue.
func (m *Manager) Send(frame string) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if m.conn == nil || m.State() != Open {
		return ErrNotConnected
	}
	_ = m.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := m.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return fmt.Errorf("send %q: %w", frame, err)
	}
	m.log.Debugw("ws_sent", "frame", frame)
	return nil
}

// Run connects and keeps reconnecting until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	for {
		err := m.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.log.Infow("ws_closed", "endpoint", m.endpoint, "err", err, "reconnect_in", m.delay)
		m.fireClose(err)
		if !m.wait(ctx, m.delay) {
			return ctx.Err()
		}
	}
}

// session runs one dial plus read loop and returns the reason it ended.
func (m *Manager) session(ctx context.Context) error {
	m.state.Store(int32(Connecting))
	conn, _, err := m.dialer.DialContext(ctx, m.endpoint, nil)
	if err != nil {
		m.state.Store(int32(Closed))
		return fmt.Errorf("dial %s: %w", m.endpoint, err)
	}
	conn.SetReadLimit(maxMsgSize)

	m.writeMu.Lock()
	m.conn = conn
	m.state.Store(int32(Open))
	m.writeMu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		m.state.Store(int32(Closing))
		_ = conn.Close()
	})
	defer stop()

	m.log.Infow("ws_open", "endpoint", m.endpoint)
	m.fireOpen()

	err = m.readLoop(conn)

	m.writeMu.Lock()
	m.conn = nil
	m.state.Store(int32(Closed))
	m.writeMu.Unlock()
	_ = conn.Close()
	return err
}

func (m *Manager) readLoop(conn *websocket.Conn) error {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				m.log.Warnw("ws_read_error", "err", err)
			}
			return err
		}
		if kind != websocket.TextMessage {
			continue
		}
		m.fireMessage(string(data))
	}
}

func (m *Manager) fireOpen() {
	m.hooksMu.RLock()
	hooks := append([]func(){}, m.onOpen...)
	m.hooksMu.RUnlock()
	for _, f := range hooks {
		f()
	}
}

func (m *Manager) fireClose(err error) {
	m.hooksMu.RLock()
	hooks := append([]func(error){}, m.onClose...)
	m.hooksMu.RUnlock()
	for _, f := range hooks {
		f(err)
	}
}

func (m *Manager) fireMessage(frame string) {
	m.hooksMu.RLock()
	hooks := append([]func(string){}, m.onMessage...)
	m.hooksMu.RUnlock()
	for _, f := range hooks {
		f(frame)
	}
}
