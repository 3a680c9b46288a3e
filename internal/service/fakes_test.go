package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campanario/internal/protocol"
)

// fakeSender records outbound frames.
type fakeSender struct {
	mu        sync.Mutex
	connected bool
	sendErr   error
	frames    []string
}

func newFakeSender() *fakeSender { return &fakeSender{connected: true} }

func (s *fakeSender) Send(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return ErrNotConnected
	}
	if s.sendErr != nil {
		return s.sendErr
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeSender) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *fakeSender) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}

func (s *fakeSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.frames))
	copy(out, s.frames)
	return out
}

func (s *fakeSender) count(frame string) int {
	n := 0
	for _, f := range s.sent() {
		if f == frame {
			n++
		}
	}
	return n
}

func (s *fakeSender) reset() {
	s.mu.Lock()
	s.frames = nil
	s.mu.Unlock()
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func (r *recorder) last(typ string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == typ {
			return r.events[i], true
		}
	}
	return Event{}, false
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// fakeClock never fires on its own; tests advance timers explicitly.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	t := &fakeTicker{c: make(chan time.Time)}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()
	return t
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	c.mu.Lock()
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	return t
}

// fire runs every pending timer scheduled with delay d, outside the clock lock.
func (c *fakeClock) fire(d time.Duration) int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if t.d == d && t.pending() {
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.run()
	}
	return len(due)
}

func (c *fakeClock) pendingTimers(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.d == d && t.pending() {
			n++
		}
	}
	return n
}

func (c *fakeClock) activeTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

type fakeTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	mu      sync.Mutex
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (t *fakeTimer) pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped && !t.fired
}

func (t *fakeTimer) run() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()
	t.f()
}

// memPrefs is an in-memory PreferenceStore.
type memPrefs struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
	getErr error
}

func (m *memPrefs) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memPrefs) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	m.sets++
	return nil
}

type harness struct {
	sender *fakeSender
	clock  *fakeClock
	pub    *recorder
	prefs  *memPrefs
	core   *Core
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sender: newFakeSender(),
		clock:  newFakeClock(),
		pub:    &recorder{},
		prefs:  &memPrefs{},
	}
	h.core = NewCore(Deps{
		Sender:      h.sender,
		Publisher:   h.pub,
		Preferences: h.prefs,
		Encoder:     protocol.NewEncoder(false),
		Clock:       h.clock,
	})
	t.Cleanup(func() {
		h.core.Heating.mu.Lock()
		h.core.Heating.stopCountdownLocked()
		h.core.Heating.mu.Unlock()
		h.core.OTA.mu.Lock()
		h.core.OTA.stopSimulationLocked()
		h.core.OTA.mu.Unlock()
	})
	return h
}

// deliver decodes frames and hands them to the owning controllers, as the router would.
func (h *harness) deliver(frames ...string) {
	for _, f := range frames {
		msg := protocol.Decode(f)
		h.core.Sync.HandleMessage(msg)
		h.core.Bells.HandleMessage(msg)
		h.core.Heating.HandleMessage(msg)
		h.core.Alarms.HandleMessage(msg)
		h.core.Config.HandleMessage(msg)
		h.core.OTA.HandleMessage(msg)
		h.core.Language.HandleMessage(msg)
	}
}

func wantErr(t *testing.T, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
