package router

import (
	"sync"

	"campanario/internal/logger"
	"campanario/internal/protocol"
)

// Handler consumes a decoded frame.
type Handler func(msg protocol.Message)

// Matcher decides whether a route wants a frame.
type Matcher func(msg protocol.Message) bool

// Observer is told about every dispatched frame and how many routes took it.
type Observer func(msg protocol.Message, matched int)

type route struct {
	name   string
	match  Matcher
	handle Handler
}

// Router fans every inbound frame out to all matching routes, in registration order.
type Router struct {
	mu       sync.RWMutex
	routes   []route
	observer Observer
	log      *logger.Logger
}

// New creates an empty router.
func New(log *logger.Logger) *Router {
	if log == nil {
		log = logger.Nop()
	}
	return &Router{log: log}
}

// Kinds matches frames of any of the given kinds.
func Kinds(kinds ...protocol.Kind) Matcher {
	set := make(map[protocol.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return func(msg protocol.Message) bool {
		_, ok := set[msg.Kind]
		return ok
	}
}

// Any matches every recognized frame.
func Any() Matcher {
	return func(msg protocol.Message) bool { return msg.Kind != protocol.KindUnknown }
}

// On registers a route.
func (r *Router) On(name string, match Matcher, h Handler) {
	r.mu.Lock()
	r.routes = append(r.routes, route{name: name, match: match, handle: h})
	r.mu.Unlock()
}

// SetObserver installs a hook called after each dispatch.
func (r *Router) SetObserver(o Observer) {
	r.mu.Lock()
	r.observer = o
	r.mu.Unlock()
}

// HandleFrame decodes a raw text frame and dispatches it.
func (r *Router) HandleFrame(raw string) {
	r.Dispatch(protocol.Decode(raw))
}

// Dispatch runs every matching route and returns how many matched.
// A panicking handler is logged and does not stop the remaining routes.
func (r *Router) Dispatch(msg protocol.Message) int {
	r.mu.RLock()
	routes := make([]route, len(r.routes))
	copy(routes, r.routes)
	observer := r.observer
	r.mu.RUnlock()

	if msg.Err != nil {
		r.log.Warnw("router_payload_invalid", "kind", msg.Kind.String(), "frame", msg.Raw, "err", msg.Err)
	}

	matched := 0
	for _, rt := range routes {
		if !rt.match(msg) {
			continue
		}
		matched++
		r.run(rt, msg)
	}
	if matched == 0 {
		r.log.Debugw("router_unmatched", "frame", msg.Raw)
	}
	if observer != nil {
		observer(msg, matched)
	}
	return matched
}

func (r *Router) run(rt route, msg protocol.Message) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Errorw("router_handler_panic", "route", rt.name, "kind", msg.Kind.String(), "panic", p)
		}
	}()
	rt.handle(msg)
}
