// Package discovery resolves the bell tower's .local host name over
// multicast DNS, so the gateway keeps working when the device's DHCP lease changes.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"campanario/internal/logger"

	"golang.org/x/net/dns/dnsmessage"
)

const (
	// DefaultTimeout bounds one lookup, retries included.
	DefaultTimeout = 5 * time.Second

	mdnsAddress   = "224.0.0.251:5353"
	queryInterval = time.Second
	readTimeout   = 100 * time.Millisecond
	maxBufSize    = 1500
	maxCacheTTL   = 2 * time.Minute
)

// ErrNotFound is returned when no responder answered before the timeout.
var ErrNotFound = errors.New("mdns: host not found")

type cacheEntry struct {
	ip      net.IP
	expires time.Time
}

// Resolver answers A queries for .local names. Its DialContext plugs into
// websocket.Dialer.NetDialContext; other names go through the system resolver.
type Resolver struct {
	timeout time.Duration
	log     *logger.Logger
	dialer  net.Dialer
	now     func() time.Time
	listen  func() (net.PacketConn, net.Addr, error)

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewResolver(timeout time.Duration, log *logger.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		timeout: timeout,
		log:     log,
		now:     time.Now,
		listen:  listenMulticast,
		cache:   make(map[string]cacheEntry),
	}
}

// IsLocal reports whether host is a multicast DNS name.
func IsLocal(host string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSuffix(host, ".")), ".local")
}

func fqdn(host string) string {
	if strings.HasSuffix(host, ".") {
		return host
	}
	return host + "."
}

// Lookup returns the IPv4 address of a .local host, from cache when fresh.
func (r *Resolver) Lookup(ctx context.Context, host string) (net.IP, error) {
	key := strings.ToLower(fqdn(host))

	r.mu.Lock()
	if e, ok := r.cache[key]; ok && r.now().Before(e.expires) {
		r.mu.Unlock()
		return e.ip, nil
	}
	r.mu.Unlock()

	ip, ttl, err := r.query(ctx, key)
	if err != nil {
		return nil, err
	}
	if ttl > maxCacheTTL {
		ttl = maxCacheTTL
	}
	if ttl > 0 {
		r.mu.Lock()
		r.cache[key] = cacheEntry{ip: ip, expires: r.now().Add(ttl)}
		r.mu.Unlock()
	}
	r.log.Infow("mdns_resolved", "host", host, "ip", ip.String(), "ttl", ttl)
	return ip, nil
}

// Forget drops a cached address, e.g. after a failed dial.
func (r *Resolver) Forget(host string) {
	r.mu.Lock()
	delete(r.cache, strings.ToLower(fqdn(host)))
	r.mu.Unlock()
}

// DialContext dials addr, resolving a .local host over mDNS first.
func (r *Resolver) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	if !IsLocal(host) {
		return r.dialer.DialContext(ctx, network, addr)
	}
	ip, err := r.Lookup(ctx, host)
	if err != nil {
		return nil, err
	}
	conn, err := r.dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
	if err != nil {
		r.Forget(host)
		return nil, err
	}
	return conn, nil
}

func (r *Resolver) query(ctx context.Context, host string) (net.IP, time.Duration, error) {
	name, err := dnsmessage.NewName(host)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid mdns name %q: %w", host, err)
	}
	packet, err := buildQuery(name)
	if err != nil {
		return nil, 0, err
	}

	conn, group, err := r.listen()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create multicast UDP listener: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	buf := make([]byte, maxBufSize)
	var lastQuery time.Time
	for ctx.Err() == nil {
		if time.Since(lastQuery) >= queryInterval {
			if _, err := conn.WriteTo(packet, group); err != nil {
				return nil, 0, fmt.Errorf("failed to send mDNS query: %w", err)
			}
			lastQuery = time.Now()
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			continue
		}
		if ip, ttl, ok := parseAnswer(buf[:n], name); ok {
			return ip, ttl, nil
		}
	}
	return nil, 0, fmt.Errorf("%s: %w", host, ErrNotFound)
}

func buildQuery(name dnsmessage.Name) ([]byte, error) {
	msg := dnsmessage.Message{
		Questions: []dnsmessage.Question{{
			Name:  name,
			Type:  dnsmessage.TypeA,
			Class: dnsmessage.ClassINET,
		}},
	}
	packed, err := msg.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to pack DNS message: %w", err)
	}
	return packed, nil
}

// parseAnswer finds an A record for name in a response's answer or additional section.
func parseAnswer(data []byte, name dnsmessage.Name) (net.IP, time.Duration, bool) {
	var msg dnsmessage.Message
	if err := msg.Unpack(data); err != nil || !msg.Header.Response {
		return nil, 0, false
	}
	for _, section := range [][]dnsmessage.Resource{msg.Answers, msg.Additionals} {
		for i := range section {
			rr := &section[i]
			if rr.Header.Type != dnsmessage.TypeA || !strings.EqualFold(rr.Header.Name.String(), name.String()) {
				continue
			}
			a, ok := rr.Body.(*dnsmessage.AResource)
			if !ok {
				continue
			}
			return net.IP(a.A[:]), time.Duration(rr.Header.TTL) * time.Second, true
		}
	}
	return nil, 0, false
}

func listenMulticast() (net.PacketConn, net.Addr, error) {
	group, err := net.ResolveUDPAddr("udp4", mdnsAddress)
	if err != nil {
		return nil, nil, err
	}
	// nil interface lets the kernel pick
	iface, _ := bestMulticastInterface()
	conn, err := net.ListenMulticastUDP("udp4", iface, group)
	if err != nil {
		return nil, nil, err
	}
	return conn, group, nil
}

// bestMulticastInterface prefers an up, multicast, non-loopback interface
// with an IPv4 address, then any up multicast interface.
func bestMulticastInterface() (*net.Interface, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range interfaces {
		if usable(&interfaces[i]) && interfaces[i].Flags&net.FlagLoopback == 0 && hasIPv4(&interfaces[i]) {
			return &interfaces[i], nil
		}
	}
	for i := range interfaces {
		if usable(&interfaces[i]) {
			return &interfaces[i], nil
		}
	}
	return nil, errors.New("no suitable multicast interface found")
}

func usable(iface *net.Interface) bool {
	return iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagMulticast != 0
}

func hasIPv4(iface *net.Interface) bool {
	addrs, err := iface.Addrs()
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && ipNet.IP.To4() != nil {
			return true
		}
	}
	return false
}
