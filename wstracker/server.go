// Package wstracker exposes a tracker.Tracker to browsers over websockets. Each connection is a
// peer. Frames are JSON objects whose action field names the operation.
package wstracker

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/netip"
	"time"

	"github.com/anacrolix/chansync"
	g "github.com/anacrolix/generics"
	"github.com/anacrolix/log"
	"github.com/anacrolix/sync"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/upflare/tracker"
	"github.com/upflare/tracker/geo"
)

const (
	DefaultPingInterval = 25 * time.Second
	writeTimeout        = 10 * time.Second
)

type Server struct {
	Tracker *tracker.Tracker
	// Resolves peer IPs to locations. Nil means no locations.
	Locator geo.Locator
	Logger  log.Logger
	// CheckOrigin and buffer sizes are used from here.
	Upgrader websocket.Upgrader
	// Called to derive a peer's IP if non-nil. If not specified, the Request.RemoteAddr is used.
	// Necessary for instances running behind reverse proxies for example.
	RequestHost func(r *http.Request) (netip.Addr, error)
	// Zero uses DefaultPingInterval.
	PingInterval time.Duration
	// Inbound frames allowed per second per connection. Zero means no limit.
	RateLimit rate.Limit
	RateBurst int
	// Generates peer ids. Defaults to random URL-safe strings.
	NewPeerId func() tracker.PeerId

	mu     sync.Mutex
	conns  map[tracker.PeerId]*conn
	closed chansync.SetOnce
	stats  serverCounters
}

func (s *Server) Stats() ServerStats {
	return s.stats.snapshot()
}

func (s *Server) NumConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) logger() log.Logger {
	return s.Logger.WithNames("wstracker")
}

func (s *Server) requestHost(r *http.Request) (netip.Addr, error) {
	if s.RequestHost != nil {
		return s.RequestHost(r)
	}
	return RemoteAddrHost(r)
}

func (s *Server) locate(ip netip.Addr) g.Option[geo.Location] {
	if s.Locator == nil {
		return g.None[geo.Location]()
	}
	return s.Locator.Locate(ip)
}

func (s *Server) newPeerId() tracker.PeerId {
	if s.NewPeerId != nil {
		return s.NewPeerId()
	}
	var b [15]byte
	rand.Read(b[:])
	return tracker.PeerId(base64.RawURLEncoding.EncodeToString(b[:]))
}

func (s *Server) pingInterval() time.Duration {
	if s.PingInterval > 0 {
		return s.PingInterval
	}
	return DefaultPingInterval
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.closed.IsSet() {
		http.Error(w, "server closed", http.StatusServiceUnavailable)
		return
	}
	ip, err := s.requestHost(r)
	if err != nil {
		s.logger().Levelf(log.Warning, "error getting requester IP: %v", err)
		http.Error(w, "error determining your IP", http.StatusBadGateway)
		return
	}
	ws, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		s.logger().Levelf(log.Debug, "upgrading %v: %v", r.RemoteAddr, err)
		return
	}
	c := s.newConn(ws, ip)
	if !s.addConn(c) {
		ws.Close()
		return
	}
	s.stats.connections.Add(1)
	metrics.Add("connections", 1)
	c.logger.WithDefaultLevel(log.Info).Printf("connected: ip = %v, location = %v", ip, locationString(c.location))
	err = c.run()
	s.removeConn(c)
	s.Tracker.Remove(c.id)
	s.stats.disconnections.Add(1)
	metrics.Add("disconnections", 1)
	c.logger.WithDefaultLevel(log.Info).Printf("disconnected: %v", err)
}

func (s *Server) newConn(ws *websocket.Conn, ip netip.Addr) *conn {
	id := s.newPeerId()
	c := &conn{
		s:        s,
		id:       id,
		ip:       ip,
		location: s.locate(ip),
		ws:       ws,
		logger:   s.logger().WithNames(string(id)),
	}
	if s.RateLimit > 0 {
		c.limiter = rate.NewLimiter(s.RateLimit, max(s.RateBurst, 1))
	}
	return c
}

func (s *Server) addConn(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.IsSet() {
		return false
	}
	g.MakeMapIfNil(&s.conns)
	if _, ok := s.conns[c.id]; ok {
		return false
	}
	s.conns[c.id] = c
	return true
}

func (s *Server) removeConn(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[c.id] == c {
		delete(s.conns, c.id)
	}
}

func (s *Server) getConn(id tracker.PeerId) *conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns[id]
}

// Close refuses new connections and closes existing ones. Their peers are removed from the
// Tracker as their handlers return.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed.Set()
	conns := make([]*conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		c.close()
	}
	return nil
}

func locationString(loc g.Option[geo.Location]) string {
	if !loc.Ok {
		return "none"
	}
	return loc.Value.String()
}
