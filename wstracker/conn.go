package wstracker

import (
	"fmt"
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

// One browser connection, and the peer it represents.
type conn struct {
	s        *Server
	id       tracker.PeerId
	ip       netip.Addr
	location g.Option[geo.Location]
	logger   log.Logger
	// Nil if unlimited.
	limiter *rate.Limiter

	// Guards writes to ws. Reads only happen in run.
	mu     sync.Mutex
	ws     *websocket.Conn
	closed chansync.SetOnce
}

func (c *conn) close() {
	if c.closed.Set() {
		c.ws.Close()
	}
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

// Runs until the connection fails or is closed.
func (c *conn) run() error {
	defer c.close()
	pingInterval := c.s.pingInterval()
	readTimeout := 2 * pingInterval
	c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
	err := c.writeJSON(ConnectedMessage{Action: ActionConnected, Id: c.id})
	if err != nil {
		return fmt.Errorf("writing connected message: %w", err)
	}
	go c.pinger(pingInterval)
	return c.readLoop(readTimeout)
}

func (c *conn) pinger(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.mu.Unlock()
			if err != nil {
				c.logger.Levelf(log.Debug, "writing ping: %v", err)
				c.close()
				return
			}
		case <-c.closed.Done():
			return
		}
	}
}

func (c *conn) readLoop(readTimeout time.Duration) error {
	for {
		messageType, message, err := c.ws.ReadMessage()
		if err != nil {
			if c.closed.IsSet() {
				return nil
			}
			return fmt.Errorf("read message error: %w", err)
		}
		c.ws.SetReadDeadline(time.Now().Add(readTimeout))
		if messageType != websocket.TextMessage {
			c.s.stats.messagesInvalid.Add(1)
			continue
		}
		c.s.stats.messagesReceived.Add(1)
		if c.limiter != nil && !c.limiter.Allow() {
			c.s.stats.messagesLimited.Add(1)
			metrics.Add("messages rate limited", 1)
			c.logger.Levelf(log.Debug, "rate limited, dropping message")
			continue
		}
		c.handleMessage(message)
	}
}
