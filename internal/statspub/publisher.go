// Package statspub publishes tracker statistics snapshots to NATS as JSON.
package statspub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/anacrolix/log"
	"github.com/nats-io/nats.go"

	"github.com/upflare/tracker"
	"github.com/upflare/tracker/version"
)

const DefaultSubject = "tracker.stats"

// The part of *nats.Conn that's used.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type Publisher struct {
	conn    Conn
	subject string
	host    string
	logger  log.Logger
}

// The JSON published for each snapshot.
type Message struct {
	Time time.Time `json:"time"`
	// Distinguishes tracker instances sharing a subject.
	Host  string                `json:"host,omitempty"`
	Stats tracker.StatsSnapshot `json:"stats"`
}

func NewPublisher(conn Conn, subject, host string, logger log.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{
		conn:    conn,
		subject: subject,
		host:    host,
		logger:  logger.WithNames("statspub"),
	}
}

// Connect dials the NATS server at url.
func Connect(url, subject, host string, logger log.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name(version.DefaultServerName))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %q: %w", url, err)
	}
	p := NewPublisher(nc, subject, host, logger)
	p.logger.WithDefaultLevel(log.Info).Printf("connected to NATS server at %s", url)
	return p, nil
}

func (p *Publisher) Publish(stats tracker.StatsSnapshot) error {
	data, err := json.Marshal(Message{
		Time:  time.Now(),
		Host:  p.host,
		Stats: stats,
	})
	if err != nil {
		return fmt.Errorf("marshalling stats: %w", err)
	}
	return p.conn.Publish(p.subject, data)
}

// OnStats can be used as tracker.TrackerConfig.OnStats. Errors are logged.
func (p *Publisher) OnStats(stats tracker.StatsSnapshot) {
	if err := p.Publish(stats); err != nil {
		p.logger.Levelf(log.Warning, "publishing stats: %v", err)
	}
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
