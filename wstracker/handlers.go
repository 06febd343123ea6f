package wstracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anacrolix/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/upflare/tracker"
)

var knownActions = map[Action]bool{
	ActionFragment: true,
	ActionReport:   true,
	ActionOffer:    true,
	ActionAnswer:   true,
}

// Decode failures and unknown actions are logged and the frame dropped. The connection stays up.
func (c *conn) handleMessage(message []byte) {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		c.s.stats.messagesInvalid.Add(1)
		c.logger.WithDefaultLevel(log.Warning).Printf("error unmarshalling message: %v", err)
		return
	}
	if !knownActions[env.Action] {
		c.s.stats.messagesInvalid.Add(1)
		c.logger.WithDefaultLevel(log.Warning).Printf("unknown action %q", env.Action)
		return
	}
	messagesReceived.Add(string(env.Action), 1)
	_, span := tracer.Start(
		context.Background(),
		"wstracker."+string(env.Action),
		trace.WithAttributes(
			attribute.String("wstracker.peer.id", string(c.id)),
			attribute.String("wstracker.peer.ip", c.ip.String()),
			attribute.Int("wstracker.message.len", len(message)),
		),
	)
	defer span.End()
	err := c.dispatch(env.Action, message, span)
	if err != nil {
		c.s.stats.messagesInvalid.Add(1)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithDefaultLevel(log.Warning).Printf("handling %q: %v", env.Action, err)
	}
}

func (c *conn) dispatch(action Action, message []byte, span trace.Span) error {
	switch action {
	case ActionFragment:
		var req FragmentRequest
		if err := json.Unmarshal(message, &req); err != nil {
			return fmt.Errorf("unmarshalling fragment request: %w", err)
		}
		return c.handleFragment(req, span)
	case ActionReport:
		var req ReportMessage
		if err := json.Unmarshal(message, &req); err != nil {
			return fmt.Errorf("unmarshalling report: %w", err)
		}
		c.handleReport(req)
		return nil
	case ActionOffer, ActionAnswer:
		var msg SignalMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			return fmt.Errorf("unmarshalling signal: %w", err)
		}
		msg.Action = action
		c.relay(msg, span)
		return nil
	default:
		panic(action)
	}
}

func (c *conn) handleFragment(req FragmentRequest, span trace.Span) error {
	seeders := c.s.Tracker.Query(tracker.QueryRequest{
		Id:           c.id,
		IP:           c.ip,
		Location:     c.location,
		URL:          req.URL,
		Contributors: req.Contributors,
		Candidates:   req.Candidates,
	})
	span.SetAttributes(attribute.Int("wstracker.fragment.seeders", len(seeders)))
	err := c.writeJSON(FragmentResponse{
		Action:  ActionFragment,
		URL:     req.URL,
		Seeders: seeders,
	})
	if err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (c *conn) handleReport(req ReportMessage) {
	c.s.Tracker.Report(tracker.ReportRequest{
		Id:        c.id,
		IP:        c.ip,
		Location:  c.location,
		Fragments: req.Fragments,
		Slots:     int(req.Slots),
		Stats:     req.Stats,
	})
}

// Forwards an offer or answer to the connection it names, as coming from c.
func (c *conn) relay(msg SignalMessage, span trace.Span) {
	target := msg.Id
	span.SetAttributes(attribute.String("wstracker.signal.target", string(target)))
	to := c.s.getConn(target)
	if to == nil {
		c.s.stats.signalsUndeliverable.Add(1)
		c.logger.Levelf(log.Debug, "%v for unknown peer %v dropped", msg.Action, target)
		return
	}
	msg.Id = c.id
	if err := to.writeJSON(msg); err != nil {
		c.s.stats.signalsUndeliverable.Add(1)
		c.logger.Levelf(log.Debug, "relaying %v to %v: %v", msg.Action, target, err)
		return
	}
	c.s.stats.signalsRelayed.Add(1)
}
