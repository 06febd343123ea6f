package statspub

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/anacrolix/log"
	"github.com/go-quicktest/qt"

	"github.com/upflare/tracker"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs    []published
	err     error
	drained bool
}

func (me *fakeConn) Publish(subject string, data []byte) error {
	if me.err != nil {
		return me.err
	}
	me.msgs = append(me.msgs, published{subject, data})
	return nil
}

func (me *fakeConn) Drain() error {
	me.drained = true
	return nil
}

func TestPublish(t *testing.T) {
	var conn fakeConn
	p := NewPublisher(&conn, "", "edge-1", log.Default)
	stats := tracker.StatsSnapshot{Peers: 2, PeakPeers: 5}
	stats.Transfer.P2P.Received = 100
	qt.Assert(t, qt.IsNil(p.Publish(stats)))
	qt.Assert(t, qt.HasLen(conn.msgs, 1))
	qt.Check(t, qt.Equals(conn.msgs[0].subject, DefaultSubject))
	var msg Message
	qt.Assert(t, qt.IsNil(json.Unmarshal(conn.msgs[0].data, &msg)))
	qt.Check(t, qt.Equals(msg.Host, "edge-1"))
	qt.Check(t, qt.DeepEquals(msg.Stats, stats))
	qt.Check(t, qt.IsFalse(msg.Time.IsZero()))
	qt.Check(t, qt.IsNil(p.Close()))
	qt.Check(t, qt.IsTrue(conn.drained))
}

func TestOnStatsSwallowsErrors(t *testing.T) {
	conn := fakeConn{err: errors.New("no responders")}
	p := NewPublisher(&conn, "custom", "", log.Default)
	p.OnStats(tracker.StatsSnapshot{})
	qt.Check(t, qt.HasLen(conn.msgs, 0))
}
