package tracker

import (
	"strings"
	"testing"
	"time"

	"github.com/go-quicktest/qt"
)

func TestTimingWindowEvictsOldest(t *testing.T) {
	w := NewTimingWindow(100)
	w.Record(time.Nanosecond)
	for i := range 149 {
		w.Record(time.Duration(i+2) * time.Nanosecond)
	}
	samples := w.Samples()
	qt.Assert(t, qt.HasLen(samples, 100))
	qt.Check(t, qt.Equals(samples[0], 51*time.Nanosecond))
	qt.Check(t, qt.Equals(samples[99], 150*time.Nanosecond))
	s := w.Summary()
	qt.Check(t, qt.Equals(s.Count, 150))
	// Min and max are kept after their samples are evicted.
	qt.Check(t, qt.Equals(s.Min, time.Nanosecond))
	qt.Check(t, qt.Equals(s.Max, 150*time.Nanosecond))
	qt.Check(t, qt.Equals(s.Mean, (51+150)*50*time.Nanosecond/100))
}

func TestTimingWindowEmpty(t *testing.T) {
	s := NewTimingWindow(100).Summary()
	qt.Check(t, qt.Equals(s, TimingSummary{}))
}

func TestStatsSnapshotString(t *testing.T) {
	s := StatsSnapshot{
		Peers:     3,
		PeakPeers: 7,
		Locations: 2,
		Subnets:   1,
		Transfer: TransferStats{
			P2P: P2PStats{Sent: 2000, Received: 3000},
			XHR: XHRStats{Received: 1000},
		},
		Query: TimingSummary{
			Count: 1,
			Min:   1500 * time.Nanosecond,
			Mean:  20 * time.Microsecond,
			Max:   300 * time.Microsecond,
		},
	}
	s.P2PRatio = s.Transfer.P2PRatio()
	line := s.String()
	qt.Check(t, qt.Equals(line, strings.Join([]string{
		"peers = 3/7",
		"locations = 2",
		"subnets = 1",
		"p2p.sent = 2.0 kB",
		"p2p.received = 3.0 kB",
		"xhr.received = 1.0 kB",
		"total.received = 4.0 kB",
		"ratio = 0.750",
		"timing.query = 2/20/300",
	}, ", ")))
}

func TestTransferStatsAdvance(t *testing.T) {
	var stored TransferStats
	delta := stored.advance(TransferStats{P2P: P2PStats{Sent: 10, Received: 4}})
	qt.Check(t, qt.Equals(delta, TransferStats{P2P: P2PStats{Sent: 10, Received: 4}}))
	qt.Check(t, qt.IsTrue(stored.isStale(TransferStats{P2P: P2PStats{Sent: 7, Received: 4}})))
	delta = stored.advance(TransferStats{P2P: P2PStats{Sent: 7, Received: 6}, XHR: XHRStats{Received: 1}})
	qt.Check(t, qt.Equals(delta, TransferStats{P2P: P2PStats{Received: 2}, XHR: XHRStats{Received: 1}}))
	qt.Check(t, qt.Equals(stored, TransferStats{P2P: P2PStats{Sent: 10, Received: 6}, XHR: XHRStats{Received: 1}}))
}
