package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Tracks the elapsed times of one kind of operation: all-time min and max, and the most recent
// samples.
type TimingWindow struct {
	limit   int
	count   int64
	min     time.Duration
	max     time.Duration
	samples []time.Duration
}

func NewTimingWindow(limit int) *TimingWindow {
	return &TimingWindow{limit: limit}
}

func (me *TimingWindow) Record(elapsed time.Duration) {
	if me.count == 0 || elapsed < me.min {
		me.min = elapsed
	}
	if me.count == 0 || elapsed > me.max {
		me.max = elapsed
	}
	me.count++
	me.samples = append(me.samples, elapsed)
	if over := len(me.samples) - me.limit; over > 0 {
		me.samples = append(me.samples[:0], me.samples[over:]...)
	}
}

func (me *TimingWindow) Samples() []time.Duration {
	return append([]time.Duration(nil), me.samples...)
}

func (me *TimingWindow) Summary() (ret TimingSummary) {
	ret.Count = me.count
	if len(me.samples) == 0 {
		return
	}
	ret.Min = me.min
	ret.Max = me.max
	var sum time.Duration
	for _, s := range me.samples {
		sum += s
	}
	ret.Mean = sum / time.Duration(len(me.samples))
	return
}

// Min and Max are over all time, Mean is over the recent samples only.
type TimingSummary struct {
	Count int64         `json:"count"`
	Min   time.Duration `json:"min"`
	Mean  time.Duration `json:"mean"`
	Max   time.Duration `json:"max"`
}

func (me TimingSummary) String() string {
	us := func(d time.Duration) int64 {
		return d.Round(time.Microsecond).Microseconds()
	}
	return fmt.Sprintf("%d/%d/%d", us(me.Min), us(me.Mean), us(me.Max))
}

// Global counters. Guarded by the Tracker lock.
type trackerStats struct {
	peakPeers int
	transfer  TransferStats
	query     *TimingWindow
	report    *TimingWindow
}

func newTrackerStats(timingSamples int) trackerStats {
	return trackerStats{
		query:  NewTimingWindow(timingSamples),
		report: NewTimingWindow(timingSamples),
	}
}

func (me *trackerStats) updatePeakPeers(current int) {
	me.peakPeers = max(me.peakPeers, current)
}

type StatsSnapshot struct {
	Peers     int           `json:"peers"`
	PeakPeers int           `json:"peak_peers"`
	Locations int           `json:"locations"`
	Subnets   int           `json:"subnets"`
	Transfer  TransferStats `json:"transfer"`
	P2PRatio  float64       `json:"p2p_ratio"`
	Query     TimingSummary `json:"query"`
	Report    TimingSummary `json:"report"`
}

// The statistics line that's logged periodically. Timings are min/mean/max in microseconds, and
// are left out until there are samples.
func (me StatsSnapshot) String() string {
	parts := []string{
		fmt.Sprintf("peers = %d/%d", me.Peers, me.PeakPeers),
		fmt.Sprintf("locations = %d", me.Locations),
		fmt.Sprintf("subnets = %d", me.Subnets),
		"p2p.sent = " + humanizeBytes(me.Transfer.P2P.Sent),
		"p2p.received = " + humanizeBytes(me.Transfer.P2P.Received),
		"xhr.received = " + humanizeBytes(me.Transfer.XHR.Received),
		"total.received = " + humanizeBytes(me.Transfer.TotalReceived()),
		fmt.Sprintf("ratio = %.3f", me.P2PRatio),
	}
	if me.Query.Count != 0 {
		parts = append(parts, "timing.query = "+me.Query.String())
	}
	if me.Report.Count != 0 {
		parts = append(parts, "timing.report = "+me.Report.String())
	}
	return strings.Join(parts, ", ")
}

func humanizeBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return humanize.Bytes(uint64(n))
}
