package tracker

import (
	"net/netip"
	"time"

	g "github.com/anacrolix/generics"
	"github.com/anacrolix/log"

	"github.com/upflare/tracker/geo"
)

type FragmentChanges struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// A peer's periodic report of what it can serve, and how much it has transferred.
type ReportRequest struct {
	Id        PeerId
	IP        netip.Addr
	Location  g.Option[geo.Location]
	Fragments FragmentChanges
	// Remaining upload slots. Zero or less means none.
	Slots int
	// Cumulative counters since the peer connected.
	Stats TransferStats
}

// Report updates the peer's fragments and slots, and adds whatever its counters advanced by to the
// global totals. Counters that went backwards are ignored.
func (t *Tracker) Report(req ReportRequest) {
	t.mu.Lock()
	defer t.mu.Unlock()
	started := time.Now()
	p := t.getOrCreatePeer(req.Id, req.IP, req.Location)
	p.slots = req.Slots
	if p.stats.isStale(req.Stats) {
		staleCounterReports.Add(1)
	}
	t.stats.transfer.add(p.stats.advance(req.Stats))
	p.applyFragmentChanges(req.Fragments)
	elapsed := time.Since(started)
	t.stats.report.Record(elapsed)
	reports.Add(1)
	t.logger.Levelf(
		log.Debug,
		"report: id = %v, ip = %v, location = %v, fragments = %v, slots = %v, elapsed = %v",
		p.Id, req.IP, locationIdString(req.Location), len(p.fragments), p.slots, elapsed)
}
