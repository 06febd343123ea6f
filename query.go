package tracker

import (
	"net/netip"
	"time"

	g "github.com/anacrolix/generics"
	"github.com/anacrolix/log"

	"github.com/upflare/tracker/geo"
)

// A request for peers that can serve a fragment.
type QueryRequest struct {
	Id       PeerId
	IP       netip.Addr
	Location g.Option[geo.Location]
	// The fragment URL.
	URL string
	// Peers the requester knows have the fragment. They're returned whenever they still advertise
	// it, regardless of their slots.
	Contributors []PeerId
	// Peers the requester suspects have the fragment. They're returned if they advertise it and
	// have slots.
	Candidates []PeerId
}

// Query returns peers for req.URL, never including the requester. Known contributors and
// candidates come first, then at least one peer found by locality, up to MinPeers+1 in total.
func (t *Tracker) Query(req QueryRequest) []PeerId {
	t.mu.Lock()
	defer t.mu.Unlock()
	started := time.Now()
	requester := t.getOrCreatePeer(req.Id, req.IP, req.Location)
	chosen := newPeerSet()
	for _, id := range req.Contributors {
		p, ok := t.peers[id]
		if !ok {
			unknownQueryPeers.Add(1)
			continue
		}
		if p.hasFragment(req.URL) {
			chosen.Add(id)
		}
	}
	for _, id := range req.Candidates {
		p, ok := t.peers[id]
		if !ok {
			unknownQueryPeers.Add(1)
			continue
		}
		if p.canServe(req.URL) {
			chosen.Add(id)
		}
	}
	chosen.Delete(requester.Id)
	t.pickPeers(req.URL, requester, chosen, max(chosen.Len(), t.config.MinPeers)+1)
	seeders := chosen.Slice()
	elapsed := time.Since(started)
	t.stats.query.Record(elapsed)
	queries.Add(1)
	t.logger.Levelf(
		log.Debug,
		"query: id = %v, ip = %v, location = %v, fragment = %q, peers = %v, elapsed = %v",
		requester.Id, req.IP, locationIdString(requester.Location), req.URL, seeders, elapsed)
	return seeders
}

func locationIdString(loc g.Option[geo.Location]) string {
	if !loc.Ok {
		return "none"
	}
	return string(loc.Value.Id)
}
