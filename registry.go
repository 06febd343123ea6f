package tracker

import (
	"net/netip"

	g "github.com/anacrolix/generics"
	"github.com/anacrolix/log"
	"github.com/anacrolix/missinggo/v2/panicif"

	"github.com/upflare/tracker/geo"
)

// Returns the existing peer unchanged, otherwise registers a new one in the subnet index and
// location graph.
func (t *Tracker) getOrCreatePeer(id PeerId, ip netip.Addr, location g.Option[geo.Location]) *peer {
	if p, ok := t.peers[id]; ok {
		return p
	}
	p := newPeer(id, ip, location)
	g.MapMustAssignNew(t.peers, id, p)
	if p.Subnet.Ok {
		t.subnets.add(p.Subnet.Value, id)
	}
	if node := t.locations.getOrCreate(location); node != nil {
		panicif.False(node.peers.Add(id))
	}
	t.stats.updatePeakPeers(len(t.peers))
	peersCreated.Add(1)
	t.logger.Levelf(log.Debug, "new peer %v from %v at %v", id, ip, location)
	return p
}

// Remove forgets a peer, typically because its connection closed. Unknown ids are ignored.
func (t *Tracker) Remove(id PeerId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.peers[id]
	if !ok {
		return
	}
	delete(t.peers, id)
	peersRemoved.Add(1)
	if p.Subnet.Ok {
		t.subnets.remove(p.Subnet.Value, id)
	}
	if p.Location.Ok {
		if node := t.locations.get(p.Location.Value.Id); node != nil {
			node.peers.Delete(id)
		}
	}
	t.logger.Levelf(log.Debug, "removed peer %v", id)
}
