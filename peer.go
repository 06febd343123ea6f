package tracker

import (
	"net/netip"

	g "github.com/anacrolix/generics"

	"github.com/upflare/tracker/geo"
)

// The transport-assigned connection id of a viewer.
type PeerId string

// A connected viewer. Peers live from their first query or report until Remove.
type peer struct {
	Id       PeerId
	IP       netip.Addr
	Location g.Option[geo.Location]
	// Derived from IP.
	Subnet g.Option[SubnetKey]

	// Fragment URLs the peer currently advertises.
	fragments map[string]struct{}
	// Remaining upload slots. Zero or less means the peer can't take new transfers.
	slots int
	// The last counters the peer reported. They never decrease.
	stats TransferStats
}

func newPeer(id PeerId, ip netip.Addr, location g.Option[geo.Location]) *peer {
	return &peer{
		Id:        id,
		IP:        ip,
		Location:  location,
		Subnet:    SubnetOf(ip),
		fragments: make(map[string]struct{}),
	}
}

func (p *peer) hasFragment(url string) bool {
	return g.MapContains(p.fragments, url)
}

// Whether the peer can be handed out for url without the requester already knowing about it.
func (p *peer) canServe(url string) bool {
	return p.slots > 0 && p.hasFragment(url)
}

func (p *peer) applyFragmentChanges(changes FragmentChanges) {
	for _, url := range changes.Added {
		p.fragments[url] = struct{}{}
	}
	for _, url := range changes.Removed {
		delete(p.fragments, url)
	}
}

// A copy of a peer's mutable state.
type PeerState struct {
	Id        PeerId
	IP        netip.Addr
	Location  g.Option[geo.Location]
	Subnet    g.Option[SubnetKey]
	Fragments int
	Slots     int
	Stats     TransferStats
}

func (p *peer) state() PeerState {
	return PeerState{
		Id:        p.Id,
		IP:        p.IP,
		Location:  p.Location,
		Subnet:    p.Subnet,
		Fragments: len(p.fragments),
		Slots:     p.slots,
		Stats:     p.stats,
	}
}
