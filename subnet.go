package tracker

import (
	"net/netip"
	"strconv"

	g "github.com/anacrolix/generics"
)

// The first two octets of an IPv4 address, like "203.0".
type SubnetKey string

// SubnetOf returns None for addresses that aren't IPv4 or IPv4-mapped IPv6.
func SubnetOf(ip netip.Addr) (ret g.Option[SubnetKey]) {
	ip = ip.Unmap()
	if !ip.Is4() {
		return
	}
	b := ip.As4()
	ret.Set(SubnetKey(strconv.Itoa(int(b[0])) + "." + strconv.Itoa(int(b[1]))))
	return
}

// Subnets are created on first use and never removed. An empty one is harmless.
type subnetIndex map[SubnetKey]peerSet

func (me *subnetIndex) add(key SubnetKey, id PeerId) {
	g.MakeMapIfNil(me)
	s, ok := (*me)[key]
	if !ok {
		s = newPeerSet()
		(*me)[key] = s
	}
	s.Add(id)
}

func (me subnetIndex) remove(key SubnetKey, id PeerId) {
	s, ok := me[key]
	if !ok {
		return
	}
	s.Delete(id)
}

func (me subnetIndex) get(key g.Option[SubnetKey]) (peerSet, bool) {
	if !key.Ok {
		return peerSet{}, false
	}
	s, ok := me[key.Value]
	return s, ok
}
