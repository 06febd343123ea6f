// Package iplist maps IP ranges to geographic locations. It is loaded once at startup from a
// range file and serves lookups for the tracker's geolocation.
package iplist

import (
	"fmt"
	"net/netip"
	"sort"

	g "github.com/anacrolix/generics"

	"github.com/upflare/tracker/geo"
)

type IPList struct {
	ranges []Range
}

var _ geo.Locator = (*IPList)(nil)

type Range struct {
	First, Last netip.Addr
	Location    geo.Location
}

func (r *Range) String() string {
	return fmt.Sprintf("%s-%s (%s)", r.First, r.Last, r.Location)
}

// Create a new IP list. Ranges are sorted by their first IP. Behaviour is undefined for lists of
// overlapping ranges.
func New(ranges []Range) *IPList {
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].First.Less(ranges[j].First)
	})
	return &IPList{
		ranges: ranges,
	}
}

func (me *IPList) NumRanges() int {
	if me == nil {
		return 0
	}
	return len(me.ranges)
}

// Return the range the given IP is in. Returns nil if no range is found. IPv4-mapped IPv6
// addresses are looked up as IPv4.
func (me *IPList) Lookup(ip netip.Addr) (r *Range) {
	if me == nil || !ip.IsValid() {
		return
	}
	ip = ip.Unmap()
	// Find the index of the first range for which the following range exceeds it.
	i := sort.Search(len(me.ranges), func(i int) bool {
		if i+1 >= len(me.ranges) {
			return true
		}
		return ip.Less(me.ranges[i+1].First)
	})
	if i == len(me.ranges) {
		return
	}
	r = &me.ranges[i]
	if ip.Less(r.First) || r.Last.Less(ip) {
		r = nil
	}
	return
}

func (me *IPList) Locate(ip netip.Addr) g.Option[geo.Location] {
	r := me.Lookup(ip)
	if r == nil {
		return g.None[geo.Location]()
	}
	return g.Some(r.Location)
}
