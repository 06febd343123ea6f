package iplist

import (
	"net/netip"
)

// Returns the first and last, inclusive IPs in a prefix.
func PrefixRange(p netip.Prefix) (first, last netip.Addr) {
	p = p.Masked()
	first = p.Addr()
	b := first.AsSlice()
	for i := range b {
		// Bits of this byte covered by the prefix.
		covered := p.Bits() - i*8
		switch {
		case covered >= 8:
			continue
		case covered <= 0:
			b[i] = 0xff
		default:
			b[i] |= 0xff >> covered
		}
	}
	last, _ = netip.AddrFromSlice(b)
	return
}
