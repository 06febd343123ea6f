package tracker

import (
	"net/netip"
	"testing"

	g "github.com/anacrolix/generics"
	"github.com/go-quicktest/qt"
)

func TestSubnetOf(t *testing.T) {
	for _, tc := range []struct {
		ip   netip.Addr
		want g.Option[SubnetKey]
	}{
		{netip.MustParseAddr("203.0.113.7"), g.Some[SubnetKey]("203.0")},
		{netip.MustParseAddr("::ffff:10.1.2.3"), g.Some[SubnetKey]("10.1")},
		{netip.MustParseAddr("2001:db8::1"), g.None[SubnetKey]()},
		{netip.Addr{}, g.None[SubnetKey]()},
	} {
		qt.Check(t, qt.Equals(SubnetOf(tc.ip), tc.want), qt.Commentf("%v", tc.ip))
	}
}

func TestSubnetIndexRemoveUnknown(t *testing.T) {
	var si subnetIndex
	si.remove("10.1", "a")
	si.add("10.1", "a")
	si.add("10.1", "a")
	si.remove("10.2", "a")
	s, ok := si.get(g.Some[SubnetKey]("10.1"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(s.Len(), 1))
	si.remove("10.1", "a")
	qt.Check(t, qt.Equals(s.Len(), 0))
	qt.Check(t, qt.HasLen(si, 1))
}
