package iplist

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = `
# range,country,latitude,longitude,region,city
1.2.4.0-1.2.4.255,SG,1.2897,103.8501,,Singapore
1.2.8.0/24,MY,3.139,101.6869,14,Kuala Lumpur
86.59.95.195,AT,48.2,16.37
2001:db8::/32,US,40.71,-74.01,NY,New York
`

func sampleList(t testing.TB) *IPList {
	l, err := NewFromReader(strings.NewReader(sample))
	require.NoError(t, err)
	return l
}

func TestNewFromReader(t *testing.T) {
	l := sampleList(t)
	assert.Equal(t, 4, l.NumRanges())
}

func TestLookup(t *testing.T) {
	l := sampleList(t)
	for _, _case := range []struct {
		ip      string
		country string
		id      string
	}{
		{"1.2.4.0", "SG", "1.29,103.85"},
		{"1.2.4.255", "SG", "1.29,103.85"},
		{"1.2.8.7", "MY", "3.14,101.69"},
		{"::ffff:1.2.8.7", "MY", "3.14,101.69"},
		{"86.59.95.195", "AT", "48.2,16.37"},
		{"2001:db8::1", "US", "40.71,-74.01"},
	} {
		r := l.Lookup(netip.MustParseAddr(_case.ip))
		if !assert.NotNil(t, r, _case.ip) {
			continue
		}
		assert.Equal(t, _case.country, r.Location.Country)
		assert.EqualValues(t, _case.id, r.Location.Id)
	}
	sg := l.Lookup(netip.MustParseAddr("1.2.4.1"))
	require.NotNil(t, sg)
	assert.Equal(t, "Singapore", sg.Location.City)
	assert.Empty(t, sg.Location.Region)
}

func TestLookupMisses(t *testing.T) {
	l := sampleList(t)
	for _, ip := range []string{"1.2.3.255", "1.2.5.0", "86.59.95.196", "0.0.0.0", "255.255.255.255", "::1"} {
		assert.Nil(t, l.Lookup(netip.MustParseAddr(ip)), ip)
		assert.False(t, l.Locate(netip.MustParseAddr(ip)).Ok, ip)
	}
	assert.Nil(t, l.Lookup(netip.Addr{}))
	var empty *IPList
	assert.Nil(t, empty.Lookup(netip.MustParseAddr("1.2.4.1")))
	assert.Nil(t, New(nil).Lookup(netip.MustParseAddr("1.2.4.1")))
}

func TestPrefixRange(t *testing.T) {
	first, last := PrefixRange(netip.MustParsePrefix("10.1.2.3/20"))
	assert.Equal(t, netip.MustParseAddr("10.1.0.0"), first)
	assert.Equal(t, netip.MustParseAddr("10.1.15.255"), last)
	first, last = PrefixRange(netip.MustParsePrefix("2001:db8::/32"))
	assert.Equal(t, netip.MustParseAddr("2001:db8::"), first)
	assert.Equal(t, netip.MustParseAddr("2001:db8:ffff:ffff:ffff:ffff:ffff:ffff"), last)
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		"1.2.3.4,SG,1.3",
		"1.2.3.4,SG,north,103.8",
		"1.2.3.9-1.2.3.4,SG,1.3,103.8",
		"1.2.3.4-2001:db8::1,SG,1.3,103.8",
		"not-an-ip,SG,1.3,103.8",
	} {
		_, err := NewFromReader(strings.NewReader(bad))
		assert.Error(t, err, bad)
	}
}
