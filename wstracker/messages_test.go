package wstracker

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsUnmarshal(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Slots
	}{
		{`3`, 3},
		{`-2`, -2},
		{`3.9`, 3},
		{`-3.9`, -3},
		{`"4"`, 4},
		{`" 12abc"`, 12},
		{`"-1"`, -1},
		{`"abc"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`true`, 0},
		{`[1]`, 0},
		{`1e300`, math.MaxInt},
	} {
		var m ReportMessage
		err := json.Unmarshal([]byte(`{"slots":`+tc.in+`}`), &m)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, m.Slots, tc.in)
	}
}

func TestReportMessageDefaults(t *testing.T) {
	var m ReportMessage
	require.NoError(t, json.Unmarshal([]byte(`{"action":"tracker_report"}`), &m))
	assert.Empty(t, m.Fragments.Added)
	assert.Empty(t, m.Fragments.Removed)
	assert.Zero(t, m.Slots)
	assert.Zero(t, m.Stats)
}

func TestRequestHosts(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "[::ffff:203.0.113.9]:4000"
	addr, err := RemoteAddrHost(r)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("203.0.113.9"), addr)
	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	addr, err = ForwardedForHost(r)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("198.51.100.1"), addr)
	r.Header.Set("X-Forwarded-For", "garbage")
	addr, err = ForwardedForHost(r)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("203.0.113.9"), addr)
	r.RemoteAddr = "nonsense"
	_, err = RemoteAddrHost(r)
	assert.Error(t, err)
}

func TestCheckOrigins(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	assert.True(t, CheckOrigins(nil)(r))
	check := CheckOrigins([]string{"https://live.example.com"})
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://LIVE.example.com")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(r))
}
