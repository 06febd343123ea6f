package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/anacrolix/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upflare/tracker"
)

func TestRouter(t *testing.T) {
	trackerConfig := tracker.NewDefaultTrackerConfig()
	trackerConfig.StatsInterval = 0
	trackerConfig.Logger = log.Default
	tr := tracker.NewTracker(trackerConfig)
	defer tr.Close()
	tr.Report(tracker.ReportRequest{
		Id:    "p",
		IP:    netip.MustParseAddr("10.0.0.1"),
		Slots: 1,
	})
	reg := prometheus.NewRegistry()
	require.NoError(t, tr.RegisterMetrics(reg))
	ws := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	hs := httptest.NewServer(newRouter(DefaultConfig(), tr, ws, reg))
	defer hs.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(hs.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}
	resp, err := http.Get(hs.URL + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, strings.HasPrefix(resp.Header.Get("Server"), "upflare-tracker/"))
	code, _ := get("/ws")
	assert.Equal(t, http.StatusTeapot, code)
	code, body := get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, "tracker_peers 1"), body)
	code, body = get("/status")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, "peers = 1/1"), body)
	code, body = get("/debug/vars")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, `"tracker"`), body)
	code, _ = get("/nope")
	assert.Equal(t, http.StatusNotFound, code)
}
