package tracker

import (
	"expvar"
)

// Process-wide counters, published under "tracker" in /debug/vars.
var (
	trackerVars = expvar.NewMap("tracker")

	peersCreated = new(expvar.Int)
	peersRemoved = new(expvar.Int)
	queries      = new(expvar.Int)
	reports      = new(expvar.Int)
	// Reports where at least one counter was lower than the peer's last report.
	staleCounterReports = new(expvar.Int)
	// Contributor and candidate ids in queries that weren't registered peers.
	unknownQueryPeers = new(expvar.Int)
)

func init() {
	trackerVars.Set("peersCreated", peersCreated)
	trackerVars.Set("peersRemoved", peersRemoved)
	trackerVars.Set("queries", queries)
	trackerVars.Set("reports", reports)
	trackerVars.Set("staleCounterReports", staleCounterReports)
	trackerVars.Set("unknownQueryPeers", unknownQueryPeers)
}
