/*
Package tracker implements the peer tracker of a peer-assisted live video mesh.

Viewers register as peers when they first query or report. The Tracker indexes them by IP subnet
and by geographic location, answers fragment queries with a locality-biased random sample of
peers advertising the fragment, and folds the transfer counters peers report into global
statistics.

Simple example:

	t := tracker.NewTracker(tracker.NewDefaultTrackerConfig())
	defer t.Close()
	t.Report(tracker.ReportRequest{
		Id:        "a",
		IP:        netip.MustParseAddr("10.0.0.1"),
		Fragments: tracker.FragmentChanges{Added: []string{"seg1.ts"}},
		Slots:     2,
	})
	seeders := t.Query(tracker.QueryRequest{
		Id:  "b",
		IP:  netip.MustParseAddr("10.0.0.2"),
		URL: "seg1.ts",
	})

All exported Tracker methods are safe for concurrent use, and are atomic with respect to each
other.
*/
package tracker
