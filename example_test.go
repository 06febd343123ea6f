package tracker_test

import (
	"fmt"
	"net/netip"

	g "github.com/anacrolix/generics"

	"github.com/upflare/tracker"
	"github.com/upflare/tracker/geo"
)

func Example() {
	cfg := tracker.NewDefaultTrackerConfig()
	cfg.StatsInterval = 0
	t := tracker.NewTracker(cfg)
	defer t.Close()
	singapore := g.Some(geo.NewLocation("SG", 1.3, 103.8))
	t.Report(tracker.ReportRequest{
		Id:        "P1",
		IP:        netip.MustParseAddr("203.0.113.7"),
		Location:  singapore,
		Fragments: tracker.FragmentChanges{Added: []string{"f1"}},
		Slots:     2,
	})
	seeders := t.Query(tracker.QueryRequest{
		Id:       "P2",
		IP:       netip.MustParseAddr("198.51.100.9"),
		Location: singapore,
		URL:      "f1",
	})
	fmt.Println(seeders)
	// Output: [P1]
}
