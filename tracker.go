package tracker

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/anacrolix/chansync"
	"github.com/anacrolix/log"
	"github.com/anacrolix/sync"
	"github.com/davecgh/go-spew/spew"
)

// Tracker indexes the peers of the mesh and answers fragment queries. Create one with NewTracker.
type Tracker struct {
	// An aggregate of flags that affect behaviour.
	config *TrackerConfig
	logger log.Logger
	rand   RandSource

	mu        sync.Mutex
	peers     map[PeerId]*peer
	subnets   subnetIndex
	locations locationGraph
	stats     trackerStats

	closed         chansync.SetOnce
	statsLoopEnded chansync.SetOnce
}

func NewTracker(cfg *TrackerConfig) *Tracker {
	if cfg == nil {
		cfg = NewDefaultTrackerConfig()
	}
	t := &Tracker{
		config: cfg,
		logger: cfg.Logger.WithNames("tracker"),
		rand:   cfg.RandSource,
		peers:  make(map[PeerId]*peer),
		stats:  newTrackerStats(cfg.TimingSamples),
	}
	if t.rand == nil {
		t.rand = newDefaultRandSource()
	}
	if cfg.StatsInterval > 0 {
		go t.statsLoop(cfg.StatsInterval)
	} else {
		t.statsLoopEnded.Set()
	}
	return t
}

// Stops the statistics task and waits for it. The Tracker still answers queries and reports
// afterwards.
func (t *Tracker) Close() error {
	t.closed.Set()
	<-t.statsLoopEnded.Done()
	return nil
}

// Returns a copy of the peer's state, if it's known.
func (t *Tracker) Peer(id PeerId) (_ PeerState, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.peers[id]
	if !ok {
		return
	}
	return p.state(), true
}

func (t *Tracker) NumPeers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.peers)
}

func (t *Tracker) Stats() StatsSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statsLocked()
}

func (t *Tracker) statsLocked() StatsSnapshot {
	return StatsSnapshot{
		Peers:     len(t.peers),
		PeakPeers: t.stats.peakPeers,
		Locations: len(t.locations),
		Subnets:   len(t.subnets),
		Transfer:  t.stats.transfer,
		P2PRatio:  t.stats.transfer.P2PRatio(),
		Query:     t.stats.query.Summary(),
		Report:    t.stats.report.Summary(),
	}
}

// Writes a human-readable dump of the Tracker's state.
func (t *Tracker) WriteStatus(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.statsLocked()
	fmt.Fprintf(w, "Statistics: %v\n", stats)
	fmt.Fprintln(w)
	ids := slices.Sorted(maps.Keys(t.locations))
	fmt.Fprintf(w, "Locations (%d):\n", len(ids))
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "  id\tcountry\tpeers\tnearest\n")
	for _, id := range ids {
		node := t.locations[id]
		nearest := "-"
		if len(node.neighbours) != 0 {
			n := node.neighbours[0]
			nearest = fmt.Sprintf("%s (%.0f km)", n, node.distances[n])
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n", id, node.Country, node.peers.Len(), nearest)
	}
	tw.Flush()
	fmt.Fprintln(w)
	dumpStats(w, stats)
}

func dumpStats[T any](w io.Writer, stats T) {
	cfg := spew.NewDefaultConfig()
	cfg.DisableMethods = true
	cfg.Fdump(w, stats)
}
