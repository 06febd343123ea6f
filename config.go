package tracker

import (
	"math/rand/v2"
	"time"

	"github.com/anacrolix/log"
)

// Probably not safe to modify this after it's given to a Tracker.
type TrackerConfig struct {
	Logger log.Logger
	// Source of randomness for peer selection. Tests supply a deterministic one. Only used while
	// the Tracker lock is held.
	RandSource RandSource
	// How often statistics are logged and passed to OnStats. Zero disables the background task.
	StatsInterval time.Duration
	// Called from the statistics task with a snapshot every StatsInterval.
	OnStats func(StatsSnapshot)
	// Number of most recent elapsed-time samples kept per timed operation.
	TimingSamples int
	// Queries are topped up to at least this many peers, plus one newly discovered peer.
	MinPeers int
	// Neighbour locations further away than this are not searched.
	MaxNeighbourDistanceKm float64
	// The neighbour walk stops once the candidate pool exceeds PoolFactor times the wanted count.
	PoolFactor int
}

func NewDefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		Logger:                 log.Default,
		StatsInterval:          10 * time.Second,
		TimingSamples:          100,
		MinPeers:               4,
		MaxNeighbourDistanceKm: 1000,
		PoolFactor:             2,
	}
}

// RandSource picks uniformly in [0, n).
type RandSource interface {
	IntN(n int) int
}

func newDefaultRandSource() RandSource {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>17|now<<47))
}
