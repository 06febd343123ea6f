package tracker

import (
	"time"

	"github.com/anacrolix/log"
)

// Logs the statistics line whenever it changed since the last tick, until the Tracker is closed.
func (t *Tracker) statsLoop(interval time.Duration) {
	defer t.statsLoopEnded.Set()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var last string
	for {
		select {
		case <-t.closed.Done():
			return
		case <-ticker.C:
		}
		stats := t.Stats()
		if line := stats.String(); line != last {
			t.logger.WithDefaultLevel(log.Info).Printf("statistics: %s", line)
			last = line
		}
		if t.config.OnStats != nil {
			t.config.OnStats(stats)
		}
	}
}
