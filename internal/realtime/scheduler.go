package realtime

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Janitor is the one background ticker over the shared realtime state.
// Every interval it runs the registry sweep followed by the room prune;
// nothing else may run a competing timer over the same maps.
type Janitor struct {
	coord    *Coordinator
	interval time.Duration
	log      zerolog.Logger
}

// NewJanitor creates the cleanup scheduler.
func NewJanitor(coord *Coordinator, interval time.Duration, log zerolog.Logger) *Janitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Janitor{coord: coord, interval: interval, log: log}
}

// Run blocks until ctx is cancelled, running one cleanup pass per tick.
// Call in a goroutine; cancelling the context is the shutdown path.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Debug().Msg("janitor stopped")
			return
		case now := <-ticker.C:
			swept, pruned := j.coord.Cleanup(now)
			if swept > 0 || pruned > 0 {
				j.log.Info().Int("connections", swept).Int("rooms", pruned).Msg("cleanup pass")
			}
		}
	}
}
