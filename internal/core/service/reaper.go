package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/port"
)

// Reaper runs the TTL sweep over every reapable store on a fixed interval,
// independent of request traffic.
type Reaper struct {
	interval time.Duration
	targets  []port.Reapable
}

func NewReaper(interval time.Duration, targets ...port.Reapable) *Reaper {
	return &Reaper{interval: interval, targets: targets}
}

// Run blocks until the context is cancelled, sweeping all targets every
// interval. Individual sweep failures are the targets' business; Run only
// schedules them.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.interval).Msg("reaper running")

	for {
		select {
		case <-ticker.C:
			for _, target := range r.targets {
				target.Reap(ctx)
			}
		case <-ctx.Done():
			log.Debug().Msg("stopping reaper")
			return
		}
	}
}
