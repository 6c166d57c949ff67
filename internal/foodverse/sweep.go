package foodverse

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SweepInterval is how often expired KV entries are removed while the
// dashboard runs.
const SweepInterval = 5 * time.Minute

// Sweeper deletes expired entries.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Sweep removes expired KV entries once and then every interval until ctx is
// cancelled. It blocks; run it on its own goroutine.
func Sweep(ctx context.Context, s Sweeper, interval time.Duration) {
	sweepOnce(ctx, s)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(ctx, s)
		}
	}
}

func sweepOnce(ctx context.Context, s Sweeper) {
	n, err := s.SweepExpired(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("kv sweep failed")
		return
	}
	if n > 0 {
		log.Debug().Int64("removed", n).Msg("kv sweep")
	}
}
