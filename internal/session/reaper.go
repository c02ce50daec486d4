package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"calculator-widget/internal/observability"
)

// Reap prunes sessions idle for longer than ttl once per interval, until ctx
// is cancelled. A session outliving its token can no longer be addressed, so
// ttl is normally the token lifetime.
func Reap[S any](ctx context.Context, store Store[S], ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			reapOnce(ctx, store, now.Add(-ttl))
		}
	}
}

func reapOnce[S any](ctx context.Context, store Store[S], cutoff time.Time) int {
	n, err := store.Prune(ctx, cutoff)
	if err != nil {
		observability.Logger.Error("pruning idle sessions", zap.Error(err))
		return 0
	}
	if n > 0 {
		observability.Logger.Info("pruned idle sessions",
			zap.Int("count", n),
			zap.Time("cutoff", cutoff),
		)
	}
	return n
}
