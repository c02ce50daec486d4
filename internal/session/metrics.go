package session

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"calculator-widget/internal/observability"
)

// NewSizeCollector returns a Prometheus gauge reporting the number of
// sessions held by store at scrape time.
func NewSizeCollector[S any](store Store[S]) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_sessions",
		Help: "Number of calculator sessions currently stored.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		n, err := store.Count(ctx)
		if err != nil {
			observability.Logger.Warn("counting sessions", zap.Error(err))
			return 0
		}
		return float64(n)
	})
}
