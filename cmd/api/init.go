package main

import (
	"context"

	"calculator-widget/internal/calculator"
	"calculator-widget/internal/observability"
)

// initMetrics initialises the OTLP meter provider and then the calculator's
// instruments, which must be created against that provider.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
