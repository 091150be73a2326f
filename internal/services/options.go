package services

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// Option customizes a circulation service.
type Option func(*serviceOptions)

type serviceOptions struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		o.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) serviceOptions {
	o := serviceOptions{
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// isMoney accepts positive amounts with at most two decimal places, the
// precision of the NUMERIC(12,2) columns.
func isMoney(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2))
}
