package service

import (
	"context"

	"github.com/shopspring/decimal"

	"tradesignals/internal/outcome"
)

// Notifier is an optional out-of-band admin channel (Telegram in
// production). Implementations must be best-effort and non-blocking on
// failure; settlement correctness never depends on them.
type Notifier interface {
	SignalExecuted(ctx context.Context, signalID uint64, out outcome.Outcome, participants int, totalVolume decimal.Decimal)
	SweepCompleted(ctx context.Context, expired, refunded int)
}
