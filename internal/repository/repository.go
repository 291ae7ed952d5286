package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradesignals/internal/models"
)

// Repository is the data-access surface of the settlement subsystem.
// Conditional updates return whether a row was actually claimed so callers
// can distinguish "not found / wrong state" from plain success; the *Tx
// variants run inside a transaction opened via InTx so one participant's
// writes (participation, balance, notification) land together or not at all.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Signals.
	GetSignalByID(ctx context.Context, id uint64) (*models.TradeSignal, error)
	ListSignals(ctx context.Context, params ListSignalsParams) ([]models.TradeSignal, error)
	CountSignals(ctx context.Context, params ListSignalsParams) (int64, error)
	StartSignalTimer(ctx context.Context, id uint64, start, executeAt time.Time, durationMinutes int) (bool, error)
	ClaimSignalForExecution(ctx context.Context, id uint64) (bool, error)
	ReleaseSignalClaim(ctx context.Context, id uint64) (bool, error)
	MarkSignalExecuted(ctx context.Context, id uint64, outcome string, executedAt time.Time) error
	ExpireSignal(ctx context.Context, id uint64) (bool, error)
	ListDueSignals(ctx context.Context, now time.Time, limit int) ([]models.TradeSignal, error)
	ListExpiredSignalIDsWithPending(ctx context.Context, limit int) ([]uint64, error)

	// Participants.
	ListParticipantsBySignalID(ctx context.Context, signalID uint64) ([]models.SignalParticipant, error)
	ListPendingParticipants(ctx context.Context, signalID uint64) ([]models.SignalParticipant, error)
	SettleParticipantTx(ctx context.Context, tx *gorm.DB, id uint64, pl, plPct, finalBalance decimal.Decimal, settledAt time.Time) (bool, error)
	CancelParticipantTx(ctx context.Context, tx *gorm.DB, id uint64, settledAt time.Time) (bool, error)

	// Balances.
	GetBalance(ctx context.Context, userID, currency string) (*models.Balance, error)
	ApplyBalanceDeltaTx(ctx context.Context, tx *gorm.DB, userID, currency string, balanceDelta, availableDelta, lockedDelta decimal.Decimal) (bool, error)

	// Side-effect records.
	InsertNotificationTx(ctx context.Context, tx *gorm.DB, item *models.Notification) error
	InsertTradeExecution(ctx context.Context, item *models.TradeExecution) error
	ListTradeExecutions(ctx context.Context, params ListTradeExecutionsParams) ([]models.TradeExecution, error)
}

type ListSignalsParams struct {
	Status  *string
	Symbol  *string
	Limit   int
	Offset  int
	OrderBy string
	Asc     *bool
}

type ListTradeExecutionsParams struct {
	SignalID *uint64
	Limit    int
	Offset   int
}
