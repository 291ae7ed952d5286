package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSignal is an admin-authored proposed trade that users join with
// locked funds during its open window.
//
// Status moves strictly forward: created -> active -> executing -> executed,
// or created/active -> expired. "executing" is the claim state taken by a
// settlement call before it touches any participant; it makes the claim
// observable and keeps a second caller out.
type TradeSignal struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	Symbol string `gorm:"type:varchar(50);not null;index"`

	Direction      string          `gorm:"type:varchar(10);not null"` // buy|sell
	StopLossPct    decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	TakeProfitPct  decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	WinProbability float64         `gorm:"not null"`

	Status               string     `gorm:"type:varchar(20);not null;default:'created';index"`
	TimerStartAt         *time.Time `gorm:"type:timestamptz"`
	ExecuteAt            *time.Time `gorm:"type:timestamptz;index"`
	ExpireAt             *time.Time `gorm:"type:timestamptz;index"`
	TimerDurationMinutes int        `gorm:"not null;default:0"`

	ExecutedAt *time.Time `gorm:"type:timestamptz"`
	Outcome    string     `gorm:"type:varchar(10)"` // profit|loss, set on execution

	CreatedBy string    `gorm:"type:varchar(100);index"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (TradeSignal) TableName() string {
	return "trade_signals"
}

const (
	SignalStatusCreated   = "created"
	SignalStatusOpen      = "open" // legacy alias of created/active, still accepted
	SignalStatusActive    = "active"
	SignalStatusExecuting = "executing"
	SignalStatusExecuted  = "executed"
	SignalStatusExpired   = "expired"
	SignalStatusCancelled = "cancelled"
)
