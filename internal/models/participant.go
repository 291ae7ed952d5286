package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignalParticipant is one user's stake in one signal. Rows are created
// when a user joins an open signal (outside this service) and are mutated
// exactly once afterwards: by the settlement executor (-> settled) or by
// the expiry sweeper (-> cancelled). SettledAt is null exactly while the
// row is pending.
type SignalParticipant struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	SignalID uint64 `gorm:"not null;index"`
	UserID   string `gorm:"type:varchar(100);not null;index"`
	Currency string `gorm:"type:varchar(10);not null;default:'USD'"`

	InvestmentAmount decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	EntryBalance     decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	// Use explicit column names because default GORM naming mangles "PL".
	ProfitLossAmount  *decimal.Decimal `gorm:"column:profit_loss_amount;type:numeric(30,10)"`
	ProfitLossPercent *decimal.Decimal `gorm:"column:profit_loss_percent;type:numeric(20,10)"`
	FinalBalance      *decimal.Decimal `gorm:"type:numeric(30,10)"`

	Status    string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	SettledAt *time.Time `gorm:"type:timestamptz;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SignalParticipant) TableName() string {
	return "signal_participants"
}

const (
	ParticipantStatusPending   = "pending"
	ParticipantStatusSettled   = "settled"
	ParticipantStatusCancelled = "cancelled"
)
