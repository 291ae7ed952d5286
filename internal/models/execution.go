package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TradeExecution is the append-only audit row written once per settlement
// call. Never mutated or deleted.
type TradeExecution struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Reference string `gorm:"type:varchar(36);not null;uniqueIndex"` // uuid per call
	SignalID  uint64 `gorm:"not null;index"`

	ParticipantCount int             `gorm:"not null;default:0"`
	TotalVolume      decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	Outcome          string          `gorm:"type:varchar(10)"`
	Multiplier       decimal.Decimal `gorm:"type:numeric(20,10);not null;default:0"`
	Forced           bool            `gorm:"not null;default:false"`

	Detail datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (TradeExecution) TableName() string {
	return "trade_executions"
}
