package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is one user's funds in one currency. The intended invariant is
// balance == available_balance + locked_balance; settlement and expiry
// moves keep it by shifting exactly the participant's investment between
// the locked and available buckets. LockedBalance never goes below zero
// even if prior drift left it short.
type Balance struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	UserID   string `gorm:"type:varchar(100);not null;uniqueIndex:idx_balances_user_currency"`
	Currency string `gorm:"type:varchar(10);not null;default:'USD';uniqueIndex:idx_balances_user_currency"`

	Balance          decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	AvailableBalance decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	LockedBalance    decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Balance) TableName() string {
	return "balances"
}
