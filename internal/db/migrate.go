package db

import (
	"tradesignals/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.TradeSignal{},
		&models.SignalParticipant{},
		&models.Balance{},
		&models.Notification{},
		&models.TradeExecution{},
	)
}
