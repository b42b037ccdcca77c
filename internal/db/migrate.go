package db

import (
	"tradejournal/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Strategy{},
		&models.EntryCriterion{},
		&models.ExitCriterion{},
		&models.Invalidation{},
		&models.Trade{},
		&models.TradeChecklistLog{},
		&models.TradeInvalidationLog{},
		&models.TradeScreenshot{},
	)
}
