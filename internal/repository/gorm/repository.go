package gormrepository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Strategies -------------------------------------------------------------

func (s *Store) ListStrategies(ctx context.Context) ([]models.Strategy, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Strategy
	if err := s.db.WithContext(ctx).
		Model(&models.Strategy{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Strategy
	err := s.db.WithContext(ctx).
		Preload("EntryCriteria", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc") }).
		Preload("ExitCriteria", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc") }).
		Preload("Invalidations", func(db *gorm.DB) *gorm.DB { return db.Order("code asc") }).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CountEntryCriteria(ctx context.Context, strategyID uint64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.EntryCriterion{}).
		Where("strategy_id = ?", strategyID).
		Count(&count).Error
	return count, err
}

func (s *Store) CreateStrategyTx(ctx context.Context, tx *gorm.DB, item *models.Strategy) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Omit("EntryCriteria", "ExitCriteria", "Invalidations").Create(item).Error
}

func (s *Store) UpdateStrategyTx(ctx context.Context, tx *gorm.DB, item *models.Strategy) error {
	if tx == nil || item == nil || item.ID == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.Strategy{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":            item.Name,
			"instrument":      item.Instrument,
			"timeframes":      item.Timeframes,
			"sessions":        item.Sessions,
			"chart_image_url": item.ChartImageURL,
		}).Error
}

// ReplaceStrategyChildrenTx implements the full-replace semantics of a
// strategy save: existing criteria and invalidations are dropped and the
// submitted collections reinserted in order.
func (s *Store) ReplaceStrategyChildrenTx(ctx context.Context, tx *gorm.DB, strategyID uint64,
	entry []models.EntryCriterion, exit []models.ExitCriterion, invalidations []models.Invalidation) error {
	if tx == nil || strategyID == 0 {
		return nil
	}
	db := tx.WithContext(ctx)
	if err := db.Where("strategy_id = ?", strategyID).Delete(&models.EntryCriterion{}).Error; err != nil {
		return err
	}
	if err := db.Where("strategy_id = ?", strategyID).Delete(&models.ExitCriterion{}).Error; err != nil {
		return err
	}
	if err := db.Where("strategy_id = ?", strategyID).Delete(&models.Invalidation{}).Error; err != nil {
		return err
	}
	if len(entry) > 0 {
		if err := db.Create(&entry).Error; err != nil {
			return err
		}
	}
	if len(exit) > 0 {
		if err := db.Create(&exit).Error; err != nil {
			return err
		}
	}
	if len(invalidations) > 0 {
		if err := db.Create(&invalidations).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteStrategyCascadeTx removes a strategy and everything hanging off it:
// trades (with their checklist, invalidation and screenshot rows), criteria
// and invalidations. The schema-level CASCADE constraints back this up, but
// the cascade is spelled out so the behavior does not depend on how the
// storage engine was provisioned.
func (s *Store) DeleteStrategyCascadeTx(ctx context.Context, tx *gorm.DB, strategyID uint64) error {
	if tx == nil || strategyID == 0 {
		return nil
	}
	db := tx.WithContext(ctx)

	var tradeIDs []uint64
	if err := db.Model(&models.Trade{}).
		Where("strategy_id = ?", strategyID).
		Pluck("id", &tradeIDs).Error; err != nil {
		return err
	}
	if len(tradeIDs) > 0 {
		if err := db.Where("trade_id IN ?", tradeIDs).Delete(&models.TradeChecklistLog{}).Error; err != nil {
			return err
		}
		if err := db.Where("trade_id IN ?", tradeIDs).Delete(&models.TradeInvalidationLog{}).Error; err != nil {
			return err
		}
		if err := db.Where("trade_id IN ?", tradeIDs).Delete(&models.TradeScreenshot{}).Error; err != nil {
			return err
		}
		if err := db.Where("strategy_id = ?", strategyID).Delete(&models.Trade{}).Error; err != nil {
			return err
		}
	}
	if err := db.Where("strategy_id = ?", strategyID).Delete(&models.EntryCriterion{}).Error; err != nil {
		return err
	}
	if err := db.Where("strategy_id = ?", strategyID).Delete(&models.ExitCriterion{}).Error; err != nil {
		return err
	}
	if err := db.Where("strategy_id = ?", strategyID).Delete(&models.Invalidation{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Strategy{}, "id = ?", strategyID).Error
}

// --- Trades -----------------------------------------------------------------

func (s *Store) InsertTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).
		Omit("ChecklistLogs", "InvalidationLogs", "Screenshots").
		Create(item).Error
}

func (s *Store) InsertChecklistLogsTx(ctx context.Context, tx *gorm.DB, items []models.TradeChecklistLog) error {
	if tx == nil || len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (s *Store) InsertInvalidationLogsTx(ctx context.Context, tx *gorm.DB, items []models.TradeInvalidationLog) error {
	if tx == nil || len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (s *Store) InsertScreenshotTx(ctx context.Context, tx *gorm.DB, item *models.TradeScreenshot) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]repository.TradeWithStrategy, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Select("trades.*, strategies.name AS strategy_name, strategies.instrument AS instrument").
		Joins("JOIN strategies ON strategies.id = trades.strategy_id")
	if params.StrategyID != nil && *params.StrategyID != 0 {
		query = query.Where("trades.strategy_id = ?", *params.StrategyID)
	}
	if params.Taken != nil {
		query = query.Where("trades.taken = ?", *params.Taken)
	}
	direction := "desc"
	if params.Asc {
		direction = "asc"
	}
	var items []repository.TradeWithStrategy
	if err := query.Order("trades.trade_timestamp " + direction).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListScreenshotsByTradeIDs(ctx context.Context, tradeIDs []uint64) ([]models.TradeScreenshot, error) {
	if s == nil || s.db == nil || len(tradeIDs) == 0 {
		return nil, nil
	}
	var items []models.TradeScreenshot
	if err := s.db.WithContext(ctx).
		Where("trade_id IN ?", tradeIDs).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListScreenshotPaths(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var paths []string
	if err := s.db.WithContext(ctx).
		Model(&models.TradeScreenshot{}).
		Pluck("image_path", &paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}
