package repository

import (
	"context"

	"gorm.io/gorm"

	"tradejournal/internal/models"
)

// ListTradesParams filters the trade-history listing. Nil filters are
// ignored. Results are ordered by trade timestamp, descending unless Asc.
type ListTradesParams struct {
	StrategyID *uint64
	Taken      *bool
	Asc        bool
}

// TradeWithStrategy is a trade row joined with its strategy's identity,
// as the history and analytics pages consume it.
type TradeWithStrategy struct {
	models.Trade
	StrategyName string
	Instrument   string
}

// Repository is the persistence surface of the journal. Write paths that
// must be atomic take an open transaction from InTx; everything else runs
// on the shared connection.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Strategies.
	ListStrategies(ctx context.Context) ([]models.Strategy, error)
	GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error)
	CountEntryCriteria(ctx context.Context, strategyID uint64) (int64, error)
	CreateStrategyTx(ctx context.Context, tx *gorm.DB, item *models.Strategy) error
	UpdateStrategyTx(ctx context.Context, tx *gorm.DB, item *models.Strategy) error
	ReplaceStrategyChildrenTx(ctx context.Context, tx *gorm.DB, strategyID uint64,
		entry []models.EntryCriterion, exit []models.ExitCriterion, invalidations []models.Invalidation) error
	DeleteStrategyCascadeTx(ctx context.Context, tx *gorm.DB, strategyID uint64) error

	// Trades. Trade rows are insert-only.
	InsertTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error
	InsertChecklistLogsTx(ctx context.Context, tx *gorm.DB, items []models.TradeChecklistLog) error
	InsertInvalidationLogsTx(ctx context.Context, tx *gorm.DB, items []models.TradeInvalidationLog) error
	InsertScreenshotTx(ctx context.Context, tx *gorm.DB, item *models.TradeScreenshot) error
	ListTrades(ctx context.Context, params ListTradesParams) ([]TradeWithStrategy, error)
	ListScreenshotsByTradeIDs(ctx context.Context, tradeIDs []uint64) ([]models.TradeScreenshot, error)

	// Screenshot references for the orphan sweep.
	ListScreenshotPaths(ctx context.Context) ([]string, error)
}
