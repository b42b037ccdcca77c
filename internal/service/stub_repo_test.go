package service

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// stubRepo is an in-memory Repository for service tests. InTx runs the
// callback directly; transactional rollback is the database's job and is
// not simulated here.
type stubRepo struct {
	nextStrategyID uint64
	nextTradeID    uint64

	strategies    map[uint64]*models.Strategy
	entryCriteria map[uint64][]models.EntryCriterion
	exitCriteria  map[uint64][]models.ExitCriterion
	invalidations map[uint64][]models.Invalidation

	trades           []models.Trade
	checklistLogs    []models.TradeChecklistLog
	invalidationLogs []models.TradeInvalidationLog
	screenshots      []models.TradeScreenshot
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		strategies:    map[uint64]*models.Strategy{},
		entryCriteria: map[uint64][]models.EntryCriterion{},
		exitCriteria:  map[uint64][]models.ExitCriterion{},
		invalidations: map[uint64][]models.Invalidation{},
	}
}

var _ repository.Repository = (*stubRepo)(nil)

func (r *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (r *stubRepo) ListStrategies(ctx context.Context) ([]models.Strategy, error) {
	out := make([]models.Strategy, 0, len(r.strategies))
	for _, s := range r.strategies {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (r *stubRepo) GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error) {
	s, ok := r.strategies[id]
	if !ok {
		return nil, nil
	}
	out := *s
	out.EntryCriteria = append([]models.EntryCriterion(nil), r.entryCriteria[id]...)
	out.ExitCriteria = append([]models.ExitCriterion(nil), r.exitCriteria[id]...)
	out.Invalidations = append([]models.Invalidation(nil), r.invalidations[id]...)
	return &out, nil
}

func (r *stubRepo) CountEntryCriteria(ctx context.Context, strategyID uint64) (int64, error) {
	return int64(len(r.entryCriteria[strategyID])), nil
}

func (r *stubRepo) CreateStrategyTx(ctx context.Context, tx *gorm.DB, item *models.Strategy) error {
	r.nextStrategyID++
	item.ID = r.nextStrategyID
	cp := *item
	r.strategies[item.ID] = &cp
	return nil
}

func (r *stubRepo) UpdateStrategyTx(ctx context.Context, tx *gorm.DB, item *models.Strategy) error {
	cp := *item
	r.strategies[item.ID] = &cp
	return nil
}

func (r *stubRepo) ReplaceStrategyChildrenTx(ctx context.Context, tx *gorm.DB, strategyID uint64,
	entry []models.EntryCriterion, exit []models.ExitCriterion, invalidations []models.Invalidation) error {
	r.entryCriteria[strategyID] = entry
	r.exitCriteria[strategyID] = exit
	r.invalidations[strategyID] = invalidations
	return nil
}

func (r *stubRepo) DeleteStrategyCascadeTx(ctx context.Context, tx *gorm.DB, strategyID uint64) error {
	doomed := map[uint64]bool{}
	kept := r.trades[:0]
	for _, t := range r.trades {
		if t.StrategyID == strategyID {
			doomed[t.ID] = true
			continue
		}
		kept = append(kept, t)
	}
	r.trades = kept

	keptChecklist := r.checklistLogs[:0]
	for _, l := range r.checklistLogs {
		if !doomed[l.TradeID] {
			keptChecklist = append(keptChecklist, l)
		}
	}
	r.checklistLogs = keptChecklist

	keptInvalidations := r.invalidationLogs[:0]
	for _, l := range r.invalidationLogs {
		if !doomed[l.TradeID] {
			keptInvalidations = append(keptInvalidations, l)
		}
	}
	r.invalidationLogs = keptInvalidations

	keptShots := r.screenshots[:0]
	for _, s := range r.screenshots {
		if !doomed[s.TradeID] {
			keptShots = append(keptShots, s)
		}
	}
	r.screenshots = keptShots

	delete(r.strategies, strategyID)
	delete(r.entryCriteria, strategyID)
	delete(r.exitCriteria, strategyID)
	delete(r.invalidations, strategyID)
	return nil
}

func (r *stubRepo) InsertTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error {
	r.nextTradeID++
	item.ID = r.nextTradeID
	r.trades = append(r.trades, *item)
	return nil
}

func (r *stubRepo) InsertChecklistLogsTx(ctx context.Context, tx *gorm.DB, items []models.TradeChecklistLog) error {
	r.checklistLogs = append(r.checklistLogs, items...)
	return nil
}

func (r *stubRepo) InsertInvalidationLogsTx(ctx context.Context, tx *gorm.DB, items []models.TradeInvalidationLog) error {
	r.invalidationLogs = append(r.invalidationLogs, items...)
	return nil
}

func (r *stubRepo) InsertScreenshotTx(ctx context.Context, tx *gorm.DB, item *models.TradeScreenshot) error {
	r.screenshots = append(r.screenshots, *item)
	return nil
}

func (r *stubRepo) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]repository.TradeWithStrategy, error) {
	out := []repository.TradeWithStrategy{}
	for _, t := range r.trades {
		if params.StrategyID != nil && t.StrategyID != *params.StrategyID {
			continue
		}
		if params.Taken != nil && t.Taken != *params.Taken {
			continue
		}
		row := repository.TradeWithStrategy{Trade: t}
		if s, ok := r.strategies[t.StrategyID]; ok {
			row.StrategyName = s.Name
			row.Instrument = s.Instrument
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if params.Asc {
			return out[i].TradeTimestamp.Before(out[j].TradeTimestamp)
		}
		return out[j].TradeTimestamp.Before(out[i].TradeTimestamp)
	})
	return out, nil
}

func (r *stubRepo) ListScreenshotsByTradeIDs(ctx context.Context, tradeIDs []uint64) ([]models.TradeScreenshot, error) {
	want := map[uint64]bool{}
	for _, id := range tradeIDs {
		want[id] = true
	}
	out := []models.TradeScreenshot{}
	for _, s := range r.screenshots {
		if want[s.TradeID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubRepo) ListScreenshotPaths(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(r.screenshots))
	for _, s := range r.screenshots {
		out = append(out, s.ImagePath)
	}
	return out, nil
}

func listAll() repository.ListTradesParams {
	return repository.ListTradesParams{}
}

// seedStrategy adds a strategy with n entry criteria and returns its ID.
func (r *stubRepo) seedStrategy(name string, entryCriteria int) uint64 {
	r.nextStrategyID++
	id := r.nextStrategyID
	r.strategies[id] = &models.Strategy{ID: id, Name: name, Instrument: "EURUSD"}
	for i := 0; i < entryCriteria; i++ {
		r.entryCriteria[id] = append(r.entryCriteria[id], models.EntryCriterion{
			ID: uint64(i + 1), StrategyID: id, Label: "criterion", SortOrder: i,
		})
	}
	return id
}
