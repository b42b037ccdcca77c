package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradejournal/internal/journal"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// StrategyService owns the strategy lifecycle: create-or-update with full
// replacement of the child collections, and explicit cascading delete.
type StrategyService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// Save creates (id == 0) or updates a strategy from a validated form. The
// child collections are fully replaced in submitted order; invalidation
// codes are reassigned as A, B, C, ... over the surviving rows on every
// save, regardless of any previously stored codes.
func (s *StrategyService) Save(ctx context.Context, id uint64, form journal.StrategyForm) (uint64, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("strategy service not configured")
	}

	timeframes, err := json.Marshal(cleanStrings(form.Timeframes))
	if err != nil {
		return 0, err
	}
	sessions, err := json.Marshal(cleanStrings(form.Sessions))
	if err != nil {
		return 0, err
	}

	item := &models.Strategy{
		ID:            id,
		Name:          strings.TrimSpace(form.Name),
		Instrument:    strings.TrimSpace(form.Instrument),
		Timeframes:    datatypes.JSON(timeframes),
		Sessions:      datatypes.JSON(sessions),
		ChartImageURL: strings.TrimSpace(form.ChartImageURL),
	}

	if id != 0 {
		existing, err := s.Repo.GetStrategyByID(ctx, id)
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return 0, ErrStrategyNotFound
		}
	}

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if id == 0 {
			if err := s.Repo.CreateStrategyTx(ctx, tx, item); err != nil {
				return err
			}
		} else {
			if err := s.Repo.UpdateStrategyTx(ctx, tx, item); err != nil {
				return err
			}
		}

		var entry []models.EntryCriterion
		for i, c := range form.EntryCriteriaItems() {
			entry = append(entry, models.EntryCriterion{
				StrategyID: item.ID, Label: c.Label, Description: c.Detail, SortOrder: i,
			})
		}
		var exit []models.ExitCriterion
		for i, c := range form.ExitCriteriaItems() {
			exit = append(exit, models.ExitCriterion{
				StrategyID: item.ID, Label: c.Label, Description: c.Detail, SortOrder: i,
			})
		}
		var invalidations []models.Invalidation
		for i, c := range form.InvalidationItems() {
			invalidations = append(invalidations, models.Invalidation{
				StrategyID: item.ID, Label: c.Label, Reason: c.Detail,
				Code: journal.InvalidationCode(i),
			})
		}

		return s.Repo.ReplaceStrategyChildrenTx(ctx, tx, item.ID, entry, exit, invalidations)
	})
	if err != nil {
		return 0, err
	}

	if s.Logger != nil {
		s.Logger.Info("strategy saved",
			zap.Uint64("strategy_id", item.ID),
			zap.String("name", item.Name),
			zap.Bool("created", id == 0),
		)
	}
	return item.ID, nil
}

// Delete removes a strategy and cascades to its criteria, invalidations and
// trades in one transaction. Screenshot files belonging to deleted trades
// stay on disk until the orphan sweep collects them.
func (s *StrategyService) Delete(ctx context.Context, id uint64) error {
	if s == nil || s.Repo == nil {
		return errors.New("strategy service not configured")
	}

	existing, err := s.Repo.GetStrategyByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrStrategyNotFound
	}

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		return s.Repo.DeleteStrategyCascadeTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("strategy deleted", zap.Uint64("strategy_id", id))
	}
	return nil
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, item := range items {
		val := strings.TrimSpace(item)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}
