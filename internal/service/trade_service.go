package service

import (
	"context"
	"errors"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradejournal/internal/journal"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// ErrStrategyNotFound distinguishes a missing-strategy precondition from a
// plain storage failure; handlers surface it with a specific message.
var ErrStrategyNotFound = errors.New("strategy not found")

// TradeService runs the trade submission workflow: one transaction covering
// the trade row, its checklist and invalidation rows, and the screenshot
// reference rows. Screenshot files themselves are written outside the
// transaction and are best-effort; a rejected file is skipped, never fatal.
type TradeService struct {
	Repo        repository.Repository
	Screenshots *ScreenshotService
	Logger      *zap.Logger
}

// Submit persists a validated trade command. Returns the new trade ID.
func (s *TradeService) Submit(ctx context.Context, cmd journal.TradeCommand, files []*multipart.FileHeader) (uint64, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("trade service not configured")
	}

	strategy, err := s.Repo.GetStrategyByID(ctx, cmd.StrategyID)
	if err != nil {
		return 0, err
	}
	if strategy == nil {
		return 0, ErrStrategyNotFound
	}

	trade := buildTrade(cmd)

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.InsertTradeTx(ctx, tx, trade); err != nil {
			return err
		}

		if cmd.Taken != nil {
			var checklist []models.TradeChecklistLog
			for _, id := range cmd.Taken.EntryCriteriaIDs {
				checklist = append(checklist, models.TradeChecklistLog{
					TradeID: trade.ID, ChecklistType: "entry", CriterionID: id, Checked: true,
				})
			}
			for _, id := range cmd.Taken.ExitCriteriaIDs {
				checklist = append(checklist, models.TradeChecklistLog{
					TradeID: trade.ID, ChecklistType: "exit", CriterionID: id, Checked: true,
				})
			}
			if err := s.Repo.InsertChecklistLogsTx(ctx, tx, checklist); err != nil {
				return err
			}

			var invalidations []models.TradeInvalidationLog
			for _, id := range cmd.Taken.InvalidationIDs {
				invalidations = append(invalidations, models.TradeInvalidationLog{
					TradeID: trade.ID, InvalidationID: id, Active: true,
				})
			}
			if err := s.Repo.InsertInvalidationLogsTx(ctx, tx, invalidations); err != nil {
				return err
			}
		}

		for _, fh := range files {
			if s.Screenshots == nil {
				break
			}
			name, err := s.Screenshots.Store(fh, trade.ID)
			if err != nil {
				if s.Logger != nil {
					s.Logger.Warn("screenshot rejected",
						zap.Uint64("trade_id", trade.ID),
						zap.String("filename", fh.Filename),
						zap.Error(err),
					)
				}
				continue
			}
			item := &models.TradeScreenshot{TradeID: trade.ID, ImagePath: name}
			if err := s.Repo.InsertScreenshotTx(ctx, tx, item); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}
	return trade.ID, nil
}

func buildTrade(cmd journal.TradeCommand) *models.Trade {
	trade := &models.Trade{
		StrategyID:     cmd.StrategyID,
		Direction:      cmd.Direction,
		Session:        cmd.Session,
		Bias:           cmd.Bias,
		TradeTimestamp: cmd.TradeTimestamp,
		Reason:         cmd.Reason,
		EmotionalNotes: cmd.EmotionalNotes,
	}

	if cmd.Taken != nil {
		t := cmd.Taken
		trade.Taken = true
		entry, stop, exit, risk := t.EntryPrice, t.StopLossPrice, t.ExitPrice, t.RiskPercent
		trade.EntryPrice = &entry
		trade.StopLossPrice = &stop
		trade.ExitPrice = &exit
		trade.RiskPercent = &risk
		trade.RMultiple = journal.RMultiple(entry, stop, exit)
	} else if cmd.Missed != nil {
		trade.MissedReason = cmd.Missed.Reason
	}

	return trade
}
