package journal

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidateTrade checks a raw trade form against the owning strategy's entry
// criteria count and returns field-name -> message for everything wrong.
// An empty map means the form is valid.
//
// For a taken trade every price field must be present and numeric, every
// entry criterion must be checked, and the declared direction must agree
// with the stop's position relative to entry (Long wants the stop below,
// Short above). A missed trade only needs a reason; price and checklist
// fields are ignored even if present.
func ValidateTrade(form TradeForm, entryCriteriaCount int) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(form.StrategyID) == "" {
		errs["strategy_id"] = "Strategy must be selected"
	}
	if !contains(Directions, form.Direction) {
		errs["direction"] = "Direction must be selected"
	}
	if !contains(Sessions, form.Session) {
		errs["session"] = "Session must be selected"
	}
	if strings.TrimSpace(form.TradeTimestamp) == "" {
		errs["trade_timestamp"] = "Trade time is required"
	} else if _, err := time.Parse(TimestampLayout, form.TradeTimestamp); err != nil {
		errs["trade_timestamp"] = "Trade time must be a valid date and time"
	}

	if !form.IsTaken() {
		if strings.TrimSpace(form.MissedReason) == "" {
			errs["missed_reason"] = "Reason for missing the trade is required"
		}
		return errs
	}

	entry, ok := parsePrice(form.EntryPrice)
	if !ok {
		errs["entry_price"] = "Valid entry price is required"
	}
	stop, ok := parsePrice(form.StopLossPrice)
	if !ok {
		errs["stop_loss_price"] = "Valid stop loss price is required"
	}
	if _, ok := parsePrice(form.ExitPrice); !ok {
		errs["exit_price"] = "Valid exit price is required"
	}
	if _, ok := parsePrice(form.RiskPercent); !ok {
		errs["risk_percent"] = "Risk percentage is required"
	}

	if len(form.EntryCriteria) < entryCriteriaCount {
		errs["entry_criteria"] = "All entry criteria must be checked before logging a trade"
	}

	// Reconcile the declared direction with the stop placement. Skipped for
	// the degenerate entry == stop case, which yields no R-multiple anyway.
	if _, hasEntryErr := errs["entry_price"]; !hasEntryErr {
		if _, hasStopErr := errs["stop_loss_price"]; !hasStopErr && !entry.Equal(stop) {
			stopBelow := stop.LessThan(entry)
			if form.Direction == "Long" && !stopBelow {
				errs["direction"] = "A long trade needs its stop below the entry price"
			}
			if form.Direction == "Short" && stopBelow {
				errs["direction"] = "A short trade needs its stop above the entry price"
			}
		}
	}

	return errs
}

// ValidateStrategy checks a strategy form. Child collections are allowed to
// be empty; only the strategy's own identity fields are required.
func ValidateStrategy(form StrategyForm) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(form.Name) == "" {
		errs["name"] = "Strategy name is required"
	}
	if strings.TrimSpace(form.Instrument) == "" {
		errs["instrument"] = "Instrument is required"
	}
	if len(form.Timeframes) == 0 {
		errs["timeframes"] = "At least one timeframe must be selected"
	}
	if len(form.Sessions) == 0 {
		errs["sessions"] = "At least one session must be selected"
	}

	return errs
}

// ToCommand converts a form that has already passed ValidateTrade into a
// typed command. The returned command has exactly one of Taken/Missed set.
func (f TradeForm) ToCommand() (TradeCommand, error) {
	strategyID, err := strconv.ParseUint(strings.TrimSpace(f.StrategyID), 10, 64)
	if err != nil {
		return TradeCommand{}, err
	}
	ts, err := time.Parse(TimestampLayout, f.TradeTimestamp)
	if err != nil {
		return TradeCommand{}, err
	}

	cmd := TradeCommand{
		StrategyID:     strategyID,
		Direction:      f.Direction,
		Session:        f.Session,
		Bias:           strings.TrimSpace(f.Bias),
		TradeTimestamp: ts.UTC(),
		Reason:         strings.TrimSpace(f.Reason),
		EmotionalNotes: strings.TrimSpace(f.EmotionalNotes),
	}

	if !f.IsTaken() {
		cmd.Missed = &MissedTrade{Reason: strings.TrimSpace(f.MissedReason)}
		return cmd, nil
	}

	entry, _ := parsePrice(f.EntryPrice)
	stop, _ := parsePrice(f.StopLossPrice)
	exit, _ := parsePrice(f.ExitPrice)
	risk, _ := parsePrice(f.RiskPercent)

	cmd.Taken = &TakenTrade{
		EntryPrice:       entry,
		StopLossPrice:    stop,
		ExitPrice:        exit,
		RiskPercent:      risk,
		EntryCriteriaIDs: parseIDs(f.EntryCriteria),
		ExitCriteriaIDs:  parseIDs(f.ExitCriteria),
		InvalidationIDs:  parseIDs(f.Invalidations),
	}
	return cmd, nil
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseIDs(raw []string) []uint64 {
	ids := make([]uint64, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
