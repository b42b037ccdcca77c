package journal

import "testing"

func validTakenForm() TradeForm {
	return TradeForm{
		StrategyID:     "1",
		Taken:          "1",
		Direction:      "Long",
		Session:        "London",
		TradeTimestamp: "2026-03-02T09:30",
		EntryPrice:     "100",
		StopLossPrice:  "95",
		ExitPrice:      "110",
		RiskPercent:    "1",
		EntryCriteria:  []string{"1", "2", "3"},
	}
}

func TestValidateTradeAcceptsValidTaken(t *testing.T) {
	errs := ValidateTrade(validTakenForm(), 3)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateTradeMissingPrice(t *testing.T) {
	form := validTakenForm()
	form.StopLossPrice = ""
	errs := ValidateTrade(form, 3)
	if errs["stop_loss_price"] == "" {
		t.Fatalf("expected stop_loss_price error, got %v", errs)
	}
}

func TestValidateTradeNonNumericPrice(t *testing.T) {
	form := validTakenForm()
	form.EntryPrice = "abc"
	errs := ValidateTrade(form, 3)
	if errs["entry_price"] == "" {
		t.Fatalf("expected entry_price error, got %v", errs)
	}
}

func TestValidateTradeIncompleteChecklist(t *testing.T) {
	form := validTakenForm()
	form.EntryCriteria = []string{"1", "2"}
	errs := ValidateTrade(form, 3)
	if errs["entry_criteria"] == "" {
		t.Fatalf("expected entry_criteria error, got %v", errs)
	}
}

func TestValidateTradeMissedRequiresReason(t *testing.T) {
	form := TradeForm{
		StrategyID:     "1",
		Taken:          "0",
		Direction:      "Short",
		Session:        "Asia",
		TradeTimestamp: "2026-03-02T09:30",
	}
	errs := ValidateTrade(form, 3)
	if errs["missed_reason"] == "" {
		t.Fatalf("expected missed_reason error, got %v", errs)
	}

	form.MissedReason = "slept through the session"
	errs = ValidateTrade(form, 3)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateTradeMissedIgnoresPriceFields(t *testing.T) {
	form := TradeForm{
		StrategyID:     "1",
		Taken:          "0",
		MissedReason:   "no fill",
		Direction:      "Long",
		Session:        "All",
		TradeTimestamp: "2026-03-02T09:30",
		EntryPrice:     "not-a-number",
	}
	if errs := ValidateTrade(form, 3); len(errs) != 0 {
		t.Fatalf("missed trades must skip price validation, got %v", errs)
	}
}

func TestValidateTradeDirectionStopMismatch(t *testing.T) {
	form := validTakenForm()
	form.Direction = "Long"
	form.StopLossPrice = "105"
	form.ExitPrice = "90"
	errs := ValidateTrade(form, 3)
	if errs["direction"] == "" {
		t.Fatalf("expected direction error for long with stop above entry, got %v", errs)
	}

	form = validTakenForm()
	form.Direction = "Short"
	errs = ValidateTrade(form, 3)
	if errs["direction"] == "" {
		t.Fatalf("expected direction error for short with stop below entry, got %v", errs)
	}
}

func TestValidateTradeBadTimestamp(t *testing.T) {
	form := validTakenForm()
	form.TradeTimestamp = "02/03/2026"
	errs := ValidateTrade(form, 3)
	if errs["trade_timestamp"] == "" {
		t.Fatalf("expected trade_timestamp error, got %v", errs)
	}
}

func TestValidateStrategy(t *testing.T) {
	errs := ValidateStrategy(StrategyForm{})
	for _, field := range []string{"name", "instrument", "timeframes", "sessions"} {
		if errs[field] == "" {
			t.Fatalf("expected %s error, got %v", field, errs)
		}
	}

	errs = ValidateStrategy(StrategyForm{
		Name:       "London Open Breakout",
		Instrument: "EURUSD",
		Timeframes: []string{"M15"},
		Sessions:   []string{"London"},
	})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestToCommandTaken(t *testing.T) {
	form := validTakenForm()
	form.Invalidations = []string{"7", "bogus", "0"}
	cmd, err := form.ToCommand()
	if err != nil {
		t.Fatalf("ToCommand: %v", err)
	}
	if cmd.Missed != nil || cmd.Taken == nil {
		t.Fatalf("expected taken variant, got %+v", cmd)
	}
	if cmd.StrategyID != 1 {
		t.Fatalf("StrategyID = %d, want 1", cmd.StrategyID)
	}
	if got := cmd.TradeTimestamp.Format(TimestampLayout); got != "2026-03-02T09:30" {
		t.Fatalf("timestamp = %s", got)
	}
	if len(cmd.Taken.EntryCriteriaIDs) != 3 {
		t.Fatalf("entry criteria ids = %v", cmd.Taken.EntryCriteriaIDs)
	}
	// Unparseable and zero ids are dropped.
	if len(cmd.Taken.InvalidationIDs) != 1 || cmd.Taken.InvalidationIDs[0] != 7 {
		t.Fatalf("invalidation ids = %v", cmd.Taken.InvalidationIDs)
	}
}

func TestToCommandMissed(t *testing.T) {
	form := TradeForm{
		StrategyID:     "2",
		Taken:          "0",
		MissedReason:   "  news lockout  ",
		Direction:      "Short",
		Session:        "New York",
		TradeTimestamp: "2026-03-02T14:00",
	}
	cmd, err := form.ToCommand()
	if err != nil {
		t.Fatalf("ToCommand: %v", err)
	}
	if cmd.Taken != nil || cmd.Missed == nil {
		t.Fatalf("expected missed variant, got %+v", cmd)
	}
	if cmd.Missed.Reason != "news lockout" {
		t.Fatalf("missed reason = %q", cmd.Missed.Reason)
	}
}

func TestInvalidationCode(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 2: "C", 25: "Z", 26: "", -1: ""}
	for idx, want := range cases {
		if got := InvalidationCode(idx); got != want {
			t.Fatalf("InvalidationCode(%d) = %q, want %q", idx, got, want)
		}
	}
}

func TestStrategyFormItemsDropBlankLabels(t *testing.T) {
	form := StrategyForm{
		InvalidationLabels:  []string{"Swept liquidity", "   ", "Closed above EMA"},
		InvalidationReasons: []string{"stop hunt", "ignored", "trend flip"},
	}
	items := form.InvalidationItems()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", items)
	}
	if items[0].Label != "Swept liquidity" || items[1].Detail != "trend flip" {
		t.Fatalf("unexpected items %v", items)
	}
}
