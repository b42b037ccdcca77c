package journal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Directions and sessions accepted on trade submission.
var (
	Directions = []string{"Long", "Short"}
	Sessions   = []string{"Asia", "London", "New York", "All"}

	// Timeframes and sessions offered on the strategy form.
	StrategyTimeframes = []string{"M1", "M5", "M15", "M30", "H1", "H4", "D1", "W1", "MN"}
	StrategySessions   = []string{"Asia", "London", "New York"}
)

// TimestampLayout is the format the date-time form input submits.
const TimestampLayout = "2006-01-02T15:04"

// TradeForm carries the raw trade-submission fields exactly as posted.
// Validation happens on this type; a valid form converts to a TradeCommand.
type TradeForm struct {
	StrategyID     string   `form:"strategy_id"`
	Taken          string   `form:"taken"`
	MissedReason   string   `form:"missed_reason"`
	Direction      string   `form:"direction"`
	Session        string   `form:"session"`
	Bias           string   `form:"bias"`
	TradeTimestamp string   `form:"trade_timestamp"`
	EntryPrice     string   `form:"entry_price"`
	StopLossPrice  string   `form:"stop_loss_price"`
	ExitPrice      string   `form:"exit_price"`
	RiskPercent    string   `form:"risk_percent"`
	Reason         string   `form:"reason"`
	EmotionalNotes string   `form:"emotional_notes"`
	EntryCriteria  []string `form:"entry_criteria"`
	ExitCriteria   []string `form:"exit_criteria"`
	Invalidations  []string `form:"invalidations"`
}

// IsTaken reports whether the form describes an executed trade.
func (f TradeForm) IsTaken() bool {
	return f.Taken == "1"
}

// TradeCommand is a validated trade submission. Exactly one of Taken or
// Missed is set, so the conditionally-required fields live on the variant
// that owns them instead of as nullable sentinels.
type TradeCommand struct {
	StrategyID     uint64
	Direction      string
	Session        string
	Bias           string
	TradeTimestamp time.Time
	Reason         string
	EmotionalNotes string

	Taken  *TakenTrade
	Missed *MissedTrade
}

type TakenTrade struct {
	EntryPrice    decimal.Decimal
	StopLossPrice decimal.Decimal
	ExitPrice     decimal.Decimal
	RiskPercent   decimal.Decimal

	EntryCriteriaIDs []uint64
	ExitCriteriaIDs  []uint64
	InvalidationIDs  []uint64
}

type MissedTrade struct {
	Reason string
}

// StrategyForm carries the raw strategy-management fields. The three child
// collections arrive as parallel label/detail arrays in submitted order.
type StrategyForm struct {
	Name          string   `form:"name"`
	Instrument    string   `form:"instrument"`
	Timeframes    []string `form:"timeframes"`
	Sessions      []string `form:"sessions"`
	ChartImageURL string   `form:"chart_image_url"`

	EntryCriteriaLabels       []string `form:"entry_criteria_label"`
	EntryCriteriaDescriptions []string `form:"entry_criteria_description"`
	ExitCriteriaLabels        []string `form:"exit_criteria_label"`
	ExitCriteriaDescriptions  []string `form:"exit_criteria_description"`
	InvalidationLabels        []string `form:"invalidation_label"`
	InvalidationReasons       []string `form:"invalidation_reason"`
}

// ChecklistItem is one submitted child row of a strategy form.
type ChecklistItem struct {
	Label  string
	Detail string
}

// zipItems pairs parallel label/detail arrays, dropping blank-label rows.
func zipItems(labels, details []string) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(labels))
	for i, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		detail := ""
		if i < len(details) {
			detail = strings.TrimSpace(details[i])
		}
		items = append(items, ChecklistItem{Label: label, Detail: detail})
	}
	return items
}

// EntryCriteriaItems returns the non-blank entry criteria in submitted order.
func (f StrategyForm) EntryCriteriaItems() []ChecklistItem {
	return zipItems(f.EntryCriteriaLabels, f.EntryCriteriaDescriptions)
}

func (f StrategyForm) ExitCriteriaItems() []ChecklistItem {
	return zipItems(f.ExitCriteriaLabels, f.ExitCriteriaDescriptions)
}

func (f StrategyForm) InvalidationItems() []ChecklistItem {
	return zipItems(f.InvalidationLabels, f.InvalidationReasons)
}

// InvalidationCode derives the sequential letter code for the invalidation
// at the given position among surviving rows: A, B, ..., Z.
func InvalidationCode(index int) string {
	if index < 0 || index > 25 {
		return ""
	}
	return string(rune('A' + index))
}
