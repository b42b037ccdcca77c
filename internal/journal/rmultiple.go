package journal

import (
	"github.com/shopspring/decimal"
)

// RMultiple returns the realized reward-to-risk ratio of a closed trade,
// rounded to two decimal places, or nil when entry equals stop (zero risk
// distance, ratio undefined).
//
// Orientation is derived from the stop's position relative to entry: with
// the stop below entry the reward is exit-entry, with the stop above it is
// entry-exit. The declared trade direction never enters the formula.
func RMultiple(entry, stop, exit decimal.Decimal) *decimal.Decimal {
	if entry.Equal(stop) {
		return nil
	}

	risk := entry.Sub(stop).Abs()
	reward := exit.Sub(entry)
	if stop.GreaterThan(entry) {
		reward = entry.Sub(exit)
	}

	r := reward.Div(risk).Round(2)
	return &r
}
