package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRow is one trade joined with its strategy's name and instrument,
// as loaded for the analytics page. Rows must be ordered by trade
// timestamp ascending; the aggregator preserves that order for the
// equity curve and the per-strategy rollup.
type TradeRow struct {
	TradeID      uint64
	StrategyID   uint64
	StrategyName string
	Instrument   string
	Taken        bool
	RMultiple    *decimal.Decimal
	Timestamp    time.Time
}

// Summary holds every figure the analytics dashboard renders.
type Summary struct {
	TotalTrades  int
	TakenTrades  int
	MissedTrades int
	WinningCount int
	LosingCount  int

	WinRate    float64
	TotalR     decimal.Decimal
	Expectancy decimal.Decimal

	AvgWin      decimal.Decimal
	AvgLoss     decimal.Decimal
	LargestWin  decimal.Decimal
	LargestLoss decimal.Decimal

	// WinLossRatio is |avg win / avg loss|; nil when there are no losses.
	WinLossRatio *decimal.Decimal

	Strategies  []StrategyStats
	EquityCurve []EquityPoint
}

// StrategyStats is the per-strategy rollup, ordered by each strategy's
// first appearance in the (chronological) trade list.
type StrategyStats struct {
	StrategyID uint64
	Name       string
	Instrument string
	Total      int
	Taken      int
	Wins       int
	TotalR     decimal.Decimal
}

// WinRate is the strategy's win percentage over its taken trades.
func (s StrategyStats) WinRate() float64 {
	if s.Taken == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Taken) * 100
}

// EquityPoint is one step of the running cumulative R curve. Exactly one
// point is emitted per taken trade, in chronological order; a trade without
// an R-multiple contributes zero.
type EquityPoint struct {
	Timestamp   time.Time
	RMultiple   decimal.Decimal
	CumulativeR decimal.Decimal
}

// Aggregate computes the full analytics summary in a single pass. It is a
// pure function: same input, same output, and an empty input yields zeroed
// counters and an empty curve.
//
// A trade counts as winning when taken and r > 0, losing when taken and
// r < 0. Taken trades with a nil R-multiple (entry == stop) still get a
// curve point, contributing zero R, but stay out of the win/loss buckets.
func Aggregate(rows []TradeRow) Summary {
	sum := Summary{
		TotalR:      decimal.Zero,
		Expectancy:  decimal.Zero,
		AvgWin:      decimal.Zero,
		AvgLoss:     decimal.Zero,
		LargestWin:  decimal.Zero,
		LargestLoss: decimal.Zero,
	}

	var (
		winSum     = decimal.Zero
		lossSum    = decimal.Zero
		cumulative = decimal.Zero
		byStrategy = map[uint64]int{}
	)

	for _, row := range rows {
		sum.TotalTrades++

		idx, seen := byStrategy[row.StrategyID]
		if !seen {
			idx = len(sum.Strategies)
			byStrategy[row.StrategyID] = idx
			sum.Strategies = append(sum.Strategies, StrategyStats{
				StrategyID: row.StrategyID,
				Name:       row.StrategyName,
				Instrument: row.Instrument,
				TotalR:     decimal.Zero,
			})
		}
		sum.Strategies[idx].Total++

		if !row.Taken {
			sum.MissedTrades++
			continue
		}

		sum.TakenTrades++
		sum.Strategies[idx].Taken++

		if row.RMultiple == nil {
			// Zero-risk trades still occupy a curve slot; the running total
			// is unchanged and no win/loss bucket is touched.
			sum.EquityCurve = append(sum.EquityCurve, EquityPoint{
				Timestamp:   row.Timestamp,
				RMultiple:   decimal.Zero,
				CumulativeR: cumulative,
			})
			continue
		}
		r := *row.RMultiple

		sum.TotalR = sum.TotalR.Add(r)
		sum.Strategies[idx].TotalR = sum.Strategies[idx].TotalR.Add(r)

		cumulative = cumulative.Add(r)
		sum.EquityCurve = append(sum.EquityCurve, EquityPoint{
			Timestamp:   row.Timestamp,
			RMultiple:   r,
			CumulativeR: cumulative,
		})

		switch {
		case r.IsPositive():
			sum.WinningCount++
			sum.Strategies[idx].Wins++
			winSum = winSum.Add(r)
			if r.GreaterThan(sum.LargestWin) {
				sum.LargestWin = r
			}
		case r.IsNegative():
			sum.LosingCount++
			lossSum = lossSum.Add(r)
			if r.LessThan(sum.LargestLoss) {
				sum.LargestLoss = r
			}
		}
	}

	if sum.TakenTrades > 0 {
		sum.WinRate = float64(sum.WinningCount) / float64(sum.TakenTrades) * 100
		sum.Expectancy = sum.TotalR.Div(decimal.NewFromInt(int64(sum.TakenTrades))).Round(2)
	}
	if sum.WinningCount > 0 {
		sum.AvgWin = winSum.Div(decimal.NewFromInt(int64(sum.WinningCount))).Round(2)
	}
	if sum.LosingCount > 0 {
		sum.AvgLoss = lossSum.Div(decimal.NewFromInt(int64(sum.LosingCount))).Round(2)
	}
	if !sum.AvgLoss.IsZero() {
		ratio := sum.AvgWin.Div(sum.AvgLoss).Abs().Round(2)
		sum.WinLossRatio = &ratio
	}

	return sum
}

// LastEquityPoints returns the trailing n points of the curve for display.
// The full curve is still computed first so the final cumulative value
// always equals TotalR.
func (s Summary) LastEquityPoints(n int) []EquityPoint {
	if n <= 0 || len(s.EquityCurve) <= n {
		return s.EquityCurve
	}
	return s.EquityCurve[len(s.EquityCurve)-n:]
}
