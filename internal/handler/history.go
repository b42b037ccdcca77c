package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
	"tradejournal/internal/web"
)

// HistoryHandler serves the trade history page and its CSV export.
type HistoryHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *HistoryHandler) Register(r *gin.Engine) {
	r.GET("/history", h.page)
	r.GET("/history/export.csv", h.exportCSV)
}

// historyFilters parses the strategy and outcome query filters. Unknown
// values fall back to unfiltered rather than erroring.
func historyFilters(c *gin.Context) repository.ListTradesParams {
	params := repository.ListTradesParams{}
	if raw := c.Query("strategy"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			params.StrategyID = &id
		}
	}
	switch c.Query("taken") {
	case "1":
		v := true
		params.Taken = &v
	case "0":
		v := false
		params.Taken = &v
	}
	return params
}

type historySummary struct {
	Total  int
	Taken  int
	Missed int
	TotalR decimal.Decimal
}

func summarize(trades []repository.TradeWithStrategy) historySummary {
	var s historySummary
	s.Total = len(trades)
	for _, t := range trades {
		if !t.Taken {
			s.Missed++
			continue
		}
		s.Taken++
		if t.RMultiple != nil {
			s.TotalR = s.TotalR.Add(*t.RMultiple)
		}
	}
	return s
}

func (h *HistoryHandler) page(c *gin.Context) {
	ctx := c.Request.Context()
	params := historyFilters(c)

	trades, err := h.Repo.ListTrades(ctx, params)
	if err != nil {
		h.Logger.Error("list trades", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	ids := make([]uint64, 0, len(trades))
	for _, t := range trades {
		ids = append(ids, t.ID)
	}
	shots, err := h.Repo.ListScreenshotsByTradeIDs(ctx, ids)
	if err != nil {
		h.Logger.Error("list screenshots", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	shotsByTrade := make(map[uint64][]models.TradeScreenshot, len(trades))
	for _, s := range shots {
		shotsByTrade[s.TradeID] = append(shotsByTrade[s.TradeID], s)
	}

	strategies, err := h.Repo.ListStrategies(ctx)
	if err != nil {
		h.Logger.Error("list strategies", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "history.html", gin.H{
		"Title":          "History",
		"Active":         "history",
		"Trades":         trades,
		"Screenshots":    shotsByTrade,
		"Strategies":     strategies,
		"Summary":        summarize(trades),
		"FilterStrategy": c.Query("strategy"),
		"FilterTaken":    c.Query("taken"),
		"Flash":          web.TakeFlash(c),
		"CSRFToken":      web.CSRFToken(c),
	})
}

func (h *HistoryHandler) exportCSV(c *gin.Context) {
	trades, err := h.Repo.ListTrades(c.Request.Context(), historyFilters(c))
	if err != nil {
		h.Logger.Error("list trades", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=trades_%s.csv", time.Now().UTC().Format("20060102")))

	w := csv.NewWriter(c.Writer)
	header := []string{
		"id", "timestamp", "strategy", "instrument", "taken", "direction",
		"session", "bias", "entry_price", "stop_loss_price", "exit_price",
		"risk_percent", "r_multiple", "missed_reason", "reason",
	}
	if err := w.Write(header); err != nil {
		return
	}
	for _, t := range trades {
		row := []string{
			strconv.FormatUint(t.ID, 10),
			t.TradeTimestamp.UTC().Format(time.RFC3339),
			t.StrategyName,
			t.Instrument,
			boolField(t.Taken),
			t.Direction,
			t.Session,
			t.Bias,
			decField(t.EntryPrice),
			decField(t.StopLossPrice),
			decField(t.ExitPrice),
			decField(t.RiskPercent),
			decField(t.RMultiple),
			t.MissedReason,
			t.Reason,
		}
		if err := w.Write(row); err != nil {
			return
		}
	}
	w.Flush()
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func decField(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}
