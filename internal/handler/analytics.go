package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradejournal/internal/analytics"
	"tradejournal/internal/repository"
	"tradejournal/internal/web"
)

// AnalyticsHandler serves the performance dashboard.
type AnalyticsHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *AnalyticsHandler) Register(r *gin.Engine) {
	r.GET("/analytics", h.page)
}

func (h *AnalyticsHandler) page(c *gin.Context) {
	// Chronological order so the equity curve accumulates oldest first.
	trades, err := h.Repo.ListTrades(c.Request.Context(), repository.ListTradesParams{Asc: true})
	if err != nil {
		h.Logger.Error("list trades", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	rows := make([]analytics.TradeRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, analytics.TradeRow{
			TradeID:      t.ID,
			StrategyID:   t.StrategyID,
			StrategyName: t.StrategyName,
			Instrument:   t.Instrument,
			Taken:        t.Taken,
			RMultiple:    t.RMultiple,
			Timestamp:    t.TradeTimestamp,
		})
	}
	summary := analytics.Aggregate(rows)

	c.HTML(http.StatusOK, "analytics.html", gin.H{
		"Title":        "Analytics",
		"Active":       "analytics",
		"Summary":      summary,
		"RecentEquity": summary.LastEquityPoints(10),
		"Flash":        web.TakeFlash(c),
		"CSRFToken":    web.CSRFToken(c),
	})
}
