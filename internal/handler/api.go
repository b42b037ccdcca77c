package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// StrategyAPIHandler exposes the strategy detail consumed by the trade
// form to render the per-strategy checklists.
type StrategyAPIHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *StrategyAPIHandler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/strategies", h.missingID)
	api.GET("/strategies/:id", h.detail)
}

type strategyDetail struct {
	ID            uint64             `json:"id"`
	Name          string             `json:"name"`
	Instrument    string             `json:"instrument"`
	Timeframes    datatypes.JSON     `json:"timeframes"`
	Sessions      datatypes.JSON     `json:"sessions"`
	ChartImageURL string             `json:"chart_image_url,omitempty"`
	EntryCriteria []criterionItem    `json:"entry_criteria"`
	ExitCriteria  []criterionItem    `json:"exit_criteria"`
	Invalidations []invalidationItem `json:"invalidations"`
}

type criterionItem struct {
	ID          uint64 `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type invalidationItem struct {
	ID     uint64 `json:"id"`
	Code   string `json:"code"`
	Label  string `json:"label"`
	Reason string `json:"reason,omitempty"`
}

func (h *StrategyAPIHandler) missingID(c *gin.Context) {
	Error(c, http.StatusBadRequest, "missing strategy id", nil)
}

func (h *StrategyAPIHandler) detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "missing strategy id", nil)
		return
	}

	item, err := h.Repo.GetStrategyByID(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error("load strategy", zap.Uint64("id", id), zap.Error(err))
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "strategy not found", nil)
		return
	}

	Ok(c, toStrategyDetail(item), nil)
}

func toStrategyDetail(item *models.Strategy) strategyDetail {
	out := strategyDetail{
		ID:            item.ID,
		Name:          item.Name,
		Instrument:    item.Instrument,
		Timeframes:    item.Timeframes,
		Sessions:      item.Sessions,
		ChartImageURL: item.ChartImageURL,
		EntryCriteria: make([]criterionItem, 0, len(item.EntryCriteria)),
		ExitCriteria:  make([]criterionItem, 0, len(item.ExitCriteria)),
		Invalidations: make([]invalidationItem, 0, len(item.Invalidations)),
	}
	for _, c := range item.EntryCriteria {
		out.EntryCriteria = append(out.EntryCriteria, criterionItem{
			ID: c.ID, Label: c.Label, Description: c.Description,
		})
	}
	for _, c := range item.ExitCriteria {
		out.ExitCriteria = append(out.ExitCriteria, criterionItem{
			ID: c.ID, Label: c.Label, Description: c.Description,
		})
	}
	for _, inv := range item.Invalidations {
		out.Invalidations = append(out.Invalidations, invalidationItem{
			ID: inv.ID, Code: inv.Code, Label: inv.Label, Reason: inv.Reason,
		})
	}
	return out
}
