package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradejournal/internal/journal"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
	"tradejournal/internal/web"
)

// TradeHandler serves the trade entry form and accepts submissions.
type TradeHandler struct {
	Repo   repository.Repository
	Trades *service.TradeService
	Logger *zap.Logger
}

func (h *TradeHandler) Register(r *gin.Engine) {
	r.GET("/", h.showForm)
	r.POST("/trades", h.submit)
}

func (h *TradeHandler) showForm(c *gin.Context) {
	strategies, err := h.Repo.ListStrategies(c.Request.Context())
	if err != nil {
		h.Logger.Error("list strategies", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	form, formErrors, _ := web.TakeTradeForm(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":      "Log Trade",
		"Active":     "log",
		"Strategies": strategies,
		"Form":       form,
		"Errors":     formErrors,
		"Directions": journal.Directions,
		"Sessions":   journal.Sessions,
		"Flash":      web.TakeFlash(c),
		"CSRFToken":  web.CSRFToken(c),
	})
}

func (h *TradeHandler) submit(c *gin.Context) {
	var form journal.TradeForm
	if err := c.ShouldBind(&form); err != nil {
		web.PutFlash(c, "Could not read the submitted form.", "error")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	entryCriteriaCount := 0
	if form.IsTaken() {
		if id, err := strconv.ParseUint(form.StrategyID, 10, 64); err == nil && id > 0 {
			n, err := h.Repo.CountEntryCriteria(c.Request.Context(), id)
			if err != nil {
				h.Logger.Error("count entry criteria", zap.Error(err))
				web.PutFlash(c, "Something went wrong while logging the trade.", "error")
				c.Redirect(http.StatusSeeOther, "/")
				return
			}
			entryCriteriaCount = int(n)
		}
	}

	if errs := journal.ValidateTrade(form, entryCriteriaCount); len(errs) > 0 {
		web.PutTradeForm(c, form, errs)
		web.PutFlash(c, "Please fix the highlighted fields.", "error")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	cmd, err := form.ToCommand()
	if err != nil {
		web.PutTradeForm(c, form, map[string]string{"form": err.Error()})
		web.PutFlash(c, "Please fix the highlighted fields.", "error")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	files := formFiles(c, "screenshots")

	if _, err := h.Trades.Submit(c.Request.Context(), cmd, files); err != nil {
		if errors.Is(err, service.ErrStrategyNotFound) {
			web.PutTradeForm(c, form, map[string]string{"strategy_id": "Selected strategy no longer exists"})
			web.PutFlash(c, "Please fix the highlighted fields.", "error")
		} else {
			h.Logger.Error("submit trade", zap.Error(err))
			web.PutFlash(c, "Something went wrong while logging the trade.", "error")
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	// Success lands on the history page; only failures return to the form.
	if cmd.Missed != nil {
		web.PutFlash(c, "Missed trade recorded.", "success")
	} else {
		web.PutFlash(c, "Trade logged.", "success")
	}
	c.Redirect(http.StatusSeeOther, "/history")
}
