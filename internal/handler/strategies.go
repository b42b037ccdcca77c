package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradejournal/internal/journal"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
	"tradejournal/internal/web"
)

// StrategyHandler serves the strategy management page and its three
// form actions: create, update, delete.
type StrategyHandler struct {
	Repo       repository.Repository
	Strategies *service.StrategyService
	Logger     *zap.Logger
}

func (h *StrategyHandler) Register(r *gin.Engine) {
	r.GET("/strategies", h.page)
	r.POST("/strategies", h.submit)
}

func (h *StrategyHandler) page(c *gin.Context) {
	h.render(c, nil, nil)
}

// render draws the strategy page. When form is non-nil the create/edit
// panel re-populates from the rejected submission with its field errors.
func (h *StrategyHandler) render(c *gin.Context, form *journal.StrategyForm, formErrors map[string]string) {
	ctx := c.Request.Context()
	strategies, err := h.Repo.ListStrategies(ctx)
	if err != nil {
		h.Logger.Error("list strategies", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	var editing *models.Strategy
	if raw := c.Query("edit"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err == nil && id > 0 {
			editing, err = h.Repo.GetStrategyByID(ctx, id)
			if err != nil {
				h.Logger.Error("load strategy", zap.Uint64("id", id), zap.Error(err))
				c.String(http.StatusInternalServerError, "something went wrong")
				return
			}
		}
	}

	status := http.StatusOK
	if len(formErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	c.HTML(status, "strategies.html", gin.H{
		"Title":      "Strategies",
		"Active":     "strategies",
		"Strategies": strategies,
		"Editing":    editing,
		"Form":       form,
		"Errors":     formErrors,
		"Timeframes": journal.StrategyTimeframes,
		"Sessions":   journal.StrategySessions,
		"Flash":      web.TakeFlash(c),
		"CSRFToken":  web.CSRFToken(c),
	})
}

func (h *StrategyHandler) submit(c *gin.Context) {
	switch c.PostForm("action") {
	case "create":
		h.save(c, 0)
	case "update":
		id, err := strconv.ParseUint(c.PostForm("id"), 10, 64)
		if err != nil || id == 0 {
			web.PutFlash(c, "Missing strategy id.", "error")
			c.Redirect(http.StatusSeeOther, "/strategies")
			return
		}
		h.save(c, id)
	case "delete":
		h.delete(c)
	default:
		web.PutFlash(c, "Unknown action.", "error")
		c.Redirect(http.StatusSeeOther, "/strategies")
	}
}

func (h *StrategyHandler) save(c *gin.Context, id uint64) {
	var form journal.StrategyForm
	if err := c.ShouldBind(&form); err != nil {
		web.PutFlash(c, "Could not read the submitted form.", "error")
		c.Redirect(http.StatusSeeOther, "/strategies")
		return
	}

	if errs := journal.ValidateStrategy(form); len(errs) > 0 {
		h.render(c, &form, errs)
		return
	}

	if _, err := h.Strategies.Save(c.Request.Context(), id, form); err != nil {
		if errors.Is(err, service.ErrStrategyNotFound) {
			web.PutFlash(c, "Strategy not found.", "error")
		} else {
			h.Logger.Error("save strategy", zap.Uint64("id", id), zap.Error(err))
			web.PutFlash(c, "Something went wrong while saving the strategy.", "error")
		}
		c.Redirect(http.StatusSeeOther, "/strategies")
		return
	}

	if id == 0 {
		web.PutFlash(c, "Strategy created.", "success")
	} else {
		web.PutFlash(c, "Strategy updated.", "success")
	}
	c.Redirect(http.StatusSeeOther, "/strategies")
}

func (h *StrategyHandler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.PostForm("id"), 10, 64)
	if err != nil || id == 0 {
		web.PutFlash(c, "Missing strategy id.", "error")
		c.Redirect(http.StatusSeeOther, "/strategies")
		return
	}
	if err := h.Strategies.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrStrategyNotFound) {
			web.PutFlash(c, "Strategy not found.", "error")
		} else {
			h.Logger.Error("delete strategy", zap.Uint64("id", id), zap.Error(err))
			web.PutFlash(c, "Something went wrong while deleting the strategy.", "error")
		}
		c.Redirect(http.StatusSeeOther, "/strategies")
		return
	}
	web.PutFlash(c, "Strategy deleted.", "success")
	c.Redirect(http.StatusSeeOther, "/strategies")
}
