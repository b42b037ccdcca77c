package web

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"tradejournal/internal/config"
	"tradejournal/internal/journal"
)

const (
	keyFlashMessage = "flash_message"
	keyFlashType    = "flash_type"
	keyTradeForm    = "trade_form"
	keyTradeErrors  = "trade_errors"
	keyCSRFToken    = "csrf_token"
)

func init() {
	// The cookie store gob-encodes session values.
	gob.Register(journal.TradeForm{})
	gob.Register(map[string]string{})
}

// Flash is a one-shot notice carried across a redirect.
// Type is one of success, error, warning, info.
type Flash struct {
	Message string
	Type    string
}

// SessionMiddleware installs the cookie-backed session store every handler
// reads flashes, preserved form input and the CSRF token from.
func SessionMiddleware(cfg config.SessionConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cfg.CookieName, store)
}

func PutFlash(c *gin.Context, message, kind string) {
	sess := sessions.Default(c)
	sess.Set(keyFlashMessage, message)
	sess.Set(keyFlashType, kind)
	_ = sess.Save()
}

// TakeFlash returns and clears the pending flash, if any.
func TakeFlash(c *gin.Context) *Flash {
	sess := sessions.Default(c)
	msg, ok := sess.Get(keyFlashMessage).(string)
	if !ok || msg == "" {
		return nil
	}
	kind, _ := sess.Get(keyFlashType).(string)
	if kind == "" {
		kind = "info"
	}
	sess.Delete(keyFlashMessage)
	sess.Delete(keyFlashType)
	_ = sess.Save()
	return &Flash{Message: msg, Type: kind}
}

// PutTradeForm preserves a rejected trade submission and its field errors
// so the entry form can re-populate after the redirect.
func PutTradeForm(c *gin.Context, form journal.TradeForm, errs map[string]string) {
	sess := sessions.Default(c)
	sess.Set(keyTradeForm, form)
	sess.Set(keyTradeErrors, errs)
	_ = sess.Save()
}

// TakeTradeForm returns and clears a preserved submission, if any.
func TakeTradeForm(c *gin.Context) (journal.TradeForm, map[string]string, bool) {
	sess := sessions.Default(c)
	form, ok := sess.Get(keyTradeForm).(journal.TradeForm)
	if !ok {
		return journal.TradeForm{}, nil, false
	}
	errs, _ := sess.Get(keyTradeErrors).(map[string]string)
	sess.Delete(keyTradeForm)
	sess.Delete(keyTradeErrors)
	_ = sess.Save()
	return form, errs, true
}
