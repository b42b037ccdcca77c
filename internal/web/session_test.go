package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/config"
	"tradejournal/internal/journal"
)

func newFlashRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(config.SessionConfig{
		CookieName: "test_session",
		Secret:     "test-secret",
		MaxAge:     3600,
	}))
	r.GET("/set", func(c *gin.Context) {
		PutFlash(c, "Trade logged.", "success")
		c.Status(http.StatusOK)
	})
	r.GET("/get", func(c *gin.Context) {
		f := TakeFlash(c)
		if f == nil {
			c.String(http.StatusOK, "none")
			return
		}
		c.String(http.StatusOK, f.Type+":"+f.Message)
	})
	r.GET("/preserve", func(c *gin.Context) {
		PutTradeForm(c, journal.TradeForm{Direction: "Long", EntryPrice: "100"},
			map[string]string{"exit_price": "Valid exit price is required"})
		c.Status(http.StatusOK)
	})
	r.GET("/restore", func(c *gin.Context) {
		form, errs, ok := TakeTradeForm(c)
		if !ok {
			c.String(http.StatusOK, "none")
			return
		}
		c.String(http.StatusOK, form.Direction+"/"+form.EntryPrice+"/"+errs["exit_price"])
	})
	return r
}

func get(r *gin.Engine, path string, cookies []string) (*httptest.ResponseRecorder, []string) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(cookies, "; "))
	}
	r.ServeHTTP(rec, req)

	out := cookies
	if set := rec.Result().Cookies(); len(set) > 0 {
		out = nil
		for _, c := range set {
			out = append(out, c.Name+"="+c.Value)
		}
	}
	return rec, out
}

func TestFlashIsConsumedOnce(t *testing.T) {
	r := newFlashRouter()

	_, cookies := get(r, "/set", nil)

	rec, cookies := get(r, "/get", cookies)
	require.Equal(t, "success:Trade logged.", rec.Body.String())

	rec, _ = get(r, "/get", cookies)
	require.Equal(t, "none", rec.Body.String())
}

func TestNoFlashByDefault(t *testing.T) {
	r := newFlashRouter()
	rec, _ := get(r, "/get", nil)
	require.Equal(t, "none", rec.Body.String())
}

func TestPreservedFormSurvivesOneRedirect(t *testing.T) {
	r := newFlashRouter()

	_, cookies := get(r, "/preserve", nil)

	rec, cookies := get(r, "/restore", cookies)
	require.Equal(t, "Long/100/Valid exit price is required", rec.Body.String())

	rec, _ = get(r, "/restore", cookies)
	require.Equal(t, "none", rec.Body.String())
}
