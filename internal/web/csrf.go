package web

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CSRFField is the form field name every mutating form must carry.
const CSRFField = "csrf_token"

// CSRFToken returns the session's CSRF token, minting one on first use.
func CSRFToken(c *gin.Context) string {
	sess := sessions.Default(c)
	if tok, ok := sess.Get(keyCSRFToken).(string); ok && tok != "" {
		return tok
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	tok := hex.EncodeToString(buf)
	sess.Set(keyCSRFToken, tok)
	_ = sess.Save()
	return tok
}

// CSRFMiddleware rejects mutating requests whose csrf_token form value
// does not match the session token. Safe methods pass through.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		sess := sessions.Default(c)
		want, _ := sess.Get(keyCSRFToken).(string)
		got := c.PostForm(CSRFField)
		if want == "" || got == "" ||
			subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
			c.String(http.StatusForbidden, "invalid CSRF token")
			c.Abort()
			return
		}
		c.Next()
	}
}
