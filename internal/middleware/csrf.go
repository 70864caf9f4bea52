package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/alexconectado/pdv-caixa/internal/apierror"

	"github.com/gin-gonic/gin"
)

// CSRF enforces the double-check on state-mutating routes: the token issued at
// login (carried inside the signed session) must be echoed back in the
// X-CSRF-Token header or the _csrf form field. Must run after SessionAuth.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		expected := c.GetString(CsrfKey)
		got := c.GetHeader("X-CSRF-Token")
		if got == "" {
			got = c.PostForm("_csrf")
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Token CSRF inválido"))
			return
		}
		c.Next()
	}
}
