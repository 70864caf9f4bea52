package middleware

import (
	"net/http"

	"github.com/alexconectado/pdv-caixa/internal/apierror"
	"github.com/alexconectado/pdv-caixa/internal/model"
	"github.com/alexconectado/pdv-caixa/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the signed session token. HttpOnly, so browser
	// scripts never see it; the CSRF token travels separately.
	SessionCookie = "pdv_session"

	UserKey = "session_user"
	CsrfKey = "session_csrf"
)

// SessionAuth validates the session cookie on every protected route and
// resolves the LIVE user row. A user deactivated after login is cut off on
// their very next request, not at token expiry.
func SessionAuth(secret string, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação necessária"))
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sessão inválida ou expirada"))
			return
		}

		userIDStr, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sessão inválida ou expirada"))
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sessão inválida ou expirada"))
			return
		}
		if !user.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Usuário desativado"))
			return
		}

		csrf, _ := claims["csrf"].(string)
		c.Set(UserKey, user)
		c.Set(CsrfKey, csrf)
		c.Next()
	}
}

// RequireRole rejects requests whose authenticated user's role is not in the
// allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil || !allowed[user.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permissão insuficiente"))
			return
		}
		c.Next()
	}
}

// GetUser retrieves the authenticated user from the Gin context.
func GetUser(c *gin.Context) *model.User {
	user, _ := c.MustGet(UserKey).(*model.User)
	return user
}
