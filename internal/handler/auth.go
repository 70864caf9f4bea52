package handler

import (
	"net/http"

	"github.com/alexconectado/pdv-caixa/internal/config"
	"github.com/alexconectado/pdv-caixa/internal/dto"
	"github.com/alexconectado/pdv-caixa/internal/middleware"
	"github.com/alexconectado/pdv-caixa/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

// Login godoc
// @Summary Autentica o operador e inicia a sessão
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setSessionCookie(c, token, h.cfg.SessionTTLHours*3600)
	c.JSON(http.StatusOK, resp)
}

// Logout clears the session cookie. Always succeeds, even without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	// Lax keeps the cookie on top-level navigation while still blocking
	// cross-site POSTs; the CSRF token covers the rest.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cfg.Env == "production", true)
}
