package handler

import (
	"net/http"

	"github.com/alexconectado/pdv-caixa/internal/apierror"
	"github.com/alexconectado/pdv-caixa/internal/dto"
	"github.com/alexconectado/pdv-caixa/internal/middleware"
	"github.com/alexconectado/pdv-caixa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

// Status returns whether a session is open for the given date (default today)
// along with its live expected totals.
func (h *CashHandler) Status(c *gin.Context) {
	resp, err := h.svc.Status(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Open godoc
// @Summary Abre o caixa do dia
// @Tags caixa
// @Accept json
// @Produce json
// @Param body body dto.OpenSessionRequest true "Dados de abertura"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cash/open [post]
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Fecha o caixa com a conferência por forma de pagamento
// @Tags caixa
// @Accept json
// @Produce json
// @Param body body dto.CloseSessionRequest true "Valores conferidos"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cash/close [post]
func (h *CashHandler) Close(c *gin.Context) {
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt returns the printable close-of-day record for a session.
func (h *CashHandler) Receipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Receipt(c.Request.Context(), id, middleware.GetUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
