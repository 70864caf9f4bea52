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

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// List returns the current day's ledger: open session, every sale (cancelled
// ones flagged) and live totals.
func (h *SalesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListToday(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Record godoc
// @Summary Registra uma venda no caixa aberto
// @Tags vendas
// @Accept json
// @Produce json
// @Param body body dto.RecordSaleRequest true "Dados da venda"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/sales [post]
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancel godoc
// @Summary Cancela uma venda (exige senha do administrador)
// @Tags vendas
// @Accept json
// @Produce json
// @Param id path string true "ID da venda"
// @Param body body dto.CancelSaleRequest true "Motivo e senha"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/sales/{id}/cancel [post]
func (h *SalesHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CancelSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), id, middleware.GetUser(c), req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete hard-removes a sale. Idempotent: deleting a missing sale is a 204.
func (h *SalesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, middleware.GetUser(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Receipt returns the printable record of a single sale.
func (h *SalesHandler) Receipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Receipt(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
