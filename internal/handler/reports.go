package handler

import (
	"net/http"

	"github.com/alexconectado/pdv-caixa/internal/dto"
	"github.com/alexconectado/pdv-caixa/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Report godoc
// @Summary Relatório de vendas por período
// @Tags relatorios
// @Produce json
// @Param start query string false "Data inicial (YYYY-MM-DD, padrão hoje)"
// @Param end query string false "Data final (YYYY-MM-DD, padrão = inicial)"
// @Param operator_id query string false "Filtra por operador"
// @Param payment_method query string false "CASH | PIX | DEBIT | CREDIT"
// @Param session_status query string false "open | closed"
// @Success 200 {object} dto.ReportResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reports [get]
func (h *ReportsHandler) Report(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportCSV streams the filtered report as a CSV download.
func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	data, name, err := h.svc.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportPDF streams the filtered report as a PDF download.
func (h *ReportsHandler) ExportPDF(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	data, name, err := h.svc.ExportPDF(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Dashboard returns the month-to-date KPIs, top products and operator ranking.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
