package infra

// pdf.go — sales report export using go-pdf/fpdf. A4 portrait with:
//   - Business name header and period line
//   - Sale table (timestamp, product, amount, method, operator, status)
//   - Bold grand-total row (live sales only; cancelled rows are listed
//     but marked and excluded from the total)

import (
	"bytes"
	"fmt"

	"github.com/alexconectado/pdv-caixa/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// BuildReportPDF renders the filtered sales as an A4 report and returns the
// raw PDF bytes. start and end are already-formatted YYYY-MM-DD strings.
func BuildReportPDF(start, end string, sales []dto.SaleResponse, grandTotal decimal.Decimal) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "PDV Caixa", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Relatório de vendas — %s a %s", start, end), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	col := []float64{
		contentW * 0.20, // timestamp
		contentW * 0.22, // product code
		contentW * 0.14, // amount
		contentW * 0.13, // method
		contentW * 0.19, // operator
		contentW * 0.12, // status
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(col[0], 6, "Data/Hora", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col[1], 6, "Produto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col[2], 6, "Valor", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col[3], 6, "Pagamento", "1", 0, "C", true, 0, "")
	pdf.CellFormat(col[4], 6, "Operador", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col[5], 6, "Situação", "1", 1, "C", true, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for i := range sales {
		sale := &sales[i]
		product := sale.ProductCode
		if len(product) > 26 {
			product = product[:25] + "…"
		}
		status := ""
		if sale.Canceled {
			status = "CANCELADA"
		}
		pdf.CellFormat(col[0], 5.5, sale.CreatedAt, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col[1], 5.5, product, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col[2], 5.5, "R$ "+sale.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col[3], 5.5, sale.PaymentMethod, "1", 0, "C", false, 0, "")
		pdf.CellFormat(col[4], 5.5, sale.OperatorName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col[5], 5.5, status, "1", 1, "C", false, 0, "")
	}

	// ── Grand total ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col[0]+col[1], 6.5, "TOTAL", "1", 0, "L", false, 0, "")
	pdf.CellFormat(col[2], 6.5, "R$ "+grandTotal.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(col[3]+col[4]+col[5], 6.5, "", "1", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}
	return buf.Bytes(), nil
}
