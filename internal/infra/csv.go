package infra

// csv.go — sales report export. Cancelled sales appear as rows marked
// "CANCELADA" but the grand total line only sums the live ones, matching the
// on-screen report.

import (
	"bytes"
	"encoding/csv"

	"github.com/alexconectado/pdv-caixa/internal/dto"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{"data_hora", "codigo_produto", "valor", "forma_pagamento", "operador", "situacao"}

// WriteSalesCSV renders the filtered sales as UTF-8 CSV with a trailing grand
// total row.
func WriteSalesCSV(sales []dto.SaleResponse, grandTotal decimal.Decimal) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range sales {
		sale := &sales[i]
		status := ""
		if sale.Canceled {
			status = "CANCELADA"
		}
		record := []string{
			sale.CreatedAt,
			sale.ProductCode,
			sale.Amount.StringFixed(2),
			sale.PaymentMethod,
			sale.OperatorName,
			status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{"TOTAL", "", grandTotal.StringFixed(2), "", "", ""}); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
