// Package csvexport exporta el resumen financiero del dashboard como CSV.
package csvexport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
)

var _ analytics.FinancialSummaryExporter = (*FinancialSummaryCSV)(nil)

// utf8BOM hace que Excel abra el archivo como UTF-8 (tildes en cabeceras).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FinancialSummaryCSV una fila por intervalo; importes con punto decimal y dos decimales.
type FinancialSummaryCSV struct{}

// NewFinancialSummaryCSV construye el exportador.
func NewFinancialSummaryCSV() *FinancialSummaryCSV { return &FinancialSummaryCSV{} }

func (FinancialSummaryCSV) Format() string      { return "csv" }
func (FinancialSummaryCSV) ContentType() string { return "text/csv; charset=utf-8" }

// Export serializa report.Rows.
func (FinancialSummaryCSV) Export(_ context.Context, report analytics.FinancialReport) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	records := make([][]string, 0, len(report.Rows)+1)
	records = append(records, []string{"período", "ingresos", "costo", "utilidad"})
	for _, r := range report.Rows {
		records = append(records, []string{
			r.Period,
			r.Revenue.StringFixed(2),
			r.Cost.StringFixed(2),
			r.Profit.StringFixed(2),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("csv: escribir resumen financiero: %w", err)
	}
	return buf.Bytes(), nil
}
