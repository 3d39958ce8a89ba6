// Package pdf genera el reporte descargable del resumen financiero del dashboard.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Tienda      │  Período + Fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Período | Ingresos | Costo | Utilidad               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ingresos / Costo / UTILIDAD                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ analytics.FinancialSummaryExporter = (*FinancialSummaryPDF)(nil)

// FinancialSummaryPDF exportador PDF del resumen financiero con Maroto v2.
type FinancialSummaryPDF struct {
	storeName string
	now       func() time.Time
}

// NewFinancialSummaryPDF construye el exportador.
func NewFinancialSummaryPDF(storeName string) *FinancialSummaryPDF {
	return &FinancialSummaryPDF{storeName: storeName, now: time.Now}
}

func (g *FinancialSummaryPDF) Format() string      { return "pdf" }
func (g *FinancialSummaryPDF) ContentType() string { return "application/pdf" }

// Export genera el PDF y devuelve sus bytes.
func (g *FinancialSummaryPDF) Export(_ context.Context, report analytics.FinancialReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(report.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *FinancialSummaryPDF) headerRow(report analytics.FinancialReport) core.Row {
	period := fmt.Sprintf("%s a %s", report.Period.StartDate, report.Period.EndDate)
	return row.New(18).Add(
		col.New(7).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(g.storeName, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Período: "+period, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 2,
			}),
			text.New("Emitido: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Período", 3, align.Left),
		h("Ingresos", 3, align.Right),
		h("Costo", 3, align.Right),
		h("Utilidad", 3, align.Right),
	)
}

func tableRows(rows []dto.FinancialSummaryDTO) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		profitStyle := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if r.Profit.IsNegative() {
			profitStyle.Color = colorNegative
		}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(r.Period, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(FormatMoney(r.Revenue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(FormatMoney(r.Cost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(FormatMoney(r.Profit), profitStyle)),
		))
	}
	return result
}

func totalsRow(rows []dto.FinancialSummaryDTO) core.Row {
	var revenue, cost, profit decimal.Decimal
	for _, r := range rows {
		revenue = revenue.Add(r.Revenue)
		cost = cost.Add(r.Cost)
		profit = profit.Add(r.Profit)
	}

	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Ingresos:", 1),
			label("Costo:", 7),
			text.New("UTILIDAD:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 13,
			}),
		),
		col.New(3).Add(
			value(FormatMoney(revenue), 1),
			value(FormatMoney(cost), 7),
			text.New(FormatMoney(profit), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 13,
			}),
		),
	)
}
