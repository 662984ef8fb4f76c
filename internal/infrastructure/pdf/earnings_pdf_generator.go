// Package pdf genera la representación en PDF del reporte de ganancias.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + rango de fechas                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: ventas / costos / utilidad neta / unidades         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Categoría | Cant | Ingreso | Margen       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Categoría | Ventas                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"

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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
)

var _ ports.EarningsPDFGenerator = (*EarningsPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLoss    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// EarningsPDFGenerator implementa ports.EarningsPDFGenerator con Maroto v2.
type EarningsPDFGenerator struct {
	title string
}

// NewEarningsPDFGenerator construye el generador. title encabeza el documento.
func NewEarningsPDFGenerator(title string) *EarningsPDFGenerator {
	if title == "" {
		title = "Reporte de ganancias"
	}
	return &EarningsPDFGenerator{title: title}
}

// GenerateEarningsPDF genera el PDF y devuelve sus bytes.
func (g *EarningsPDFGenerator) GenerateEarningsPDF(_ context.Context, report *dto.EarningsReportResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(totalsRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Productos más vendidos"))
	m.AddRows(productsHeaderRow())
	m.AddRows(productRows(report.TopSellingProducts)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("Ventas por categoría"))
	m.AddRows(categoryRows(report.EarningsByCategory)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(title string, r *dto.EarningsReportResponse) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2}),
		),
		col.New(4).Add(
			text.New("Desde: "+r.StartDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Hasta: "+r.EndDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func totalsRow(r *dto.EarningsReportResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	netColor := colorPrimary
	if r.NetProfit.IsNegative() {
		netColor = colorLoss
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Ventas:"),
			label("Costos de compra:"),
			label("Unidades vendidas:"),
			text.New("UTILIDAD NETA:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: netColor, Right: 2,
			}),
		),
		col.New(4).Add(
			value(formatMoney(r.TotalEarnings)),
			value(formatMoney(r.TotalCosts)),
			value(printer.Sprintf("%d", r.TotalProductsSold)),
			text.New(formatMoney(r.NetProfit), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: netColor, Right: 1,
			}),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func productsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Producto", 4, align.Left),
		h("Categoría", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("Ingreso", 2, align.Right),
		h("Margen", 2, align.Right),
	)
}

func productRows(details []dto.ProductSalesDetail) []core.Row {
	if len(details) == 0 {
		return []core.Row{emptyRow("Sin ventas en el período")}
	}
	rows := make([]core.Row, 0, len(details))
	for _, d := range details {
		name := d.Product.Name
		if name == "" {
			name = d.Product.Cod
		}
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(d.Product.Category.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(printer.Sprintf("%d", d.QuantitySold), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(d.Revenue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatPercent(d.ProfitMargin), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// categoryRows ordena por nombre para que el documento sea estable.
func categoryRows(byCategory map[string]decimal.Decimal) []core.Row {
	if len(byCategory) == 0 {
		return []core.Row{emptyRow("Sin ventas en el período")}
	}
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]core.Row, 0, len(names))
	for _, name := range names {
		rows = append(rows, row.New(6).Add(
			col.New(8).Add(text.New(nonEmpty(name, "Sin categoría"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(formatMoney(byCategory[name]), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Top: 1, Color: colorGray, Align: align.Center}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con separadores es-CO: 1234567.5 → "$1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func formatPercent(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64()) + " %"
}
