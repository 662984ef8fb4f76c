package kardex

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/lookup"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// TopSellingLimit productos incluidos en topSellingProducts.
const TopSellingLimit = 10

var hundred = decimal.NewFromInt(100)

type salesDetail struct {
	product *entity.Product
	qty     int
	revenue decimal.Decimal
	margin  decimal.Decimal
}

// BuildEarningsReport acumula los movimientos en el orden recibido:
//   - OUTCOME suma a ganancias, unidades vendidas, detalle por producto y ventas por categoría.
//   - INCOME suma a costos y, si el producto ya tiene ventas, recalcula su margen:
//     (ingresoUnitario - costoUnitario) / ingresoUnitario * 100, con el ingreso unitario
//     redondeado a 2 decimales y el margen a 4.
//
// Los productos solo con INCOME no entran al ranking. Las fechas del reporte las completa el llamador.
func BuildEarningsReport(ctx context.Context, movements []*entity.KardexEntry, catalog ports.ProductCatalog) (*dto.EarningsReportResponse, error) {
	products, err := soldProducts(ctx, movements, catalog)
	if err != nil {
		return nil, err
	}

	report := &dto.EarningsReportResponse{
		TotalEarnings:      decimal.Zero,
		TotalCosts:         decimal.Zero,
		NetProfit:          decimal.Zero,
		TopSellingProducts: []dto.ProductSalesDetail{},
		EarningsByCategory: map[string]decimal.Decimal{},
	}
	details := make(map[string]*salesDetail)
	var order []*salesDetail

	for _, m := range movements {
		switch m.TypeMovement {
		case entity.MovementOutcome:
			report.TotalEarnings = report.TotalEarnings.Add(m.TotalPrice)
			report.TotalProductsSold += m.Quantity

			d, ok := details[m.ProductID]
			if !ok {
				d = &salesDetail{product: products[m.ProductID], revenue: decimal.Zero, margin: decimal.Zero}
				details[m.ProductID] = d
				order = append(order, d)
			}
			d.qty += m.Quantity
			d.revenue = d.revenue.Add(m.TotalPrice)

			category := d.product.Category.Name
			report.EarningsByCategory[category] = report.EarningsByCategory[category].Add(m.TotalPrice)

		case entity.MovementIncome:
			report.TotalCosts = report.TotalCosts.Add(m.TotalPrice)
			if d, ok := details[m.ProductID]; ok && d.qty > 0 {
				revenuePerUnit := d.revenue.Div(decimal.NewFromInt(int64(d.qty))).Round(2)
				if !revenuePerUnit.IsZero() {
					d.margin = revenuePerUnit.Sub(m.UnitPrice).Div(revenuePerUnit).Mul(hundred).Round(4)
				}
			}
		}
	}
	report.NetProfit = report.TotalEarnings.Sub(report.TotalCosts)

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].revenue.GreaterThan(order[j].revenue)
	})
	if len(order) > TopSellingLimit {
		order = order[:TopSellingLimit]
	}
	for _, d := range order {
		report.TopSellingProducts = append(report.TopSellingProducts, dto.ProductSalesDetail{
			Product:      *d.product,
			QuantitySold: d.qty,
			Revenue:      d.revenue,
			ProfitMargin: d.margin,
		})
	}
	return report, nil
}

// soldProducts resuelve una sola vez cada producto con OUTCOME, en orden de aparición.
func soldProducts(ctx context.Context, movements []*entity.KardexEntry, catalog ports.ProductCatalog) (map[string]*entity.Product, error) {
	seen := make(map[string]bool)
	var codes []string
	for _, m := range movements {
		if m.TypeMovement == entity.MovementOutcome && !seen[m.ProductID] {
			seen[m.ProductID] = true
			codes = append(codes, m.ProductID)
		}
	}
	list, err := lookup.Products(ctx, catalog, codes)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entity.Product, len(codes))
	for i, cod := range codes {
		out[cod] = list[i]
	}
	return out, nil
}
