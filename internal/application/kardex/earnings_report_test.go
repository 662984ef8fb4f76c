package kardex_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-kardex/internal/application/kardex"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports/mocks"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

func movement(typ entity.MovementType, productID string, qty int, price string) *entity.KardexEntry {
	k := &entity.KardexEntry{
		TypeMovement: typ,
		ProductID:    productID,
		Quantity:     qty,
		UnitPrice:    decimal.RequireFromString(price),
		MovementDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	k.RecalculateTotal()
	return k
}

func TestBuildEarningsReport_SinMovimientos(t *testing.T) {
	report, err := kardex.BuildEarningsReport(context.Background(), nil, mocks.NewMockProductCatalog())
	require.NoError(t, err)

	assert.True(t, report.TotalEarnings.IsZero())
	assert.True(t, report.TotalCosts.IsZero())
	assert.True(t, report.NetProfit.IsZero())
	assert.Zero(t, report.TotalProductsSold)
	assert.NotNil(t, report.TopSellingProducts)
	assert.Empty(t, report.TopSellingProducts)
	assert.NotNil(t, report.EarningsByCategory)
	assert.Empty(t, report.EarningsByCategory)
}

func TestBuildEarningsReport_VentaYCompraDelMismoProducto(t *testing.T) {
	catalog := mocks.NewMockProductCatalog(entity.Product{
		Cod: "P", Name: "Televisor", Category: entity.Category{Name: "Electronics"},
	})
	movements := []*entity.KardexEntry{
		movement(entity.MovementOutcome, "P", 2, "1000"),
		movement(entity.MovementIncome, "P", 5, "800"),
	}

	report, err := kardex.BuildEarningsReport(context.Background(), movements, catalog)
	require.NoError(t, err)

	assert.Equal(t, "2000", report.TotalEarnings.String())
	assert.Equal(t, "4000", report.TotalCosts.String())
	assert.Equal(t, "-2000", report.NetProfit.String())
	assert.Equal(t, 2, report.TotalProductsSold)

	require.Len(t, report.TopSellingProducts, 1)
	top := report.TopSellingProducts[0]
	assert.Equal(t, "P", top.Product.Cod)
	assert.Equal(t, 2, top.QuantitySold)
	assert.Equal(t, "2000", top.Revenue.String())
	assert.Equal(t, "20.0000", top.ProfitMargin.StringFixed(4))

	assert.Equal(t, "2000", report.EarningsByCategory["Electronics"].String())
}

func TestBuildEarningsReport_CompraAntesDeVentaNoCalculaMargen(t *testing.T) {
	catalog := mocks.NewMockProductCatalog(entity.Product{Cod: "P", Category: entity.Category{Name: "Food"}})
	movements := []*entity.KardexEntry{
		movement(entity.MovementIncome, "P", 5, "800"),
		movement(entity.MovementOutcome, "P", 1, "1000"),
	}

	report, err := kardex.BuildEarningsReport(context.Background(), movements, catalog)
	require.NoError(t, err)
	require.Len(t, report.TopSellingProducts, 1)
	assert.True(t, report.TopSellingProducts[0].ProfitMargin.IsZero(),
		"el margen solo se calcula si el producto ya tenía ventas")
}

func TestBuildEarningsReport_RedondeoDelMargen(t *testing.T) {
	catalog := mocks.NewMockProductCatalog(entity.Product{Cod: "P", Category: entity.Category{Name: "Food"}})
	movements := []*entity.KardexEntry{
		movement(entity.MovementOutcome, "P", 3, "10"),
		movement(entity.MovementOutcome, "P", 0, "0"),
		movement(entity.MovementIncome, "P", 1, "7"),
	}
	movements[1].TotalPrice = decimal.NewFromInt(1) // ingreso total 31 sobre 3 unidades

	report, err := kardex.BuildEarningsReport(context.Background(), movements, catalog)
	require.NoError(t, err)

	// ingreso unitario = round(31/3, 2) = 10.33; margen = (10.33-7)/10.33*100 = 32.2362...
	assert.Equal(t, "32.2362", report.TopSellingProducts[0].ProfitMargin.StringFixed(4))
}

func TestBuildEarningsReport_SoloComprasNoEntranAlRanking(t *testing.T) {
	catalog := mocks.NewMockProductCatalog()
	movements := []*entity.KardexEntry{movement(entity.MovementIncome, "SOLO-COMPRA", 4, "10")}

	report, err := kardex.BuildEarningsReport(context.Background(), movements, catalog)
	require.NoError(t, err)
	assert.Empty(t, report.TopSellingProducts)
	assert.Equal(t, "40", report.TotalCosts.String())
	assert.Zero(t, catalog.Calls(), "los productos solo con compras no se consultan al catálogo")
}

func TestBuildEarningsReport_Top10PorIngreso(t *testing.T) {
	catalog := mocks.NewMockProductCatalog()
	var movements []*entity.KardexEntry
	for i := 1; i <= 15; i++ {
		cod := fmt.Sprintf("P%02d", i)
		catalog.Add(entity.Product{Cod: cod, Category: entity.Category{Name: "General"}})
		movements = append(movements, movement(entity.MovementOutcome, cod, 1, fmt.Sprintf("%d", i*100)))
	}

	report, err := kardex.BuildEarningsReport(context.Background(), movements, catalog)
	require.NoError(t, err)
	require.Len(t, report.TopSellingProducts, 10)
	assert.Equal(t, "P15", report.TopSellingProducts[0].Product.Cod)
	assert.Equal(t, "P06", report.TopSellingProducts[9].Product.Cod)
	for i := 1; i < len(report.TopSellingProducts); i++ {
		assert.True(t, report.TopSellingProducts[i-1].Revenue.GreaterThan(report.TopSellingProducts[i].Revenue),
			"orden descendente por ingreso")
	}
}

func TestBuildEarningsReport_EmpateConservaOrdenDeAparicion(t *testing.T) {
	catalog := mocks.NewMockProductCatalog(
		entity.Product{Cod: "B", Category: entity.Category{Name: "X"}},
		entity.Product{Cod: "A", Category: entity.Category{Name: "Y"}},
	)
	movements := []*entity.KardexEntry{
		movement(entity.MovementOutcome, "B", 1, "50"),
		movement(entity.MovementOutcome, "A", 1, "50"),
	}

	report, err := kardex.BuildEarningsReport(context.Background(), movements, catalog)
	require.NoError(t, err)
	require.Len(t, report.TopSellingProducts, 2)
	assert.Equal(t, "B", report.TopSellingProducts[0].Product.Cod)
	assert.Equal(t, "A", report.TopSellingProducts[1].Product.Cod)
	assert.Len(t, report.EarningsByCategory, 2)
}

func TestBuildEarningsReport_ErrorDelCatalogo(t *testing.T) {
	catalog := mocks.NewMockProductCatalog()
	movements := []*entity.KardexEntry{movement(entity.MovementOutcome, "FALTA", 1, "10")}

	_, err := kardex.BuildEarningsReport(context.Background(), movements, catalog)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
