package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/domain/inventory"
)

var today = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestPriceBand_ExtremosIncluidos(t *testing.T) {
	band := inventory.DefaultPriceBand()
	cost := decimal.NewFromInt(100)

	assert.True(t, band.Contains(decimal.NewFromInt(75), cost), "75% del costo es válido")
	assert.True(t, band.Contains(decimal.NewFromInt(175), cost), "175% del costo es válido")
	assert.True(t, band.Contains(decimal.NewFromInt(120), cost))
	assert.False(t, band.Contains(decimal.RequireFromString("74.99"), cost))
	assert.False(t, band.Contains(decimal.RequireFromString("175.01"), cost))
}

func TestIsExpired_SinFechaNoVence(t *testing.T) {
	assert.False(t, inventory.IsExpired(&entity.StockBatch{}, today))
	assert.False(t, inventory.IsExpired(&entity.StockBatch{ExpiryDate: date(2026, 3, 10)}, today), "vence hoy: sigue vigente")
	assert.True(t, inventory.IsExpired(&entity.StockBatch{ExpiryDate: date(2026, 3, 9)}, today))
}

func TestPartitionByExpiry_SumaElTotal(t *testing.T) {
	batches := []*entity.StockBatch{
		{Quantity: 4, ExpiryDate: date(2026, 1, 1)},
		{Quantity: 6, ExpiryDate: date(2026, 5, 1)},
		{Quantity: 3},
	}
	valid, expired := inventory.PartitionByExpiry(batches, today)
	assert.Equal(t, 9, valid)
	assert.Equal(t, 4, expired)
	assert.Equal(t, 13, valid+expired)
}

func TestExpiryPolicy_Validate(t *testing.T) {
	p := inventory.DefaultExpiryPolicy()
	purchase := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.Validate(purchase, nil, today), "sin vencimiento no se valida")
	require.NoError(t, p.Validate(purchase, date(2026, 3, 13), today), "hoy + 3 días es el mínimo aceptado")
	assert.Error(t, p.Validate(purchase, date(2026, 3, 12), today), "menos de 3 días de vida útil")
	assert.Error(t, p.Validate(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), date(2026, 5, 1), today),
		"compra posterior al vencimiento")
}

func TestClassifyStock(t *testing.T) {
	five := 5
	assert.Equal(t, entity.StockStatusOutOfStock, inventory.ClassifyStock(0, &five))
	assert.Equal(t, entity.StockStatusOutOfStock, inventory.ClassifyStock(-1, nil))
	assert.Equal(t, entity.StockStatusLowStock, inventory.ClassifyStock(5, &five))
	assert.Equal(t, entity.StockStatusInStock, inventory.ClassifyStock(6, &five))
	assert.Equal(t, entity.StockStatusInStock, inventory.ClassifyStock(1, nil), "sin umbral no hay LOW_STOCK")
}

func TestWeightedAverageCost_IgnoraVencidosYVacios(t *testing.T) {
	batches := []*entity.StockBatch{
		{Quantity: 10, PurchaseUnitCost: decimal.NewFromInt(100)},
		{Quantity: 30, PurchaseUnitCost: decimal.NewFromInt(200), ExpiryDate: date(2026, 12, 1)},
		{Quantity: 50, PurchaseUnitCost: decimal.NewFromInt(999), ExpiryDate: date(2025, 12, 1)},
		{Quantity: 0, PurchaseUnitCost: decimal.NewFromInt(1)},
	}
	qty, avg := inventory.WeightedAverageCost(batches, today)
	assert.Equal(t, 40, qty)
	assert.True(t, avg.Equal(decimal.NewFromInt(175)), "esperado 175, obtenido %s", avg)
}

func TestCostCalculator_SinStock(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(10))
	assert.True(t, got.IsZero())
}
