package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// WeightedAverageCost acumula con CostCalculator los lotes vigentes con existencias.
// Devuelve la cantidad valorizada y el costo promedio (redondeado a 2 decimales).
func WeightedAverageCost(batches []*entity.StockBatch, today time.Time) (int, decimal.Decimal) {
	qty := decimal.Zero
	cost := decimal.Zero
	for _, b := range batches {
		if b.Quantity <= 0 || IsExpired(b, today) {
			continue
		}
		in := decimal.NewFromInt(int64(b.Quantity))
		cost = CostCalculator(qty, cost, in, b.PurchaseUnitCost)
		qty = qty.Add(in)
	}
	return int(qty.IntPart()), cost.Round(2)
}
