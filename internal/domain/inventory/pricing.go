package inventory

import "github.com/shopspring/decimal"

// PriceBand banda permitida para el precio de venta respecto al costo de compra de un lote.
type PriceBand struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

// DefaultPriceBand: entre 75% y 175% del costo del lote.
func DefaultPriceBand() PriceBand {
	return PriceBand{
		Lower: decimal.NewFromFloat(0.75),
		Upper: decimal.NewFromFloat(1.75),
	}
}

// Contains indica si unitPrice está dentro de [Lower*cost, Upper*cost], extremos incluidos.
func (b PriceBand) Contains(unitPrice, cost decimal.Decimal) bool {
	lo, hi := b.Limits(cost)
	return unitPrice.GreaterThanOrEqual(lo) && unitPrice.LessThanOrEqual(hi)
}

// Limits devuelve el mínimo y el máximo permitidos para un costo.
func (b PriceBand) Limits(cost decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	return cost.Mul(b.Lower), cost.Mul(b.Upper)
}
