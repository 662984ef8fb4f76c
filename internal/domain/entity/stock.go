package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch representa un lote de compra de un producto. Los lotes de un producto
// se consumen por orden de vencimiento (el más próximo primero).
type StockBatch struct {
	ID                string          `db:"id"`
	ProductID         string          `db:"product_id"`
	Quantity          int             `db:"quantity"` // nunca negativo; un lote en 0 se conserva
	PurchaseUnitCost  decimal.Decimal `db:"purchase_unit_cost"`
	TotalPurchaseCost decimal.Decimal `db:"total_purchase_cost"` // costo unitario x cantidad al crear/editar el lote
	ProviderID        string          `db:"provider_id"`
	PurchaseDate      time.Time       `db:"purchase_date"`
	ExpiryDate        *time.Time      `db:"expiry_date"` // nil = no vence
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// RecalculateTotal actualiza TotalPurchaseCost a partir del costo unitario y la cantidad.
func (b *StockBatch) RecalculateTotal() {
	b.TotalPurchaseCost = b.PurchaseUnitCost.Mul(decimal.NewFromInt(int64(b.Quantity)))
}

// StockStatus clasificación del nivel de inventario de un producto.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "IN_STOCK"
	StockStatusLowStock   StockStatus = "LOW_STOCK"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)
