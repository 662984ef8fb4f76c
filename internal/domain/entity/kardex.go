package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del kardex.
type MovementType string

// Tipos de movimiento del kardex.
const (
	MovementIncome  MovementType = "INCOME"  // entrada por compra
	MovementOutcome MovementType = "OUTCOME" // salida por venta
)

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	return t == MovementIncome || t == MovementOutcome
}

// KardexEntry representa un movimiento del kardex (registro de auditoría).
type KardexEntry struct {
	ID           string          `db:"id"`
	TypeMovement MovementType    `db:"type_movement"`
	ProductID    string          `db:"product_id"`
	Quantity     int             `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	TotalPrice   decimal.Decimal `db:"total_price"` // precio unitario x cantidad
	MovementDate time.Time       `db:"movement_date"`
	CreatedAt    time.Time       `db:"created_at"`
}

// RecalculateTotal actualiza TotalPrice a partir del precio unitario y la cantidad.
func (k *KardexEntry) RecalculateTotal() {
	k.TotalPrice = k.UnitPrice.Mul(decimal.NewFromInt(int64(k.Quantity)))
}
