package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// KardexRequest body para POST /kardex.
type KardexRequest struct {
	TypeMovement entity.MovementType `json:"typeMovement"`
	ProductID    string              `json:"productId"`
	Quantity     int                 `json:"quantity"`
	UnitPrice    decimal.Decimal     `json:"unitPrice"`
	MovementDate *Date               `json:"movementDate,omitempty"` // por defecto hoy
}

// KardexUpdateRequest body para PUT /kardex/:id. Solo se aplican los campos presentes.
type KardexUpdateRequest struct {
	TypeMovement *entity.MovementType `json:"typeMovement,omitempty"`
	ProductID    *string              `json:"productId,omitempty"`
	Quantity     *int                 `json:"quantity,omitempty"`
	UnitPrice    *decimal.Decimal     `json:"unitPrice,omitempty"`
	MovementDate *Date                `json:"movementDate,omitempty"`
}

// KardexResponse movimiento del kardex en respuestas.
type KardexResponse struct {
	ID           string              `json:"id"`
	TypeMovement entity.MovementType `json:"typeMovement"`
	ProductID    string              `json:"productId"`
	Quantity     int                 `json:"quantity"`
	UnitPrice    decimal.Decimal     `json:"unitPrice"`
	TotalPrice   decimal.Decimal     `json:"totalPrice"`
	MovementDate Date                `json:"movementDate"`
}

// TopSoldProductResponse producto del ranking de más vendidos.
type TopSoldProductResponse struct {
	Product       entity.Product `json:"product"`
	TotalQuantity int            `json:"totalQuantity"`
}

// ToKardexResponse mapea un movimiento a su respuesta.
func ToKardexResponse(k *entity.KardexEntry) KardexResponse {
	return KardexResponse{
		ID:           k.ID,
		TypeMovement: k.TypeMovement,
		ProductID:    k.ProductID,
		Quantity:     k.Quantity,
		UnitPrice:    k.UnitPrice,
		TotalPrice:   k.TotalPrice,
		MovementDate: NewDate(k.MovementDate),
	}
}

// ToKardexResponses mapea una lista de movimientos.
func ToKardexResponses(list []*entity.KardexEntry) []KardexResponse {
	out := make([]KardexResponse, 0, len(list))
	for _, k := range list {
		out = append(out, ToKardexResponse(k))
	}
	return out
}
