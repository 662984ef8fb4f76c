package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// StockRequest body para POST /stock.
type StockRequest struct {
	ProductID        string          `json:"productId"`
	Quantity         int             `json:"quantity"`
	PurchaseUnitCost decimal.Decimal `json:"purchaseUnitCost"`
	ProviderID       string          `json:"providerId"`
	PurchaseDate     *Date           `json:"purchaseDate,omitempty"` // por defecto hoy
	ExpiryDate       *Date           `json:"expiryDate,omitempty"`
}

// StockUpdateRequest body para PUT /stock/:id. Solo se aplican los campos presentes.
type StockUpdateRequest struct {
	ProductID        *string          `json:"productId,omitempty"`
	Quantity         *int             `json:"quantity,omitempty"`
	PurchaseUnitCost *decimal.Decimal `json:"purchaseUnitCost,omitempty"`
	ProviderID       *string          `json:"providerId,omitempty"`
	PurchaseDate     *Date            `json:"purchaseDate,omitempty"`
	ExpiryDate       *Date            `json:"expiryDate,omitempty"`
}

// StockQuantityRequest body para PUT /stock/increment y PUT /stock/quantity.
type StockQuantityRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StockDecrementRequest body para PUT /stock/decrement.
type StockDecrementRequest struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// StockResponse lote de stock en respuestas.
type StockResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"productId"`
	Quantity          int             `json:"quantity"`
	PurchaseUnitCost  decimal.Decimal `json:"purchaseUnitCost"`
	TotalPurchaseCost decimal.Decimal `json:"totalPurchaseCost"`
	ProviderID        string          `json:"providerId"`
	PurchaseDate      Date            `json:"purchaseDate"`
	ExpiryDate        *Date           `json:"expiryDate,omitempty"`
}

// StockTotalResponse stock vigente, vencido y total de un producto.
type StockTotalResponse struct {
	ProductID    string `json:"productId"`
	ValidStock   int    `json:"validStock"`
	ExpiredStock int    `json:"expiredStock"`
	TotalStock   int    `json:"totalStock"`
}

// ProductStockResponse producto bajo el umbral con su cantidad total.
type ProductStockResponse struct {
	Product       entity.Product `json:"product"`
	TotalQuantity int            `json:"totalQuantity"`
}

// InventoryStatusRequest body para POST /stock/status. Umbral de LOW_STOCK por producto.
type InventoryStatusRequest struct {
	Thresholds map[string]int `json:"thresholds"`
}

// InventoryStatusResponse estado de inventario de un producto.
type InventoryStatusResponse struct {
	ProductID     string             `json:"productId"`
	TotalQuantity int                `json:"totalQuantity"`
	Threshold     *int               `json:"threshold,omitempty"`
	Status        entity.StockStatus `json:"status"`
}

// StockValuationResponse valorización del stock vigente por costo promedio ponderado.
type StockValuationResponse struct {
	ProductID     string          `json:"productId"`
	ValidQuantity int             `json:"validQuantity"`
	AverageCost   decimal.Decimal `json:"averageCost"`
	Valuation     decimal.Decimal `json:"valuation"`
}

// ToStockResponse mapea un lote a su respuesta.
func ToStockResponse(b *entity.StockBatch) StockResponse {
	return StockResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		Quantity:          b.Quantity,
		PurchaseUnitCost:  b.PurchaseUnitCost,
		TotalPurchaseCost: b.TotalPurchaseCost,
		ProviderID:        b.ProviderID,
		PurchaseDate:      NewDate(b.PurchaseDate),
		ExpiryDate:        NewDatePtr(b.ExpiryDate),
	}
}
