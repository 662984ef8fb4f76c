package dto

import "github.com/shopspring/decimal"

// PurchaseInventoryRequest body de POST /inventory/register-purchase (servicio de compras).
type PurchaseInventoryRequest struct {
	Quantity         int             `json:"quantity"`
	PurchaseUnitCost decimal.Decimal `json:"purchaseUnitCost"`
	ProviderID       string          `json:"providerId"`
	ProductID        string          `json:"productId"`
	ExpiryDate       *Date           `json:"expiryDate,omitempty"`
	PurchaseDate     *Date           `json:"purchaseDate,omitempty"`
}

// SaleInventoryRequest body de POST /inventory/register-sale (servicio de ventas).
type SaleInventoryRequest struct {
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ProductID string          `json:"productId"`
}

// InventoryRegistrationResponse lote afectado y movimiento de kardex creado.
type InventoryRegistrationResponse struct {
	Stock  StockResponse  `json:"stock"`
	Kardex KardexResponse `json:"kardex"`
}
