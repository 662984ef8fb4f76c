package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo externo, consultado por código.
type Product struct {
	Cod       string          `json:"cod"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	Brand     Brand           `json:"brand"`
	SalePrice decimal.Decimal `json:"salePrice"`
}

// Brand marca de un producto.
type Brand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
