package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// ProductSalesDetail ventas acumuladas de un producto en el reporte de ganancias.
type ProductSalesDetail struct {
	Product      entity.Product  `json:"product"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
	ProfitMargin decimal.Decimal `json:"profitMargin"` // % sobre el ingreso unitario, 4 decimales
}

// EarningsReportResponse reporte de ganancias de un rango de fechas.
type EarningsReportResponse struct {
	StartDate          Date                       `json:"startDate"`
	EndDate            Date                       `json:"endDate"`
	TotalEarnings      decimal.Decimal            `json:"totalEarnings"`
	TotalCosts         decimal.Decimal            `json:"totalCosts"`
	NetProfit          decimal.Decimal            `json:"netProfit"`
	TotalProductsSold  int                        `json:"totalProductsSold"`
	TopSellingProducts []ProductSalesDetail       `json:"topSellingProducts"`
	EarningsByCategory map[string]decimal.Decimal `json:"earningsByCategory"`
}
