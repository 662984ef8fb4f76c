package ports

import (
	"context"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
)

// EarningsPDFGenerator genera la representación en PDF del reporte de ganancias.
type EarningsPDFGenerator interface {
	GenerateEarningsPDF(ctx context.Context, report *dto.EarningsReportResponse) ([]byte, error)
}

// InventoryMetrics registra métricas de las operaciones de inventario.
type InventoryMetrics interface {
	PurchaseRegistered(quantity int)
	SaleRegistered(quantity int)
	RegistrationFailed(operation, reason string)
}

// NopMetrics implementación vacía de InventoryMetrics.
type NopMetrics struct{}

func (NopMetrics) PurchaseRegistered(int)            {}
func (NopMetrics) SaleRegistered(int)                {}
func (NopMetrics) RegistrationFailed(string, string) {}
