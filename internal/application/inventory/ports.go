package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el lote y el movimiento de kardex de un registro se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockBatchRepository,
		kardexRepo repository.KardexRepository,
	) error) error
}
