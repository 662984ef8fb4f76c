package repository

import (
	"context"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// ProductStockTotal cantidad total en lotes de un producto.
type ProductStockTotal struct {
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`
}

// StockBatchRepository define el puerto de persistencia de los lotes de stock.
// Los listados por producto se devuelven ordenados por vencimiento ascendente
// (sin vencimiento al final), luego fecha de compra y creación.
type StockBatchRepository interface {
	Create(ctx context.Context, batch *entity.StockBatch) error
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	Update(ctx context.Context, batch *entity.StockBatch) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.StockBatch, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockBatch, error)
	// ListByProductForUpdate igual que ListByProduct pero bloquea las filas (SELECT FOR UPDATE) dentro de una tx.
	ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockBatch, error)
	// SumByProduct totaliza la cantidad de todos los lotes agrupada por producto.
	SumByProduct(ctx context.Context) ([]ProductStockTotal, error)
}
