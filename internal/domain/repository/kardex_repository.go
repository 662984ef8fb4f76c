package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// KardexFilter filtros opcionales para listar movimientos. Fechas inclusivas.
type KardexFilter struct {
	From      *time.Time
	To        *time.Time
	Type      entity.MovementType // vacío = todos
	ProductID string
}

// ProductSales cantidad vendida (OUTCOME) de un producto en un rango.
type ProductSales struct {
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`
}

// KardexRepository define el puerto de persistencia del kardex.
// Los listados se ordenan por fecha de movimiento y luego por creación.
type KardexRepository interface {
	Create(ctx context.Context, entry *entity.KardexEntry) error
	GetByID(ctx context.Context, id string) (*entity.KardexEntry, error)
	Update(ctx context.Context, entry *entity.KardexEntry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.KardexEntry, error)
	Find(ctx context.Context, filter KardexFilter) ([]*entity.KardexEntry, error)
	// TopSoldProducts ranking de productos por cantidad OUTCOME, descendente.
	TopSoldProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
}
