package ports

import (
	"context"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// ProductCatalog puerto de salida hacia el servicio de catálogo de productos.
// Los errores remotos llegan como domain.ErrValidation con el mensaje del servicio.
type ProductCatalog interface {
	GetProduct(ctx context.Context, cod string) (*entity.Product, error)
}

// ProviderRegistry puerto de salida hacia el servicio de proveedores.
type ProviderRegistry interface {
	GetProvider(ctx context.Context, id string) (*entity.Provider, error)
}
