// Package lookup resuelve productos contra el catálogo externo en paralelo.
package lookup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// MaxConcurrentLookups llamadas simultáneas al catálogo por operación.
const MaxConcurrentLookups = 8

// Product obtiene un producto y exige que exista.
func Product(ctx context.Context, catalog ports.ProductCatalog, cod string) (*entity.Product, error) {
	p, err := catalog.GetProduct(ctx, cod)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound(domain.ResourceProduct, cod)
	}
	return p, nil
}

// Products resuelve los códigos conservando su orden. El primer error cancela el resto.
func Products(ctx context.Context, catalog ports.ProductCatalog, codes []string) ([]*entity.Product, error) {
	out := make([]*entity.Product, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentLookups)
	for i, cod := range codes {
		i, cod := i, cod
		g.Go(func() error {
			p, err := Product(gctx, catalog, cod)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
