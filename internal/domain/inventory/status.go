package inventory

import "github.com/jhoicas/Inventario-kardex/internal/domain/entity"

// ClassifyStock clasifica el total de un producto. threshold nil = sin umbral para LOW_STOCK.
func ClassifyStock(total int, threshold *int) entity.StockStatus {
	switch {
	case total <= 0:
		return entity.StockStatusOutOfStock
	case threshold != nil && total <= *threshold:
		return entity.StockStatusLowStock
	default:
		return entity.StockStatusInStock
	}
}
