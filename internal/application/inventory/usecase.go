package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/kardex"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/application/stock"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-kardex/internal/domain/inventory"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

// ManagementInventoryUseCase registra compras y ventas enviadas por los servicios de compras
// y ventas: lote + INCOME, o descuento FIFO + OUTCOME, en una sola transacción.
type ManagementInventoryUseCase struct {
	txRunner TxRunner
	stock    *stock.StockUseCase
	kardex   *kardex.KardexUseCase
	metrics  ports.InventoryMetrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewManagementInventoryUseCase construye el orquestador. stockUC y kardexUC se reatan a los
// repositorios de cada transacción.
func NewManagementInventoryUseCase(
	txRunner TxRunner,
	stockUC *stock.StockUseCase,
	kardexUC *kardex.KardexUseCase,
	metrics ports.InventoryMetrics,
	log zerolog.Logger,
) *ManagementInventoryUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &ManagementInventoryUseCase{
		txRunner: txRunner,
		stock:    stockUC,
		kardex:   kardexUC,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests). Los casos de uso internos conservan el suyo.
func (uc *ManagementInventoryUseCase) WithClock(now func() time.Time) *ManagementInventoryUseCase {
	uc.now = now
	return uc
}

// RegisterInputInventory registra una compra: rechaza vencimientos anteriores a hoy + días mínimos,
// crea el lote y el movimiento INCOME con el costo unitario de compra.
func (uc *ManagementInventoryUseCase) RegisterInputInventory(ctx context.Context, in dto.PurchaseInventoryRequest) (*dto.InventoryRegistrationResponse, error) {
	today := domaininv.DateOf(uc.now())
	if err := uc.stock.Policy().Expiry.CheckMinimum(in.ExpiryDate.TimePtr(), today); err != nil {
		uc.metrics.RegistrationFailed("purchase", reason(domain.ErrValidation))
		return nil, domain.Validation(err.Error())
	}

	var out dto.InventoryRegistrationResponse
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockBatchRepository, kardexRepo repository.KardexRepository) error {
		batch, err := uc.stock.WithRepository(stockRepo).Create(ctx, dto.StockRequest{
			ProductID:        in.ProductID,
			Quantity:         in.Quantity,
			PurchaseUnitCost: in.PurchaseUnitCost,
			ProviderID:       in.ProviderID,
			PurchaseDate:     in.PurchaseDate,
			ExpiryDate:       in.ExpiryDate,
		})
		if err != nil {
			return err
		}
		movement, err := uc.kardex.WithRepository(kardexRepo).Create(ctx, dto.KardexRequest{
			TypeMovement: entity.MovementIncome,
			ProductID:    in.ProductID,
			Quantity:     in.Quantity,
			UnitPrice:    in.PurchaseUnitCost,
			MovementDate: in.PurchaseDate,
		})
		if err != nil {
			return err
		}
		out = dto.InventoryRegistrationResponse{Stock: *batch, Kardex: *movement}
		return nil
	})
	if err != nil {
		uc.metrics.RegistrationFailed("purchase", reason(err))
		uc.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Int("quantity", in.Quantity).
			Msg("registro de compra rechazado")
		return nil, err
	}

	uc.metrics.PurchaseRegistered(in.Quantity)
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("stock_id", out.Stock.ID).
		Str("kardex_id", out.Kardex.ID).
		Int("quantity", in.Quantity).
		Msg("compra registrada en inventario")
	return &out, nil
}

// RegisterOutputInventory registra una venta: descuenta stock FIFO validando la banda de precio
// y crea el movimiento OUTCOME. Si algo falla no queda ningún lote descontado.
func (uc *ManagementInventoryUseCase) RegisterOutputInventory(ctx context.Context, in dto.SaleInventoryRequest) (*dto.InventoryRegistrationResponse, error) {
	var out dto.InventoryRegistrationResponse
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockBatchRepository, kardexRepo repository.KardexRepository) error {
		batch, err := uc.stock.WithRepository(stockRepo).DecrementQuantity(ctx, in.ProductID, in.Quantity, in.UnitPrice)
		if err != nil {
			return err
		}
		movement, err := uc.kardex.WithRepository(kardexRepo).Create(ctx, dto.KardexRequest{
			TypeMovement: entity.MovementOutcome,
			ProductID:    in.ProductID,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
		})
		if err != nil {
			return err
		}
		out = dto.InventoryRegistrationResponse{Stock: *batch, Kardex: *movement}
		return nil
	})
	if err != nil {
		uc.metrics.RegistrationFailed("sale", reason(err))
		uc.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Int("quantity", in.Quantity).
			Str("unit_price", in.UnitPrice.String()).
			Msg("registro de venta rechazado")
		return nil, err
	}

	uc.metrics.SaleRegistered(in.Quantity)
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("kardex_id", out.Kardex.ID).
		Int("quantity", in.Quantity).
		Msg("venta registrada en inventario")
	return &out, nil
}

// reason etiqueta corta del error para métricas.
func reason(err error) string {
	var de *domain.Error
	switch {
	case errors.As(err, &de) && de.Expired:
		return "expired_stock"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
