package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/lookup"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/domain/inventory"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

// Policy reglas de negocio configurables del stock.
type Policy struct {
	Band   inventory.PriceBand
	Expiry inventory.ExpiryPolicy
}

// DefaultPolicy banda 0.75–1.75 y 3 días mínimos de vida útil.
func DefaultPolicy() Policy {
	return Policy{Band: inventory.DefaultPriceBand(), Expiry: inventory.DefaultExpiryPolicy()}
}

// StockUseCase administra los lotes de stock: consumo FIFO por vencimiento,
// reposición, particiones por vencimiento y consultas de umbral/estado.
type StockUseCase struct {
	repo      repository.StockBatchRepository
	catalog   ports.ProductCatalog
	providers ports.ProviderRegistry
	policy    Policy
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	repo repository.StockBatchRepository,
	catalog ports.ProductCatalog,
	providers ports.ProviderRegistry,
	policy Policy,
) *StockUseCase {
	return &StockUseCase{repo: repo, catalog: catalog, providers: providers, policy: policy, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *StockUseCase) WithClock(now func() time.Time) *StockUseCase {
	uc.now = now
	return uc
}

// WithRepository devuelve una copia que opera sobre otro repositorio (por ejemplo uno atado a una tx).
func (uc *StockUseCase) WithRepository(repo repository.StockBatchRepository) *StockUseCase {
	cp := *uc
	cp.repo = repo
	return &cp
}

// Policy devuelve las reglas vigentes.
func (uc *StockUseCase) Policy() Policy { return uc.policy }

func (uc *StockUseCase) today() time.Time { return inventory.DateOf(uc.now()) }

// Create registra un lote. totalPurchaseCost = costo unitario x cantidad.
func (uc *StockUseCase) Create(ctx context.Context, in dto.StockRequest) (*dto.StockResponse, error) {
	if in.ProductID == "" || in.ProviderID == "" {
		return nil, domain.Validation("productId y providerId son obligatorios")
	}
	if in.Quantity <= 0 {
		return nil, domain.Validation("la cantidad debe ser mayor que cero")
	}
	if in.PurchaseUnitCost.IsNegative() {
		return nil, domain.Validation("el costo unitario no puede ser negativo")
	}
	if _, err := lookup.Product(ctx, uc.catalog, in.ProductID); err != nil {
		return nil, err
	}
	if err := uc.ensureProvider(ctx, in.ProviderID); err != nil {
		return nil, err
	}

	today := uc.today()
	purchaseDate := today
	if in.PurchaseDate.IsSet() {
		purchaseDate = in.PurchaseDate.Time
	}
	expiry := in.ExpiryDate.TimePtr()
	if err := uc.policy.Expiry.Validate(purchaseDate, expiry, today); err != nil {
		return nil, domain.Validation(err.Error())
	}

	now := uc.now()
	batch := &entity.StockBatch{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		Quantity:         in.Quantity,
		PurchaseUnitCost: in.PurchaseUnitCost,
		ProviderID:       in.ProviderID,
		PurchaseDate:     inventory.DateOf(purchaseDate),
		ExpiryDate:       normalizeDate(expiry),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	batch.RecalculateTotal()
	if err := uc.repo.Create(ctx, batch); err != nil {
		return nil, err
	}
	resp := dto.ToStockResponse(batch)
	return &resp, nil
}

// Update actualiza parcialmente un lote y recalcula su costo total.
func (uc *StockUseCase) Update(ctx context.Context, id string, in dto.StockUpdateRequest) (*dto.StockResponse, error) {
	batch, err := uc.getBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ProductID != nil && *in.ProductID != batch.ProductID {
		if _, err := lookup.Product(ctx, uc.catalog, *in.ProductID); err != nil {
			return nil, err
		}
		batch.ProductID = *in.ProductID
	}
	if in.ProviderID != nil && *in.ProviderID != batch.ProviderID {
		if err := uc.ensureProvider(ctx, *in.ProviderID); err != nil {
			return nil, err
		}
		batch.ProviderID = *in.ProviderID
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.Validation("la cantidad no puede ser negativa")
		}
		batch.Quantity = *in.Quantity
	}
	if in.PurchaseUnitCost != nil {
		if in.PurchaseUnitCost.IsNegative() {
			return nil, domain.Validation("el costo unitario no puede ser negativo")
		}
		batch.PurchaseUnitCost = *in.PurchaseUnitCost
	}
	if in.PurchaseDate.IsSet() || in.ExpiryDate.IsSet() {
		if in.PurchaseDate.IsSet() {
			batch.PurchaseDate = inventory.DateOf(in.PurchaseDate.Time)
		}
		if in.ExpiryDate.IsSet() {
			batch.ExpiryDate = normalizeDate(in.ExpiryDate.TimePtr())
		}
		if err := uc.policy.Expiry.Validate(batch.PurchaseDate, batch.ExpiryDate, uc.today()); err != nil {
			return nil, domain.Validation(err.Error())
		}
	}
	batch.RecalculateTotal()
	batch.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, batch); err != nil {
		return nil, err
	}
	resp := dto.ToStockResponse(batch)
	return &resp, nil
}

// GetByID obtiene un lote.
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockResponse, error) {
	batch, err := uc.getBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToStockResponse(batch)
	return &resp, nil
}

// List lista lotes paginados.
func (uc *StockUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.StockResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toResponses(list), nil
}

// ListByProduct lista los lotes de un producto en orden de consumo.
func (uc *StockUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.StockResponse, error) {
	list, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toResponses(list), nil
}

// Delete elimina un lote.
func (uc *StockUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.getBatch(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// DecrementQuantity consume quantity unidades de los lotes vigentes en orden de vencimiento.
// Cada lote tocado debe admitir unitPrice dentro de su banda de precio; el primer lote fuera
// de banda corta la operación y los lotes ya descontados quedan persistidos (usar dentro de
// una tx para atomicidad). Devuelve el último lote tocado.
func (uc *StockUseCase) DecrementQuantity(ctx context.Context, productID string, quantity int, unitPrice decimal.Decimal) (*dto.StockResponse, error) {
	if quantity <= 0 {
		return nil, domain.Validation("la cantidad debe ser mayor que cero")
	}
	batches, err := uc.loadForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	today := uc.today()
	valid, expired := inventory.PartitionByExpiry(batches, today)
	if valid+expired < quantity {
		return nil, domain.InsufficientStock(fmt.Sprintf(
			"stock insuficiente para el producto %s: disponible %d, solicitado %d",
			productID, valid+expired, quantity), false)
	}
	if valid < quantity {
		return nil, domain.InsufficientStock(fmt.Sprintf(
			"stock válido insuficiente para el producto %s, parte del stock está vencido: vigente %d, vencido %d, solicitado %d",
			productID, valid, expired, quantity), true)
	}

	remaining := quantity
	var last *entity.StockBatch
	for _, b := range batches {
		if remaining == 0 {
			break
		}
		if b.Quantity <= 0 || inventory.IsExpired(b, today) {
			continue
		}
		if !uc.policy.Band.Contains(unitPrice, b.PurchaseUnitCost) {
			lo, hi := uc.policy.Band.Limits(b.PurchaseUnitCost)
			return nil, domain.Validationf(
				"el precio unitario %s está fuera del rango permitido [%s, %s] para el lote %s",
				unitPrice.String(), lo.StringFixed(2), hi.StringFixed(2), b.ID)
		}
		take := min(b.Quantity, remaining)
		b.Quantity -= take
		remaining -= take
		b.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, b); err != nil {
			return nil, err
		}
		last = b
	}
	resp := dto.ToStockResponse(last)
	return &resp, nil
}

// IncrementQuantity suma quantity al lote más antiguo (primer vencimiento) del producto.
func (uc *StockUseCase) IncrementQuantity(ctx context.Context, productID string, quantity int) (*dto.StockResponse, error) {
	if quantity <= 0 {
		return nil, domain.Validation("la cantidad debe ser mayor que cero")
	}
	batches, err := uc.loadForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	oldest := batches[0]
	oldest.Quantity += quantity
	return uc.save(ctx, oldest)
}

// UpdateQuantity fija la cantidad del lote más antiguo (primer vencimiento) del producto.
func (uc *StockUseCase) UpdateQuantity(ctx context.Context, productID string, quantity int) (*dto.StockResponse, error) {
	if quantity < 0 {
		return nil, domain.Validation("la cantidad no puede ser negativa")
	}
	batches, err := uc.loadForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	oldest := batches[0]
	oldest.Quantity = quantity
	return uc.save(ctx, oldest)
}

// GetExpiredStock suma las cantidades de los lotes vencidos.
func (uc *StockUseCase) GetExpiredStock(ctx context.Context, productID string) (int, error) {
	total, err := uc.GetTotalStock(ctx, productID)
	if err != nil {
		return 0, err
	}
	return total.ExpiredStock, nil
}

// GetStockWithoutExpiringDate suma las cantidades de los lotes vigentes (incluye los que no vencen).
func (uc *StockUseCase) GetStockWithoutExpiringDate(ctx context.Context, productID string) (int, error) {
	total, err := uc.GetTotalStock(ctx, productID)
	if err != nil {
		return 0, err
	}
	return total.ValidStock, nil
}

// GetTotalStock stock vigente, vencido y total de un producto.
func (uc *StockUseCase) GetTotalStock(ctx context.Context, productID string) (*dto.StockTotalResponse, error) {
	batches, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, domain.NotFound(domain.ResourceStock, productID)
	}
	valid, expired := inventory.PartitionByExpiry(batches, uc.today())
	return &dto.StockTotalResponse{
		ProductID:    productID,
		ValidStock:   valid,
		ExpiredStock: expired,
		TotalStock:   valid + expired,
	}, nil
}

// CheckStockThreshold productos cuyo total está por debajo de threshold. Si category no está
// vacío se filtra por nombre de categoría exacto (distingue mayúsculas).
func (uc *StockUseCase) CheckStockThreshold(ctx context.Context, threshold int, category string) ([]dto.ProductStockResponse, error) {
	totals, err := uc.repo.SumByProduct(ctx)
	if err != nil {
		return nil, err
	}
	var below []repository.ProductStockTotal
	for _, t := range totals {
		if t.Quantity < threshold {
			below = append(below, t)
		}
	}
	codes := make([]string, len(below))
	for i, t := range below {
		codes[i] = t.ProductID
	}
	products, err := lookup.Products(ctx, uc.catalog, codes)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProductStockResponse, 0, len(below))
	for i, t := range below {
		p := products[i]
		if category != "" && p.Category.Name != category {
			continue
		}
		out = append(out, dto.ProductStockResponse{Product: *p, TotalQuantity: t.Quantity})
	}
	return out, nil
}

// GetInventoryStatus clasifica cada producto con lotes (y cada producto pedido en thresholds)
// como OUT_OF_STOCK, LOW_STOCK o IN_STOCK. Resultado ordenado por producto.
func (uc *StockUseCase) GetInventoryStatus(ctx context.Context, thresholds map[string]int) ([]dto.InventoryStatusResponse, error) {
	totals, err := uc.repo.SumByProduct(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]int, len(totals)+len(thresholds))
	for _, t := range totals {
		byProduct[t.ProductID] = t.Quantity
	}
	for productID := range thresholds {
		if _, ok := byProduct[productID]; !ok {
			byProduct[productID] = 0
		}
	}

	out := make([]dto.InventoryStatusResponse, 0, len(byProduct))
	for productID, total := range byProduct {
		var thr *int
		if v, ok := thresholds[productID]; ok {
			thr = &v
		}
		out = append(out, dto.InventoryStatusResponse{
			ProductID:     productID,
			TotalQuantity: total,
			Threshold:     thr,
			Status:        inventory.ClassifyStock(total, thr),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// GetValuation valoriza el stock vigente del producto a costo promedio ponderado.
func (uc *StockUseCase) GetValuation(ctx context.Context, productID string) (*dto.StockValuationResponse, error) {
	batches, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, domain.NotFound(domain.ResourceStock, productID)
	}
	qty, avg := inventory.WeightedAverageCost(batches, uc.today())
	return &dto.StockValuationResponse{
		ProductID:     productID,
		ValidQuantity: qty,
		AverageCost:   avg,
		Valuation:     avg.Mul(decimal.NewFromInt(int64(qty))).Round(2),
	}, nil
}

func (uc *StockUseCase) getBatch(ctx context.Context, id string) (*entity.StockBatch, error) {
	batch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.NotFound(domain.ResourceStock, id)
	}
	return batch, nil
}

// loadForUpdate carga (y bloquea dentro de una tx) los lotes del producto; sin lotes es NotFound.
func (uc *StockUseCase) loadForUpdate(ctx context.Context, productID string) ([]*entity.StockBatch, error) {
	batches, err := uc.repo.ListByProductForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, domain.NotFound(domain.ResourceStock, productID)
	}
	return batches, nil
}

func (uc *StockUseCase) save(ctx context.Context, batch *entity.StockBatch) (*dto.StockResponse, error) {
	batch.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, batch); err != nil {
		return nil, err
	}
	resp := dto.ToStockResponse(batch)
	return &resp, nil
}

func (uc *StockUseCase) ensureProvider(ctx context.Context, id string) error {
	p, err := uc.providers.GetProvider(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound(domain.ResourceProvider, id)
	}
	return nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := inventory.DateOf(*t)
	return &d
}

func toResponses(list []*entity.StockBatch) []dto.StockResponse {
	out := make([]dto.StockResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ToStockResponse(b))
	}
	return out
}
