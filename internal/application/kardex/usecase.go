package kardex

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/lookup"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/domain/inventory"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

// DefaultMostSoldLimit tamaño del ranking cuando no se indica limit.
const DefaultMostSoldLimit = 10

// KardexUseCase administra el kardex: altas/ediciones de movimientos, historial,
// ranking de más vendidos y reporte de ganancias.
type KardexUseCase struct {
	repo    repository.KardexRepository
	catalog ports.ProductCatalog
	pdf     ports.EarningsPDFGenerator
	now     func() time.Time
}

// NewKardexUseCase construye el caso de uso. pdf puede ser nil si no se exporta a PDF.
func NewKardexUseCase(repo repository.KardexRepository, catalog ports.ProductCatalog, pdf ports.EarningsPDFGenerator) *KardexUseCase {
	return &KardexUseCase{repo: repo, catalog: catalog, pdf: pdf, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *KardexUseCase) WithClock(now func() time.Time) *KardexUseCase {
	uc.now = now
	return uc
}

// WithRepository devuelve una copia que opera sobre otro repositorio (por ejemplo uno atado a una tx).
func (uc *KardexUseCase) WithRepository(repo repository.KardexRepository) *KardexUseCase {
	cp := *uc
	cp.repo = repo
	return &cp
}

func (uc *KardexUseCase) today() time.Time { return inventory.DateOf(uc.now()) }

// Create registra un movimiento. movementDate por defecto hoy; totalPrice = unitPrice x quantity.
func (uc *KardexUseCase) Create(ctx context.Context, in dto.KardexRequest) (*dto.KardexResponse, error) {
	if !in.TypeMovement.Valid() {
		return nil, domain.Validationf("tipo de movimiento inválido %q (INCOME u OUTCOME)", in.TypeMovement)
	}
	if in.ProductID == "" {
		return nil, domain.Validation("productId es obligatorio")
	}
	if in.Quantity <= 0 {
		return nil, domain.Validation("la cantidad debe ser mayor que cero")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.Validation("el precio unitario no puede ser negativo")
	}
	if _, err := lookup.Product(ctx, uc.catalog, in.ProductID); err != nil {
		return nil, err
	}

	movementDate := uc.today()
	if in.MovementDate.IsSet() {
		movementDate = inventory.DateOf(in.MovementDate.Time)
	}
	entry := &entity.KardexEntry{
		ID:           uuid.New().String(),
		TypeMovement: in.TypeMovement,
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		MovementDate: movementDate,
		CreatedAt:    uc.now(),
	}
	entry.RecalculateTotal()
	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	resp := dto.ToKardexResponse(entry)
	return &resp, nil
}

// Update edita un movimiento. El producto solo se valida si viene en la petición; el total se
// recalcula con la cantidad y el precio recibidos o, en su defecto, los persistidos.
func (uc *KardexUseCase) Update(ctx context.Context, id string, in dto.KardexUpdateRequest) (*dto.KardexResponse, error) {
	entry, err := uc.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ProductID != nil {
		if _, err := lookup.Product(ctx, uc.catalog, *in.ProductID); err != nil {
			return nil, err
		}
		entry.ProductID = *in.ProductID
	}
	if in.TypeMovement != nil {
		if !in.TypeMovement.Valid() {
			return nil, domain.Validationf("tipo de movimiento inválido %q (INCOME u OUTCOME)", *in.TypeMovement)
		}
		entry.TypeMovement = *in.TypeMovement
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, domain.Validation("la cantidad debe ser mayor que cero")
		}
		entry.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.Validation("el precio unitario no puede ser negativo")
		}
		entry.UnitPrice = *in.UnitPrice
	}
	if in.MovementDate.IsSet() {
		entry.MovementDate = inventory.DateOf(in.MovementDate.Time)
	}
	entry.RecalculateTotal()
	if err := uc.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	resp := dto.ToKardexResponse(entry)
	return &resp, nil
}

// GetByID obtiene un movimiento.
func (uc *KardexUseCase) GetByID(ctx context.Context, id string) (*dto.KardexResponse, error) {
	entry, err := uc.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToKardexResponse(entry)
	return &resp, nil
}

// List lista movimientos paginados, más recientes primero.
func (uc *KardexUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.KardexResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return dto.ToKardexResponses(list), nil
}

// Delete elimina un movimiento.
func (uc *KardexUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.getEntry(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// ListByProduct historial de movimientos de un producto.
func (uc *KardexUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.KardexResponse, error) {
	list, err := uc.repo.Find(ctx, repository.KardexFilter{ProductID: productID})
	if err != nil {
		return nil, err
	}
	return dto.ToKardexResponses(list), nil
}

// ListBetweenDates movimientos del rango (fechas inclusivas), opcionalmente de un tipo.
func (uc *KardexUseCase) ListBetweenDates(ctx context.Context, from, to time.Time, typ entity.MovementType) ([]dto.KardexResponse, error) {
	if typ != "" && !typ.Valid() {
		return nil, domain.Validationf("tipo de movimiento inválido %q (INCOME u OUTCOME)", typ)
	}
	from, to, err := checkRange(from, to)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.Find(ctx, repository.KardexFilter{From: &from, To: &to, Type: typ})
	if err != nil {
		return nil, err
	}
	return dto.ToKardexResponses(list), nil
}

// GetMostSoldProductsReport ranking de productos por unidades vendidas. Sin fechas usa el
// último mes; limit <= 0 usa DefaultMostSoldLimit.
func (uc *KardexUseCase) GetMostSoldProductsReport(ctx context.Context, limit int, from, to *time.Time) ([]dto.TopSoldProductResponse, error) {
	if limit <= 0 {
		limit = DefaultMostSoldLimit
	}
	start, end := uc.defaultRange(from, to)
	start, end, err := checkRange(start, end)
	if err != nil {
		return nil, err
	}
	ranking, err := uc.repo.TopSoldProducts(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	codes := make([]string, len(ranking))
	for i, r := range ranking {
		codes[i] = r.ProductID
	}
	products, err := lookup.Products(ctx, uc.catalog, codes)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopSoldProductResponse, len(ranking))
	for i, r := range ranking {
		out[i] = dto.TopSoldProductResponse{Product: *products[i], TotalQuantity: r.Quantity}
	}
	return out, nil
}

// EarningsBetweenDatesDetailsProducts reporte de ganancias del rango (fechas inclusivas).
func (uc *KardexUseCase) EarningsBetweenDatesDetailsProducts(ctx context.Context, from, to *time.Time) (*dto.EarningsReportResponse, error) {
	start, end := uc.defaultRange(from, to)
	start, end, err := checkRange(start, end)
	if err != nil {
		return nil, err
	}
	movements, err := uc.repo.Find(ctx, repository.KardexFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}
	report, err := BuildEarningsReport(ctx, movements, uc.catalog)
	if err != nil {
		return nil, err
	}
	report.StartDate = dto.NewDate(start)
	report.EndDate = dto.NewDate(end)
	return report, nil
}

// EarningsReportPDF mismo reporte en PDF.
func (uc *KardexUseCase) EarningsReportPDF(ctx context.Context, from, to *time.Time) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.Validation("la exportación a PDF no está habilitada")
	}
	report, err := uc.EarningsBetweenDatesDetailsProducts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateEarningsPDF(ctx, report)
}

// defaultRange completa las fechas ausentes: fin = hoy, inicio = fin - 1 mes.
func (uc *KardexUseCase) defaultRange(from, to *time.Time) (time.Time, time.Time) {
	end := uc.today()
	if to != nil {
		end = inventory.DateOf(*to)
	}
	start := end.AddDate(0, -1, 0)
	if from != nil {
		start = inventory.DateOf(*from)
	}
	return start, end
}

func (uc *KardexUseCase) getEntry(ctx context.Context, id string) (*entity.KardexEntry, error) {
	entry, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.NotFound(domain.ResourceKardex, id)
	}
	return entry, nil
}

func checkRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = inventory.DateOf(from), inventory.DateOf(to)
	if from.After(to) {
		return from, to, domain.Validationf("rango de fechas inválido: %s es posterior a %s",
			from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return from, to, nil
}
