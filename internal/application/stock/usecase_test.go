package stock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports/mocks"
	"github.com/jhoicas/Inventario-kardex/internal/application/stock"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	uc        *stock.StockUseCase
	repo      *memory.StockRepo
	catalog   *mocks.MockProductCatalog
	providers *mocks.MockProviderRegistry
}

func newFixture() *fixture {
	store := memory.NewStore()
	repo := store.StockRepository()
	catalog := mocks.NewMockProductCatalog(
		entity.Product{Cod: "P1", Name: "Televisor", Category: entity.Category{Name: "Electronics"}},
		entity.Product{Cod: "P2", Name: "Arroz", Category: entity.Category{Name: "Food"}},
		entity.Product{Cod: "P3", Name: "Radio", Category: entity.Category{Name: "Electronics"}},
	)
	providers := mocks.NewMockProviderRegistry("PR1")
	uc := stock.NewStockUseCase(repo, catalog, providers, stock.DefaultPolicy()).WithClock(clock)
	return &fixture{uc: uc, repo: repo, catalog: catalog, providers: providers}
}

// seed inserta un lote directamente en el repositorio.
func (f *fixture) seed(t *testing.T, id, productID string, qty int, cost string, expiry *time.Time) {
	t.Helper()
	b := &entity.StockBatch{
		ID:               id,
		ProductID:        productID,
		Quantity:         qty,
		PurchaseUnitCost: dec(cost),
		ProviderID:       "PR1",
		PurchaseDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:       expiry,
	}
	b.RecalculateTotal()
	require.NoError(t, f.repo.Create(context.Background(), b))
}

func (f *fixture) qty(t *testing.T, id string) int {
	t.Helper()
	b, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b, "el lote %s debe existir", id)
	return b.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// DecrementQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestDecrementQuantity_ConsumeEnOrdenDeVencimiento(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 5, "100", day(2026, 4, 1))
	f.seed(t, "B", "P1", 3, "100", day(2026, 3, 20))
	f.seed(t, "C", "P1", 10, "100", nil)

	resp, err := f.uc.DecrementQuantity(context.Background(), "P1", 6, dec("120"))
	require.NoError(t, err)

	assert.Equal(t, 0, f.qty(t, "B"), "el lote que vence primero se agota")
	assert.Equal(t, 2, f.qty(t, "A"))
	assert.Equal(t, 10, f.qty(t, "C"), "el lote sin vencimiento no se toca")
	assert.Equal(t, "A", resp.ID, "la respuesta corresponde al último lote tocado")
	assert.Equal(t, 2, resp.Quantity)

	total, err := f.uc.GetTotalStock(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 18-6, total.TotalStock, "se descuenta exactamente la cantidad pedida")
}

func TestDecrementQuantity_IgnoraLotesVencidos(t *testing.T) {
	f := newFixture()
	f.seed(t, "VENCIDO", "P1", 5, "100", day(2026, 3, 1))
	f.seed(t, "VIGENTE", "P1", 5, "100", day(2026, 5, 1))

	_, err := f.uc.DecrementQuantity(context.Background(), "P1", 4, dec("100"))
	require.NoError(t, err)

	assert.Equal(t, 5, f.qty(t, "VENCIDO"))
	assert.Equal(t, 1, f.qty(t, "VIGENTE"))
}

func TestDecrementQuantity_StockTotalInsuficiente(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 5, "100", nil)

	_, err := f.uc.DecrementQuantity(context.Background(), "P1", 6, dec("100"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.False(t, de.Expired, "no hay stock vencido involucrado")
	assert.Equal(t, 5, f.qty(t, "A"))
}

func TestDecrementQuantity_StockVigenteInsuficientePorVencidos(t *testing.T) {
	f := newFixture()
	f.seed(t, "VENCIDO", "P1", 5, "100", day(2026, 2, 1))
	f.seed(t, "VIGENTE", "P1", 3, "100", day(2026, 6, 1))

	_, err := f.uc.DecrementQuantity(context.Background(), "P1", 6, dec("100"))
	require.Error(t, err)

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.ErrInsufficientStock, de.Kind)
	assert.True(t, de.Expired, "el faltante se debe a stock vencido")
	assert.Contains(t, de.Message, "vencido")
}

func TestDecrementQuantity_SinLotesEsNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.uc.DecrementQuantity(context.Background(), "P9", 1, dec("100"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDecrementQuantity_PrecioFueraDeBandaDejaLotesPreviosDescontados(t *testing.T) {
	f := newFixture()
	f.seed(t, "B", "P1", 3, "100", day(2026, 3, 20)) // banda [75, 175]
	f.seed(t, "A", "P1", 5, "50", day(2026, 4, 1))   // banda [37.5, 87.5]

	_, err := f.uc.DecrementQuantity(context.Background(), "P1", 5, dec("120"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	assert.Equal(t, 0, f.qty(t, "B"), "el lote procesado antes del fallo queda descontado")
	assert.Equal(t, 5, f.qty(t, "A"), "el lote fuera de banda no se modifica")
}

func TestDecrementQuantity_PrecioFueraDeBandaEnPrimerLote(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 5, "100", nil)

	_, err := f.uc.DecrementQuantity(context.Background(), "P1", 2, dec("74.99"))
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, 5, f.qty(t, "A"))

	_, err = f.uc.DecrementQuantity(context.Background(), "P1", 2, dec("175"))
	require.NoError(t, err, "el límite superior está incluido")
	assert.Equal(t, 3, f.qty(t, "A"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Increment / UpdateQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestIncrementQuantity_SoloLoteMasAntiguo(t *testing.T) {
	f := newFixture()
	f.seed(t, "X", "P1", 2, "100", day(2026, 4, 1))
	f.seed(t, "Y", "P1", 1, "100", day(2026, 3, 15))

	resp, err := f.uc.IncrementQuantity(context.Background(), "P1", 5)
	require.NoError(t, err)
	assert.Equal(t, "Y", resp.ID)
	assert.Equal(t, 6, f.qty(t, "Y"))
	assert.Equal(t, 2, f.qty(t, "X"))
}

func TestUpdateQuantity_FijaLoteMasAntiguo(t *testing.T) {
	f := newFixture()
	f.seed(t, "X", "P1", 2, "100", nil)
	f.seed(t, "Y", "P1", 1, "100", day(2026, 9, 1))

	_, err := f.uc.UpdateQuantity(context.Background(), "P1", 40)
	require.NoError(t, err)
	assert.Equal(t, 40, f.qty(t, "Y"), "los lotes con vencimiento van antes que los que no vencen")
	assert.Equal(t, 2, f.qty(t, "X"))

	_, err = f.uc.UpdateQuantity(context.Background(), "P1", -1)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.uc.IncrementQuantity(context.Background(), "NADA", 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Particiones y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestVencidoMasVigente_EsElTotal(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 4, "100", day(2026, 3, 9))
	f.seed(t, "B", "P1", 7, "100", day(2026, 3, 10))
	f.seed(t, "C", "P1", 2, "100", nil)

	expired, err := f.uc.GetExpiredStock(context.Background(), "P1")
	require.NoError(t, err)
	valid, err := f.uc.GetStockWithoutExpiringDate(context.Background(), "P1")
	require.NoError(t, err)
	total, err := f.uc.GetTotalStock(context.Background(), "P1")
	require.NoError(t, err)

	assert.Equal(t, 4, expired)
	assert.Equal(t, 9, valid, "un lote que vence hoy sigue vigente")
	assert.Equal(t, total.TotalStock, expired+valid)

	_, err = f.uc.GetExpiredStock(context.Background(), "P9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckStockThreshold_FiltraPorTotalYCategoria(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 2, "100", nil)
	f.seed(t, "B", "P2", 1, "100", nil)
	f.seed(t, "C", "P2", 2, "100", nil)
	f.seed(t, "D", "P3", 50, "100", nil)

	all, err := f.uc.CheckStockThreshold(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "P1", all[0].Product.Cod)
	assert.Equal(t, 2, all[0].TotalQuantity)
	assert.Equal(t, "P2", all[1].Product.Cod)
	assert.Equal(t, 3, all[1].TotalQuantity)

	electronics, err := f.uc.CheckStockThreshold(context.Background(), 10, "Electronics")
	require.NoError(t, err)
	require.Len(t, electronics, 1)
	assert.Equal(t, "P1", electronics[0].Product.Cod)

	lower, err := f.uc.CheckStockThreshold(context.Background(), 10, "electronics")
	require.NoError(t, err)
	assert.Empty(t, lower, "la categoría distingue mayúsculas")
}

func TestCheckStockThreshold_ErrorDelCatalogo(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 2, "100", nil)
	f.catalog.FailWith("P1", domain.Validation("catálogo no disponible"))

	_, err := f.uc.CheckStockThreshold(context.Background(), 10, "")
	require.Error(t, err)
	assert.Equal(t, "catálogo no disponible", domain.UserMessage(err))
}

func TestGetInventoryStatus_Clasificacion(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 0, "100", nil)
	f.seed(t, "B", "P2", 3, "100", nil)
	f.seed(t, "C", "P3", 50, "100", nil)

	got, err := f.uc.GetInventoryStatus(context.Background(), map[string]int{"P2": 5, "P3": 5, "P4": 1})
	require.NoError(t, err)
	require.Len(t, got, 4)

	status := map[string]entity.StockStatus{}
	for _, s := range got {
		status[s.ProductID] = s.Status
	}
	assert.Equal(t, entity.StockStatusOutOfStock, status["P1"])
	assert.Equal(t, entity.StockStatusLowStock, status["P2"])
	assert.Equal(t, entity.StockStatusInStock, status["P3"])
	assert.Equal(t, entity.StockStatusOutOfStock, status["P4"], "producto sin lotes")
	assert.Equal(t, "P1", got[0].ProductID, "ordenado por producto")
}

func TestGetValuation_PromedioPonderado(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 10, "100", nil)
	f.seed(t, "B", "P1", 30, "200", day(2026, 8, 1))

	v, err := f.uc.GetValuation(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 40, v.ValidQuantity)
	assert.True(t, v.AverageCost.Equal(dec("175")))
	assert.True(t, v.Valuation.Equal(dec("7000")))
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaCostoTotal(t *testing.T) {
	f := newFixture()
	resp, err := f.uc.Create(context.Background(), dto.StockRequest{
		ProductID:        "P1",
		Quantity:         10,
		PurchaseUnitCost: dec("100"),
		ProviderID:       "PR1",
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalPurchaseCost.Equal(dec("1000")), "10 x 100 = 1000, obtenido %s", resp.TotalPurchaseCost)
	assert.Equal(t, "2026-03-10", resp.PurchaseDate.Format(time.DateOnly), "la fecha de compra por defecto es hoy")
	assert.Nil(t, resp.ExpiryDate)
	assert.NotEmpty(t, resp.ID)
}

func TestCreate_ValidaFechasYColaboradores(t *testing.T) {
	f := newFixture()
	base := dto.StockRequest{ProductID: "P1", Quantity: 1, PurchaseUnitCost: dec("10"), ProviderID: "PR1"}

	soon := base
	d := dto.NewDate(*day(2026, 3, 12))
	soon.ExpiryDate = &d
	_, err := f.uc.Create(context.Background(), soon)
	assert.True(t, errors.Is(err, domain.ErrValidation), "vencimiento antes de hoy + 3 días")

	ok := base
	d3 := dto.NewDate(*day(2026, 3, 13))
	ok.ExpiryDate = &d3
	_, err = f.uc.Create(context.Background(), ok)
	assert.NoError(t, err, "hoy + 3 días es aceptado")

	late := ok
	pd := dto.NewDate(*day(2026, 3, 20))
	late.PurchaseDate = &pd
	_, err = f.uc.Create(context.Background(), late)
	assert.True(t, errors.Is(err, domain.ErrValidation), "compra posterior al vencimiento")

	noProduct := base
	noProduct.ProductID = "NO-EXISTE"
	_, err = f.uc.Create(context.Background(), noProduct)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, domain.UserMessage(err), "NO-EXISTE")

	noProvider := base
	noProvider.ProviderID = "PR9"
	_, err = f.uc.Create(context.Background(), noProvider)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	zero := base
	zero.Quantity = 0
	_, err = f.uc.Create(context.Background(), zero)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdate_RecalculaTotalYValida(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 10, "100", nil)

	qty := 4
	cost := dec("25.5")
	resp, err := f.uc.Update(context.Background(), "A", dto.StockUpdateRequest{Quantity: &qty, PurchaseUnitCost: &cost})
	require.NoError(t, err)
	assert.True(t, resp.TotalPurchaseCost.Equal(dec("102")))

	missing := "PX"
	_, err = f.uc.Update(context.Background(), "A", dto.StockUpdateRequest{ProductID: &missing})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.uc.Update(context.Background(), "NADA", dto.StockUpdateRequest{Quantity: &qty})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_YGetByID(t *testing.T) {
	f := newFixture()
	f.seed(t, "A", "P1", 1, "100", nil)

	got, err := f.uc.GetByID(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "P1", got.ProductID)

	require.NoError(t, f.uc.Delete(context.Background(), "A"))
	_, err = f.uc.GetByID(context.Background(), "A")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(f.uc.Delete(context.Background(), "A"), domain.ErrNotFound))
}
