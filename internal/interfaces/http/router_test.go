package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/inventory"
	"github.com/jhoicas/Inventario-kardex/internal/application/kardex"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports/mocks"
	"github.com/jhoicas/Inventario-kardex/internal/application/stock"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Inventario-kardex/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

type testEnv struct {
	app   *fiber.App
	store *memory.Store
}

func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	catalog := mocks.NewMockProductCatalog(
		entity.Product{Cod: "P1", Name: "Leche", Category: entity.Category{Name: "Food"}},
		entity.Product{Cod: "P2", Name: "Radio", Category: entity.Category{Name: "Electronics"}},
	)
	providers := mocks.NewMockProviderRegistry("PR1")

	stockUC := stock.NewStockUseCase(store.StockRepository(), catalog, providers, stock.DefaultPolicy()).WithClock(testClock)
	kardexUC := kardex.NewKardexUseCase(store.KardexRepository(), catalog, fakePDF{}).WithClock(testClock)
	invUC := inventory.NewManagementInventoryUseCase(store.TxRunner(), stockUC, kardexUC, ports.NopMetrics{}, zerolog.Nop()).
		WithClock(testClock)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		StockUC:     stockUC,
		KardexUC:    kardexUC,
		InventoryUC: invUC,
		Logger:      zerolog.Nop(),
	})
	return &testEnv{app: app, store: store}
}

type fakePDF struct{}

func (fakePDF) GenerateEarningsPDF(context.Context, *dto.EarningsReportResponse) ([]byte, error) {
	return []byte("%PDF-1.3 test"), nil
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func purchaseBody(qty int, cost, expiry string) map[string]any {
	b := map[string]any{"quantity": qty, "purchaseUnitCost": cost, "providerId": "PR1", "productId": "P1"}
	if expiry != "" {
		b["expiryDate"] = expiry
	}
	return b
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_CrearYConsultar(t *testing.T) {
	env := buildTestApp(t)

	resp, body := env.do(t, http.MethodPost, "/stock", map[string]any{
		"productId": "P1", "quantity": 10, "purchaseUnitCost": 100, "providerId": "PR1", "expiryDate": "2026-06-01",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var created dto.StockResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "1000", created.TotalPurchaseCost.String())
	assert.Equal(t, "2026-03-10", created.PurchaseDate.Format(time.DateOnly))
	assert.Contains(t, string(body), `"expiryDate":"2026-06-01"`)

	resp, body = env.do(t, http.MethodGet, "/stock/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"productId":"P1"`)

	resp, body = env.do(t, http.MethodGet, "/stock/total?productId=P1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"productId":"P1","validStock":10,"expiredStock":0,"totalStock":10}`, string(body))

	resp, body = env.do(t, http.MethodGet, "/stock/valid/P1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "10", string(body))
}

func TestStock_NoEncontrado(t *testing.T) {
	env := buildTestApp(t)

	resp, body := env.do(t, http.MethodGet, "/stock/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	e := decodeError(t, body)
	assert.Equal(t, apphttp.CodeNotFound, e.Code)
	assert.Equal(t, fiber.StatusNotFound, e.Status)
	assert.Equal(t, "Not Found", e.Error)
	assert.NotEmpty(t, e.UserMessage)
}

func TestStock_CuerpoInvalido(t *testing.T) {
	env := buildTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/stock", bytes.NewReader([]byte(`{"quantity":`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	out, _ := io.ReadAll(resp.Body)
	assert.Equal(t, apphttp.CodeBadRequest, decodeError(t, out).Code)
}

func TestStock_ThresholdRequiereParametro(t *testing.T) {
	env := buildTestApp(t)
	resp, _ := env.do(t, http.MethodGet, "/stock/threshold", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, _ = env.do(t, http.MethodPost, "/inventory/register-purchase", purchaseBody(2, "10", ""))
	resp, body := env.do(t, http.MethodGet, "/stock/threshold?threshold=5&category=Food", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.ProductStockResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Leche", list[0].Product.Name)
	assert.Equal(t, 2, list[0].TotalQuantity)
}

func TestStock_Status(t *testing.T) {
	env := buildTestApp(t)
	_, _ = env.do(t, http.MethodPost, "/inventory/register-purchase", purchaseBody(4, "10", ""))

	resp, body := env.do(t, http.MethodPost, "/stock/status", map[string]any{
		"thresholds": map[string]int{"P1": 5, "P2": 1},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.InventoryStatusResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, entity.StockStatusLowStock, list[0].Status)
	assert.Equal(t, entity.StockStatusOutOfStock, list[1].Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_CompraYVenta(t *testing.T) {
	env := buildTestApp(t)

	resp, body := env.do(t, http.MethodPost, "/inventory/register-purchase", purchaseBody(10, "100", "2026-05-01"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodPost, "/inventory/register-sale", map[string]any{
		"quantity": 4, "unitPrice": "150", "productId": "P1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var out dto.InventoryRegistrationResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 6, out.Stock.Quantity)
	assert.Equal(t, entity.MovementOutcome, out.Kardex.TypeMovement)
	assert.Equal(t, "600", out.Kardex.TotalPrice.String())
}

func TestInventory_VencimientoCercano(t *testing.T) {
	env := buildTestApp(t)
	resp, body := env.do(t, http.MethodPost, "/inventory/register-purchase", purchaseBody(10, "100", "2026-03-11"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, decodeError(t, body).Code)
}

func TestInventory_StockInsuficiente(t *testing.T) {
	env := buildTestApp(t)
	_, _ = env.do(t, http.MethodPost, "/inventory/register-purchase", purchaseBody(2, "100", ""))

	resp, body := env.do(t, http.MethodPost, "/inventory/register-sale", map[string]any{
		"quantity": 5, "unitPrice": "100", "productId": "P1",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, decodeError(t, body).Code)
}

func TestInventory_StockVencidoInsuficiente(t *testing.T) {
	env := buildTestApp(t)
	expired := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.store.StockRepository().Create(context.Background(), &entity.StockBatch{
		ID: "B-VENCIDO", ProductID: "P1", Quantity: 10,
		PurchaseUnitCost: decimal.NewFromInt(100), TotalPurchaseCost: decimal.NewFromInt(1000),
		ProviderID: "PR1", PurchaseDate: expired.AddDate(0, -1, 0), ExpiryDate: &expired,
		CreatedAt: testNow, UpdatedAt: testNow,
	}))

	resp, body := env.do(t, http.MethodPost, "/inventory/register-sale", map[string]any{
		"quantity": 5, "unitPrice": "100", "productId": "P1",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientValidStock, decodeError(t, body).Code)

	resp, body = env.do(t, http.MethodGet, "/stock/expired/P1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "10", string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestKardex_ReportesYRangos(t *testing.T) {
	env := buildTestApp(t)
	_, _ = env.do(t, http.MethodPost, "/kardex", map[string]any{
		"typeMovement": "OUTCOME", "productId": "P1", "quantity": 2, "unitPrice": 1000, "movementDate": "2026-03-01",
	})
	_, _ = env.do(t, http.MethodPost, "/kardex", map[string]any{
		"typeMovement": "INCOME", "productId": "P1", "quantity": 5, "unitPrice": 800, "movementDate": "2026-03-02",
	})

	resp, body := env.do(t, http.MethodGet, "/kardex/earnings-report?startDate=2026-03-01&endDate=2026-03-31", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var report dto.EarningsReportResponse
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "-2000", report.NetProfit.String())
	assert.Equal(t, "2026-03-01", report.StartDate.Format(time.DateOnly))

	resp, body = env.do(t, http.MethodGet, "/kardex/between?startDate=2026-03-01&endDate=2026-03-01&type=OUTCOME", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.KardexResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	resp, _ = env.do(t, http.MethodGet, "/kardex/between?startDate=2026-03-01", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/kardex/between?startDate=2026-03-05&endDate=2026-03-01", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "rango invertido")

	resp, _ = env.do(t, http.MethodGet, "/kardex/most-sold?startDate=01-03-2026", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "formato de fecha inválido")

	resp, body = env.do(t, http.MethodGet, "/kardex/most-sold", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var top []dto.TopSoldProductResponse
	require.NoError(t, json.Unmarshal(body, &top))
	require.Len(t, top, 1)
	assert.Equal(t, 2, top[0].TotalQuantity)
}

func TestKardex_PDF(t *testing.T) {
	env := buildTestApp(t)
	resp, body := env.do(t, http.MethodGet, "/kardex/earnings-report/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestKardex_EliminarDevuelve204(t *testing.T) {
	env := buildTestApp(t)
	_, body := env.do(t, http.MethodPost, "/kardex", map[string]any{
		"typeMovement": "INCOME", "productId": "P1", "quantity": 1, "unitPrice": 10,
	})
	var created dto.KardexResponse
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ := env.do(t, http.MethodDelete, "/kardex/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/kardex/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	env := buildTestApp(t)
	resp, body := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}
