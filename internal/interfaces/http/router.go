package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-kardex/internal/application/inventory"
	"github.com/jhoicas/Inventario-kardex/internal/application/kardex"
	"github.com/jhoicas/Inventario-kardex/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC     *stock.StockUseCase
	KardexUC    *kardex.KardexUseCase
	InventoryUC *inventory.ManagementInventoryUseCase
	Logger      zerolog.Logger
}

// Router registra las rutas de la API. Las rutas fijas van antes que /:id.
func Router(app fiber.Router, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	stockGroup := app.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.Logger)
	stockGroup.Post("/", stockHandler.Create)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Get("/product/:productId", stockHandler.ListByProduct)
	stockGroup.Put("/increment", stockHandler.Increment)
	stockGroup.Put("/decrement", stockHandler.Decrement)
	stockGroup.Put("/quantity", stockHandler.UpdateQuantity)
	stockGroup.Get("/total", stockHandler.Total)
	stockGroup.Get("/expired/:productId", stockHandler.Expired)
	stockGroup.Get("/valid/:productId", stockHandler.Valid)
	stockGroup.Get("/threshold", stockHandler.Threshold)
	stockGroup.Post("/status", stockHandler.Status)
	stockGroup.Get("/valuation/:productId", stockHandler.Valuation)
	stockGroup.Get("/:id", stockHandler.GetByID)
	stockGroup.Put("/:id", stockHandler.Update)
	stockGroup.Delete("/:id", stockHandler.Delete)

	kardexGroup := app.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.KardexUC, deps.Logger)
	kardexGroup.Post("/", kardexHandler.Create)
	kardexGroup.Get("/", kardexHandler.List)
	kardexGroup.Get("/product/:productId", kardexHandler.ListByProduct)
	kardexGroup.Get("/between", kardexHandler.Between)
	kardexGroup.Get("/most-sold", kardexHandler.MostSold)
	kardexGroup.Get("/earnings-report", kardexHandler.EarningsReport)
	kardexGroup.Get("/earnings-report/pdf", kardexHandler.EarningsReportPDF)
	kardexGroup.Get("/:id", kardexHandler.GetByID)
	kardexGroup.Put("/:id", kardexHandler.Update)
	kardexGroup.Delete("/:id", kardexHandler.Delete)

	invGroup := app.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.Logger)
	invGroup.Post("/register-purchase", inventoryHandler.RegisterPurchase)
	invGroup.Post("/register-sale", inventoryHandler.RegisterSale)
}
