package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-kardex/internal/application/inventory"
	"github.com/jhoicas/Inventario-kardex/internal/application/kardex"
	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/application/stock"
	domaininv "github.com/jhoicas/Inventario-kardex/internal/domain/inventory"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
	"github.com/jhoicas/Inventario-kardex/internal/infrastructure/catalog"
	"github.com/jhoicas/Inventario-kardex/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-kardex/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Inventario-kardex/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-kardex/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-kardex/internal/interfaces/http"
	"github.com/jhoicas/Inventario-kardex/pkg/config"
	"github.com/jhoicas/Inventario-kardex/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios y runner transaccional del driver elegido.
type storage struct {
	stock  repository.StockBatchRepository
	kardex repository.KardexRepository
	tx     inventory.TxRunner
	close  func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.close()

	var products ports.ProductCatalog = catalog.NewProductClient(cfg.Catalog.ProductURL, cfg.Catalog.Timeout)
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis no responde; la caché degradará a consultas directas")
		}
		products = catalog.NewCachedProductCatalog(products, catalog.NewRedisCache(rdb), cfg.Redis.ProductTTL, log.Zerolog())
	}
	providers := catalog.NewProviderClient(cfg.Catalog.ProviderURL, cfg.Catalog.Timeout)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	policy := stock.Policy{
		Band: domaininv.PriceBand{
			Lower: decimal.NewFromFloat(cfg.Inventory.PriceBandLower),
			Upper: decimal.NewFromFloat(cfg.Inventory.PriceBandUpper),
		},
		Expiry: domaininv.ExpiryPolicy{MinDays: cfg.Inventory.MinExpiryDays},
	}
	stockUC := stock.NewStockUseCase(store.stock, products, providers, policy)
	kardexUC := kardex.NewKardexUseCase(store.kardex, products, infrapdf.NewEarningsPDFGenerator("Reporte de ganancias"))
	inventoryUC := inventory.NewManagementInventoryUseCase(store.tx, stockUC, kardexUC, appMetrics, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(appMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Kardex API",
		}))
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:     stockUC,
		KardexUC:    kardexUC,
		InventoryUC: inventoryUC,
		Logger:      log.Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		s := memory.NewStore()
		return &storage{
			stock:  s.StockRepository(),
			kardex: s.KardexRepository(),
			tx:     s.TxRunner(),
			close:  func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		stock:  postgres.NewStockBatchRepository(pool),
		kardex: postgres.NewKardexRepository(pool),
		tx:     postgres.NewTxRunner(pool),
		close:  pool.Close,
	}, nil
}
