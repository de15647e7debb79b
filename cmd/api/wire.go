package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/application/usecase"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
	"github.com/jhoicas/stockpilot/internal/infrastructure/cache"
	"github.com/jhoicas/stockpilot/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stockpilot/internal/infrastructure/pdf"
	"github.com/jhoicas/stockpilot/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockpilot/internal/interfaces/http"
	"github.com/jhoicas/stockpilot/pkg/config"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

// repos agrupa los adaptadores de persistencia del motor elegido.
type repos struct {
	companies    repository.CompanyRepository
	warehouses   repository.WarehouseRepository
	productTypes repository.ProductTypeRepository
	suppliers    repository.SupplierRepository
	products     repository.ProductRepository
	inventory    repository.InventoryRepository
	logs         repository.InventoryLogRepository
	sales        repository.SaleRepository
	tx           inventory.TxRunner
}

// runtime es el grafo de dependencias de la aplicación.
type runtime struct {
	cfg   *config.Config
	log   *logger.Logger
	deps  httpRouter.RouterDeps
	close func()
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return cfg, log, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.DB.Driver != config.StorageDriverPostgres {
		return nil, fmt.Errorf("se requiere STORAGE_DRIVER=%s (actual: %s)", config.StorageDriverPostgres, cfg.DB.Driver)
	}
	return postgres.NewPool(ctx, cfg.DB)
}

func buildRuntime(ctx context.Context, cfg *config.Config, log *logger.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: log, close: func() {}}
	var closers []func()

	var r repos
	switch cfg.DB.Driver {
	case config.StorageDriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		r = repos{
			companies: s.Companies(), warehouses: s.Warehouses(),
			productTypes: s.ProductTypes(), suppliers: s.Suppliers(),
			products: s.Products(), inventory: s.Inventory(), logs: s.InventoryLogs(),
			sales: s.Sales(), tx: memory.NewTxRunner(s),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		closers = append(closers, pool.Close)
		if cfg.DB.MigrateOnStart {
			m, err := postgres.NewMigrator(pool, log)
			if err != nil {
				pool.Close()
				return nil, err
			}
			if _, err := m.Up(ctx); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		r = repos{
			companies:    postgres.NewCompanyRepository(pool),
			warehouses:   postgres.NewWarehouseRepository(pool),
			productTypes: postgres.NewProductTypeRepository(pool),
			suppliers:    postgres.NewSupplierRepository(pool),
			products:     postgres.NewProductRepository(pool),
			inventory:    postgres.NewInventoryRepository(pool),
			logs:         postgres.NewInventoryLogRepository(pool),
			sales:        postgres.NewSaleRepository(pool),
			tx:           postgres.NewTxRunner(pool),
		}
	}

	var alertCache inventory.AlertCache = inventory.NopAlertCache{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			// Sin Redis se recalcula en cada petición.
			log.Warn().Err(err).Msg("caché de alertas deshabilitada")
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			alertCache = cache.NewRedisAlertCache(rdb, cfg.Redis.AlertTTL)
		}
	}

	lowStock := inventory.NewLowStockUseCase(r.companies, r.inventory, r.sales, log,
		inventory.WithWindowDays(cfg.Alerts.WindowDays),
		inventory.WithAlertCache(alertCache),
	)
	rt.deps = httpRouter.RouterDeps{
		CompanyUC:        usecase.NewCompanyUseCase(r.companies),
		WarehouseUC:      usecase.NewWarehouseUseCase(r.warehouses, r.companies),
		CatalogUC:        usecase.NewCatalogUseCase(r.productTypes, r.suppliers),
		ProductUC:        usecase.NewProductUseCase(r.products, r.inventory, alertCache, log),
		CreateProduct:    inventory.NewCreateProductUseCase(r.tx, r.warehouses, r.productTypes, r.suppliers, alertCache, log),
		RegisterMovement: inventory.NewRegisterMovementUseCase(r.tx, r.products, r.warehouses, alertCache, log),
		Audit:            inventory.NewAuditUseCase(r.inventory, r.logs, r.warehouses),
		LowStock:         lowStock,
		Report:           inventory.NewReportUseCase(lowStock, r.companies, infrapdf.NewMarotoReportRenderer()),
		JWTSecret:        cfg.JWT.Secret,
		Logger:           log,
	}
	rt.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return rt, nil
}
