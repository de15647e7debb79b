package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	domaininv "github.com/jhoicas/stockpilot/internal/domain/inventory"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
	"github.com/jhoicas/stockpilot/internal/infrastructure/memory"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

type fixture struct {
	store       *memory.Store
	companyID   string
	warehouseID string
	otherWH     string
	typeID      string
	cache       *recordingCache
	writer      *inventory.CreateProductUseCase
	movements   *inventory.RegisterMovementUseCase
	audit       *inventory.AuditUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	f := &fixture{store: s, cache: &recordingCache{}}

	f.companyID = uuid.NewString()
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: f.companyID, Name: "ACME"}))
	f.warehouseID = uuid.NewString()
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: f.warehouseID, CompanyID: f.companyID, Name: "Central"}))
	f.otherWH = uuid.NewString()
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: f.otherWH, CompanyID: f.companyID, Name: "Norte"}))
	f.typeID = uuid.NewString()
	require.NoError(t, s.ProductTypes().Create(ctx, &entity.ProductType{ID: f.typeID, Name: "General", LowStockThreshold: 10}))

	tx := memory.NewTxRunner(s)
	log := logger.Nop()
	f.writer = inventory.NewCreateProductUseCase(tx, s.Warehouses(), s.ProductTypes(), s.Suppliers(), f.cache, log)
	f.movements = inventory.NewRegisterMovementUseCase(tx, s.Products(), s.Warehouses(), f.cache, log)
	f.audit = inventory.NewAuditUseCase(s.Inventory(), s.InventoryLogs(), s.Warehouses())
	return f
}

// createStocked crea un producto con cantidad inicial en la bodega principal.
func (f *fixture) createStocked(t *testing.T, sku string, qty int64) string {
	t.Helper()
	wh := f.warehouseID
	resp, err := f.writer.CreateProduct(context.Background(), f.companyID, "u1", dto.CreateProductRequest{
		Name: "Producto " + sku, SKU: sku, ProductTypeID: f.typeID, WarehouseID: &wh, InitialQuantity: &qty,
	})
	require.NoError(t, err)
	return resp.ProductID
}

func ptr[T any](v T) *T { return &v }

// recordingCache caché en memoria que registra invalidaciones.
type recordingCache struct {
	mu          sync.Mutex
	reports     map[string]*dto.LowStockReport
	gens        map[string]int64
	invalidated []string
	gets        int
}

func (c *recordingCache) Get(_ context.Context, companyID string) (*dto.LowStockReport, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.reports[companyID], c.gens[companyID], nil
}

func (c *recordingCache) Set(_ context.Context, companyID string, gen int64, r *dto.LowStockReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[companyID] != gen {
		return nil
	}
	if c.reports == nil {
		c.reports = map[string]*dto.LowStockReport{}
	}
	c.reports[companyID] = r
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens == nil {
		c.gens = map[string]int64{}
	}
	c.gens[companyID]++
	delete(c.reports, companyID)
	c.invalidated = append(c.invalidated, companyID)
	return nil
}

func (c *recordingCache) cached(companyID string) *dto.LowStockReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reports[companyID]
}

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func domainPolicy(fn func(pos repository.StockPosition) (int64, error)) domaininv.ThresholdFunc {
	return domaininv.ThresholdFunc(fn)
}
