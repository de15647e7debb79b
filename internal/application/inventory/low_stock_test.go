package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
	"github.com/jhoicas/stockpilot/internal/infrastructure/memory"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

type alertFixture struct {
	store     *memory.Store
	companyID string
	wh        string
	typeID    string
	supplier  *entity.Supplier
	uc        *inventory.LowStockUseCase
}

func newAlertFixture(t *testing.T, threshold int64, opts ...inventory.LowStockOption) *alertFixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	f := &alertFixture{store: s, companyID: uuid.NewString(), wh: uuid.NewString(), typeID: uuid.NewString()}
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: f.companyID, Name: "ACME"}))
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: f.wh, CompanyID: f.companyID, Name: "Central"}))
	require.NoError(t, s.ProductTypes().Create(ctx, &entity.ProductType{ID: f.typeID, Name: "Insumos", LowStockThreshold: threshold}))
	f.supplier = &entity.Supplier{ID: uuid.NewString(), Name: "Proveedor SA", ContactEmail: "compras@proveedor.test"}
	require.NoError(t, s.Suppliers().Create(ctx, f.supplier))

	opts = append([]inventory.LowStockOption{inventory.WithClock(func() time.Time { return fixedNow })}, opts...)
	f.uc = inventory.NewLowStockUseCase(s.Companies(), s.Inventory(), s.Sales(), logger.Nop(), opts...)
	return f
}

// stock crea un producto con su fila de inventario en wh.
func (f *alertFixture) stock(t *testing.T, id, wh string, qty int64, typeID, supplierID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Products().Create(ctx, &entity.Product{
		ID: id, Name: "Prod " + id, SKU: "SKU-" + id, Price: decimal.Zero,
		ProductTypeID: typeID, SupplierID: supplierID, Status: entity.ProductStatusActive,
	}))
	require.NoError(t, f.store.Inventory().Create(ctx, &entity.Inventory{ProductID: id, WarehouseID: wh, Quantity: qty}))
}

func (f *alertFixture) sell(t *testing.T, productID, wh string, qty int64, at time.Time) {
	t.Helper()
	require.NoError(t, f.store.RecordSale(entity.Sale{ID: uuid.NewString(), ProductID: productID, WarehouseID: wh, Quantity: qty, CreatedAt: at}))
}

func TestComputeAlerts_EscenarioBase(t *testing.T) {
	f := newAlertFixture(t, 20)
	f.stock(t, "p1", f.wh, 15, f.typeID, f.supplier.ID)
	// 60 unidades repartidas en la ventana de 30 días.
	for i := 1; i <= 6; i++ {
		f.sell(t, "p1", f.wh, 10, fixedNow.Add(-time.Duration(i)*72*time.Hour))
	}

	report, err := f.uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalAlerts)
	require.Len(t, report.Alerts, 1)

	a := report.Alerts[0]
	assert.Equal(t, "p1", a.ProductID)
	assert.Equal(t, "Prod p1", a.ProductName)
	assert.Equal(t, "SKU-p1", a.SKU)
	assert.Equal(t, f.wh, a.WarehouseID)
	assert.Equal(t, "Central", a.WarehouseName)
	assert.Equal(t, int64(15), a.CurrentStock)
	assert.Equal(t, int64(20), a.Threshold)
	assert.Equal(t, int64(7), a.DaysUntilStockout)
	require.NotNil(t, a.Supplier)
	assert.Equal(t, f.supplier.ID, a.Supplier.ID)
	assert.Equal(t, "compras@proveedor.test", a.Supplier.ContactEmail)
	assert.Equal(t, int64(30), report.WindowDays)
}

func TestComputeAlerts_ReglasDeOmision(t *testing.T) {
	f := newAlertFixture(t, 10)
	// Bajo umbral pero sin ventas en la ventana.
	f.stock(t, "dormido", f.wh, 2, f.typeID, "")
	f.sell(t, "dormido", f.wh, 50, fixedNow.AddDate(0, 0, -31))
	// Vende pero está en el umbral.
	f.stock(t, "justo", f.wh, 10, f.typeID, "")
	f.sell(t, "justo", f.wh, 5, fixedNow.Add(-time.Hour))
	// Venta exactamente en as_of: fuera de [inicio, as_of).
	f.stock(t, "futuro", f.wh, 1, f.typeID, "")
	f.sell(t, "futuro", f.wh, 5, fixedNow)
	// Inactivo.
	f.stock(t, "inactivo", f.wh, 1, f.typeID, "")
	f.sell(t, "inactivo", f.wh, 5, fixedNow.Add(-time.Hour))
	require.NoError(t, f.store.Products().SetStatus(context.Background(), "inactivo", entity.ProductStatusInactive, fixedNow))

	report, err := f.uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
	require.NoError(t, err)
	assert.NotNil(t, report.Alerts)
	assert.Empty(t, report.Alerts)
	assert.Equal(t, 0, report.TotalAlerts)
}

func TestComputeAlerts_VentaMinimaNoDivideEntreCero(t *testing.T) {
	f := newAlertFixture(t, 10)
	f.stock(t, "p1", f.wh, 4, f.typeID, "")
	f.sell(t, "p1", f.wh, 1, fixedNow.AddDate(0, 0, -1))

	report, err := f.uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)
	// avg_daily_sale = max(1 // 30, 1) = 1
	assert.Equal(t, int64(4), report.Alerts[0].DaysUntilStockout)
	assert.Nil(t, report.Alerts[0].Supplier)
}

func TestComputeAlerts_Orden(t *testing.T) {
	f := newAlertFixture(t, 100)
	wh2 := uuid.NewString()
	require.NoError(t, f.store.Warehouses().Create(context.Background(), &entity.Warehouse{ID: wh2, CompanyID: f.companyID, Name: "Norte"}))

	at := fixedNow.Add(-time.Hour)
	f.stock(t, "b", f.wh, 30, f.typeID, "") // 30 // 3 = 10
	f.sell(t, "b", f.wh, 90, at)
	f.stock(t, "a", f.wh, 20, f.typeID, "") // 20 // 2 = 10
	f.sell(t, "a", f.wh, 60, at)
	f.stock(t, "c", f.wh, 5, f.typeID, "") // 5 // 1 = 5
	f.sell(t, "c", f.wh, 30, at)
	require.NoError(t, f.store.Inventory().Create(context.Background(), &entity.Inventory{ProductID: "a", WarehouseID: wh2, Quantity: 10}))
	f.sell(t, "a", wh2, 30, at) // 10 // 1 = 10

	report, err := f.uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 4)

	type pair struct{ p, w string }
	var got []pair
	for _, a := range report.Alerts {
		got = append(got, pair{a.ProductID, a.WarehouseID})
	}
	first, second := f.wh, wh2
	if second < first {
		first, second = second, first
	}
	assert.Equal(t, []pair{{"c", f.wh}, {"a", first}, {"a", second}, {"b", f.wh}}, got)
}

func TestComputeAlerts_EmpresaNoExiste(t *testing.T) {
	f := newAlertFixture(t, 10)
	_, err := f.uc.ComputeAlerts(context.Background(), uuid.NewString(), fixedNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComputeAlerts_ProductoSinTipoNoEntraPorElWriter(t *testing.T) {
	f := newAlertFixture(t, 20)
	ctx := context.Background()
	writer := inventory.NewCreateProductUseCase(memory.NewTxRunner(f.store), f.store.Warehouses(), f.store.ProductTypes(), f.store.Suppliers(), inventory.NopAlertCache{}, logger.Nop())
	wh := f.wh

	typed, err := writer.CreateProduct(ctx, f.companyID, "u1", dto.CreateProductRequest{
		Name: "Con tipo", SKU: "G-1", ProductTypeID: f.typeID, WarehouseID: &wh, InitialQuantity: ptr(int64(15)),
	})
	require.NoError(t, err)
	f.sell(t, typed.ProductID, f.wh, 60, fixedNow.AddDate(0, 0, -3))

	_, err = writer.CreateProduct(ctx, f.companyID, "u1", dto.CreateProductRequest{
		Name: "Sin tipo", SKU: "B-1", WarehouseID: &wh, InitialQuantity: ptr(int64(5)),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	report, err := f.uc.ComputeAlerts(ctx, f.companyID, fixedNow)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, typed.ProductID, report.Alerts[0].ProductID)
	assert.Equal(t, int64(7), report.Alerts[0].DaysUntilStockout)
}

// danglingInventory devuelve posiciones con referencias que no resuelven.
type danglingInventory struct {
	repository.InventoryRepository
	positions []repository.StockPosition
}

func (d danglingInventory) ListPositionsByCompany(context.Context, string) ([]repository.StockPosition, error) {
	return d.positions, nil
}

func TestComputeAlerts_ReferenciasColgantes(t *testing.T) {
	f := newAlertFixture(t, 10)
	f.stock(t, "p1", f.wh, 1, f.typeID, "")
	f.sell(t, "p1", f.wh, 3, fixedNow.Add(-time.Hour))
	positions, err := f.store.Inventory().ListPositionsByCompany(context.Background(), f.companyID)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	t.Run("proveedor", func(t *testing.T) {
		pos := positions[0]
		pos.SupplierRef = uuid.NewString()
		uc := inventory.NewLowStockUseCase(f.store.Companies(), danglingInventory{positions: []repository.StockPosition{pos}}, f.store.Sales(), logger.Nop())
		_, err := uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
		assert.ErrorIs(t, err, domain.ErrIntegrity)
	})
	t.Run("sin tipo", func(t *testing.T) {
		pos := positions[0]
		pos.ProductType = nil
		pos.ProductTypeRef = ""
		uc := inventory.NewLowStockUseCase(f.store.Companies(), danglingInventory{positions: []repository.StockPosition{pos}}, f.store.Sales(), logger.Nop())
		report, err := uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
		assert.ErrorIs(t, err, domain.ErrIntegrity)
		assert.Nil(t, report)
	})
	t.Run("tipo", func(t *testing.T) {
		pos := positions[0]
		pos.ProductType = nil
		pos.ProductTypeRef = uuid.NewString()
		uc := inventory.NewLowStockUseCase(f.store.Companies(), danglingInventory{positions: []repository.StockPosition{pos}}, f.store.Sales(), logger.Nop())
		_, err := uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
		assert.ErrorIs(t, err, domain.ErrIntegrity)
	})
}

func TestComputeAlerts_PoliticaPersonalizada(t *testing.T) {
	policy := func(pos repository.StockPosition) (int64, error) {
		if pos.Product.SKU == "SKU-p1" {
			return 50, nil
		}
		return 0, errors.New("no usado")
	}
	f := newAlertFixture(t, 10, inventory.WithThresholdPolicy(domainPolicy(policy)))
	f.stock(t, "p1", f.wh, 30, f.typeID, "")
	f.sell(t, "p1", f.wh, 3, fixedNow.Add(-time.Hour))

	report, err := f.uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, int64(50), report.Alerts[0].Threshold)
}

func TestComputeAlerts_VentanaConfigurable(t *testing.T) {
	f := newAlertFixture(t, 10, inventory.WithWindowDays(7))
	f.stock(t, "p1", f.wh, 5, f.typeID, "")
	f.sell(t, "p1", f.wh, 14, fixedNow.AddDate(0, 0, -3))
	f.sell(t, "p1", f.wh, 100, fixedNow.AddDate(0, 0, -8))

	report, err := f.uc.ComputeAlerts(context.Background(), f.companyID, fixedNow)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, int64(7), report.WindowDays)
	assert.Equal(t, int64(2), report.Alerts[0].DaysUntilStockout) // 5 // (14 // 7)
}

func TestCurrentAlerts_UsaCache(t *testing.T) {
	cache := &recordingCache{}
	f := newAlertFixture(t, 10, inventory.WithAlertCache(cache))
	f.stock(t, "p1", f.wh, 1, f.typeID, "")
	f.sell(t, "p1", f.wh, 3, fixedNow.Add(-time.Hour))

	first, err := f.uc.CurrentAlerts(context.Background(), f.companyID)
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalAlerts)

	// Un cambio sin invalidar no se ve hasta que la entrada se descarta.
	f.stock(t, "p2", f.wh, 1, f.typeID, "")
	f.sell(t, "p2", f.wh, 3, fixedNow.Add(-time.Hour))
	second, err := f.uc.CurrentAlerts(context.Background(), f.companyID)
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, cache.Invalidate(context.Background(), f.companyID))
	third, err := f.uc.CurrentAlerts(context.Background(), f.companyID)
	require.NoError(t, err)
	assert.Equal(t, 2, third.TotalAlerts)
}

// racingCache invalida justo después de entregar la generación, como una escritura concurrente.
type racingCache struct{ *recordingCache }

func (c racingCache) Get(ctx context.Context, companyID string) (*dto.LowStockReport, int64, error) {
	r, gen, err := c.recordingCache.Get(ctx, companyID)
	_ = c.recordingCache.Invalidate(ctx, companyID)
	return r, gen, err
}

func TestCurrentAlerts_NoGuardaReporteInvalidadoDuranteElCalculo(t *testing.T) {
	inner := &recordingCache{}
	f := newAlertFixture(t, 10, inventory.WithAlertCache(racingCache{inner}))
	f.stock(t, "p1", f.wh, 1, f.typeID, "")
	f.sell(t, "p1", f.wh, 3, fixedNow.Add(-time.Hour))

	report, err := f.uc.CurrentAlerts(context.Background(), f.companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalAlerts)
	assert.Nil(t, inner.cached(f.companyID))

	// Sin invalidaciones de por medio el reporte sí se guarda.
	f2 := newAlertFixture(t, 10, inventory.WithAlertCache(inner))
	f2.stock(t, "p1", f2.wh, 1, f2.typeID, "")
	f2.sell(t, "p1", f2.wh, 3, fixedNow.Add(-time.Hour))
	_, err = f2.uc.CurrentAlerts(context.Background(), f2.companyID)
	require.NoError(t, err)
	assert.NotNil(t, inner.cached(f2.companyID))
}
