package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/infrastructure/memory"
)

func TestCreateProduct_ConInventarioInicial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wh := f.warehouseID

	resp, err := f.writer.CreateProduct(ctx, f.companyID, "u1", dto.CreateProductRequest{
		ProductTypeID:   f.typeID,
		Name:            "Widget",
		SKU:             "W-1",
		Price:           ptr(decimal.RequireFromString("9.99")),
		WarehouseID:     &wh,
		InitialQuantity: ptr(int64(5)),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ProductID)

	p, err := f.store.Products().GetByID(ctx, resp.ProductID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, entity.ProductStatusActive, p.Status)

	inv, err := f.store.Inventory().Get(ctx, resp.ProductID, wh)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, int64(5), inv.Quantity)

	logs, err := f.store.InventoryLogs().ListByInventory(ctx, resp.ProductID, wh)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(5), logs[0].Change)
	assert.Equal(t, entity.LogReasonIntake, logs[0].Reason)
	assert.Equal(t, "u1", logs[0].CreatedBy)

	assert.Equal(t, []string{f.companyID}, f.cache.invalidated)

	// Segundo intento con el mismo SKU: DuplicateSKU y nada nuevo escrito.
	_, err = f.writer.CreateProduct(ctx, f.companyID, "u1", dto.CreateProductRequest{
		ProductTypeID: f.typeID, Name: "Widget 2", SKU: "W-1", WarehouseID: &wh, InitialQuantity: ptr(int64(1)),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
	products, rows, entries := f.store.Counts()
	assert.Equal(t, 1, products)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, entries)
}

func TestCreateProduct_SinBodega(t *testing.T) {
	f := newFixture(t)

	resp, err := f.writer.CreateProduct(context.Background(), f.companyID, "u1", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "Suelto", SKU: "S-1"})
	require.NoError(t, err)

	p, err := f.store.Products().GetByID(context.Background(), resp.ProductID)
	require.NoError(t, err)
	assert.True(t, p.Price.IsZero())
	_, rows, _ := f.store.Counts()
	assert.Zero(t, rows)
	assert.Empty(t, f.cache.invalidated)
}

func TestCreateProduct_NormalizaTexto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// "É" descompuesta (E + acento combinante) y con espacios alrededor.
	_, err := f.writer.CreateProduct(ctx, f.companyID, "", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "  Cafe\u0301 ", SKU: " CAFE\u0301-1 "})
	require.NoError(t, err)

	p, err := f.store.Products().GetBySKU(ctx, "CAF\u00c9-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Caf\u00e9", p.Name)

	_, err = f.writer.CreateProduct(ctx, f.companyID, "", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "Otro", SKU: "CAF\u00c9-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestCreateProduct_Validacion(t *testing.T) {
	f := newFixture(t)
	wh := f.warehouseID
	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin tipo", dto.CreateProductRequest{Name: "A", SKU: "A"}},
		{"tipo no uuid", dto.CreateProductRequest{ProductTypeID: "t1", Name: "A", SKU: "A"}},
		{"sin nombre", dto.CreateProductRequest{ProductTypeID: f.typeID, SKU: "A"}},
		{"nombre en blanco", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "   ", SKU: "A"}},
		{"sin sku", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "A"}},
		{"precio negativo", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "A", SKU: "A", Price: ptr(decimal.NewFromInt(-1))}},
		{"precio con 3 decimales", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "A", SKU: "A", Price: ptr(decimal.RequireFromString("1.005"))}},
		{"bodega sin cantidad", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "A", SKU: "A", WarehouseID: &wh}},
		{"cantidad sin bodega", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "A", SKU: "A", InitialQuantity: ptr(int64(1))}},
		{"cantidad negativa", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "A", SKU: "A", WarehouseID: &wh, InitialQuantity: ptr(int64(-1))}},
		{"bodega no uuid", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "A", SKU: "A", WarehouseID: ptr("w1"), InitialQuantity: ptr(int64(1))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Cualquier escritura haría fallar la prueba: el fallo inyectado se consumiría.
			f.store.InjectFault(memory.OpProductCreate, errors.New("no debió escribirse"))
			_, err := f.writer.CreateProduct(context.Background(), f.companyID, "", tc.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
	products, _, _ := f.store.Counts()
	assert.Zero(t, products)
}

func TestCreateProduct_Referencias(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := uuid.NewString()
	require.NoError(t, f.store.Companies().Create(ctx, &entity.Company{ID: other, Name: "Otra"}))
	foreignWH := uuid.NewString()
	require.NoError(t, f.store.Warehouses().Create(ctx, &entity.Warehouse{ID: foreignWH, CompanyID: other, Name: "Ajena"}))

	_, err := f.writer.CreateProduct(ctx, f.companyID, "", dto.CreateProductRequest{
		ProductTypeID: f.typeID, Name: "A", SKU: "A", WarehouseID: ptr(uuid.NewString()), InitialQuantity: ptr(int64(1)),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.writer.CreateProduct(ctx, f.companyID, "", dto.CreateProductRequest{
		ProductTypeID: f.typeID, Name: "A", SKU: "A", WarehouseID: &foreignWH, InitialQuantity: ptr(int64(1)),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.writer.CreateProduct(ctx, f.companyID, "", dto.CreateProductRequest{Name: "A", SKU: "A", ProductTypeID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.writer.CreateProduct(ctx, f.companyID, "", dto.CreateProductRequest{ProductTypeID: f.typeID, Name: "A", SKU: "A", SupplierID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	products, _, _ := f.store.Counts()
	assert.Zero(t, products)
}

func TestCreateProduct_AtomicidadAnteFallos(t *testing.T) {
	for _, op := range []string{memory.OpProductCreate, memory.OpInventoryCreate, memory.OpLogAppend, memory.OpCommit} {
		t.Run(op, func(t *testing.T) {
			f := newFixture(t)
			f.store.InjectFault(op, errors.New("fallo inyectado"))
			wh := f.warehouseID

			_, err := f.writer.CreateProduct(context.Background(), f.companyID, "", dto.CreateProductRequest{
				ProductTypeID: f.typeID, Name: "Widget", SKU: "W-1", WarehouseID: &wh, InitialQuantity: ptr(int64(5)),
			})
			require.Error(t, err)
			assert.Equal(t, domain.KindStorage, domain.KindOf(err))

			products, rows, entries := f.store.Counts()
			assert.Zero(t, products)
			assert.Zero(t, rows)
			assert.Zero(t, entries)
			assert.Empty(t, f.cache.invalidated)

			p, err := f.store.Products().GetBySKU(context.Background(), "W-1")
			require.NoError(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestCreateProduct_UnicidadConcurrente(t *testing.T) {
	f := newFixture(t)
	const n = 20
	wh := f.warehouseID

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, dup    int
		unexpected []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.writer.CreateProduct(context.Background(), f.companyID, "", dto.CreateProductRequest{
				ProductTypeID: f.typeID, Name: fmt.Sprintf("Widget %d", i), SKU: "RACE-1", WarehouseID: &wh, InitialQuantity: ptr(int64(i)),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrDuplicateSKU):
				dup++
			default:
				unexpected = append(unexpected, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
	products, rows, entries := f.store.Counts()
	assert.Equal(t, 1, products)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, entries)
}
