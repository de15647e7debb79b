package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/application/usecase"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/infrastructure/memory"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

func TestCompanyAndWarehouse(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	companies := usecase.NewCompanyUseCase(s.Companies())
	warehouses := usecase.NewWarehouseUseCase(s.Warehouses(), s.Companies())

	c, err := companies.Create(ctx, dto.CreateCompanyRequest{Name: " ACME "})
	require.NoError(t, err)
	assert.Equal(t, "ACME", c.Name)

	_, err = companies.Create(ctx, dto.CreateCompanyRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = companies.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	w, err := warehouses.Create(ctx, c.ID, dto.CreateWarehouseRequest{Name: "Central"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, w.CompanyID)

	_, err = warehouses.Create(ctx, uuid.NewString(), dto.CreateWarehouseRequest{Name: "Huérfana"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = warehouses.GetByID(ctx, uuid.NewString(), w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := warehouses.List(ctx, c.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	catalog := usecase.NewCatalogUseCase(s.ProductTypes(), s.Suppliers())

	pt, err := catalog.CreateProductType(ctx, dto.CreateProductTypeRequest{Name: "Insumos", LowStockThreshold: 20})
	require.NoError(t, err)
	got, err := catalog.GetProductType(ctx, pt.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.LowStockThreshold)

	_, err = catalog.CreateProductType(ctx, dto.CreateProductTypeRequest{Name: "Malo", LowStockThreshold: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	sup, err := catalog.CreateSupplier(ctx, dto.CreateSupplierRequest{Name: "Proveedor", ContactEmail: "a@b.co"})
	require.NoError(t, err)
	list, err := catalog.ListSuppliers(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sup.ID, list[0].ID)
}

// failingCache simula Redis caído.
type failingCache struct{ inventory.NopAlertCache }

func (failingCache) Invalidate(context.Context, string) error { return errors.New("redis caído") }

func TestProductDeactivate(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	products := usecase.NewProductUseCase(s.Products(), s.Inventory(), failingCache{}, logger.Nop())

	require.NoError(t, s.ProductTypes().Create(ctx, &entity.ProductType{ID: "t1", Name: "General", LowStockThreshold: 5}))
	for _, c := range []string{"c1", "c2"} {
		require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: c, Name: c}))
		require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w-" + c, CompanyID: c, Name: "Central"}))
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, s.Products().Create(ctx, &entity.Product{
			ID: id, Name: "Widget " + id, SKU: "W-" + id, Price: decimal.RequireFromString("9.99"),
			ProductTypeID: "t1", Status: entity.ProductStatusActive,
		}))
	}
	require.NoError(t, s.Inventory().Create(ctx, &entity.Inventory{ProductID: "p1", WarehouseID: "w-c1", Quantity: 3}))
	require.NoError(t, s.Inventory().Create(ctx, &entity.Inventory{ProductID: "p2", WarehouseID: "w-c1", Quantity: 3}))
	require.NoError(t, s.Inventory().Create(ctx, &entity.Inventory{ProductID: "p2", WarehouseID: "w-c2", Quantity: 3}))

	t.Run("stock solo propio", func(t *testing.T) {
		got, err := products.Deactivate(ctx, "c1", "p1")
		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusInactive, got.Status)
	})

	t.Run("stock en otra empresa", func(t *testing.T) {
		_, err := products.Deactivate(ctx, "c1", "p2")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		got, err := products.GetByID(ctx, "p2")
		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusActive, got.Status)
	})

	t.Run("sin stock", func(t *testing.T) {
		got, err := products.Deactivate(ctx, "c2", "p3")
		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusInactive, got.Status)
	})

	t.Run("inexistente", func(t *testing.T) {
		_, err := products.Deactivate(ctx, "c1", "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	list, err := products.List(ctx, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
}
