package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

var (
	_ repository.CompanyRepository      = (*CompanyRepo)(nil)
	_ repository.WarehouseRepository    = (*WarehouseRepo)(nil)
	_ repository.ProductTypeRepository  = (*ProductTypeRepo)(nil)
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.InventoryRepository    = (*InventoryRepo)(nil)
	_ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)
	_ repository.SaleRepository         = (*SaleRepo)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

// CompanyRepo empresas.
type CompanyRepo struct{ v view }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.v(func(st *state) error {
		if _, ok := st.companies[c.ID]; ok {
			return fmt.Errorf("insert company: %w: companies_pkey", domain.ErrConflict)
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.v(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.v(func(st *state) error {
		all := make([]*entity.Company, 0, len(st.companies))
		for _, c := range st.companies {
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return newerFirst(all[i].CreatedAt, all[j].CreatedAt, all[i].ID, all[j].ID) })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// WarehouseRepo bodegas. La empresa debe existir.
type WarehouseRepo struct{ v view }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.v(func(st *state) error {
		if _, ok := st.companies[w.CompanyID]; !ok {
			return fmt.Errorf("insert warehouse: %w: warehouses_company_id_fkey", domain.ErrNotFound)
		}
		if _, ok := st.warehouses[w.ID]; ok {
			return fmt.Errorf("insert warehouse: %w: warehouses_pkey", domain.ErrConflict)
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.v(func(st *state) error {
		var all []*entity.Warehouse
		for _, w := range st.warehouses {
			if w.CompanyID == companyID {
				all = append(all, &w)
			}
		}
		sort.Slice(all, func(i, j int) bool { return byName(all[i].Name, all[j].Name, all[i].ID, all[j].ID) })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// ProductTypeRepo tipos de producto.
type ProductTypeRepo struct{ v view }

func (r *ProductTypeRepo) Create(_ context.Context, pt *entity.ProductType) error {
	return r.v(func(st *state) error {
		if pt.LowStockThreshold < 0 {
			return fmt.Errorf("insert product type: %w: product_types_low_stock_threshold_check", domain.ErrValidation)
		}
		if _, ok := st.productTypes[pt.ID]; ok {
			return fmt.Errorf("insert product type: %w: product_types_pkey", domain.ErrConflict)
		}
		st.productTypes[pt.ID] = *pt
		return nil
	})
}

func (r *ProductTypeRepo) GetByID(_ context.Context, id string) (*entity.ProductType, error) {
	var out *entity.ProductType
	err := r.v(func(st *state) error {
		if pt, ok := st.productTypes[id]; ok {
			out = &pt
		}
		return nil
	})
	return out, err
}

func (r *ProductTypeRepo) List(_ context.Context, limit, offset int) ([]*entity.ProductType, error) {
	var out []*entity.ProductType
	err := r.v(func(st *state) error {
		all := make([]*entity.ProductType, 0, len(st.productTypes))
		for _, pt := range st.productTypes {
			all = append(all, &pt)
		}
		sort.Slice(all, func(i, j int) bool { return byName(all[i].Name, all[j].Name, all[i].ID, all[j].ID) })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// SupplierRepo proveedores.
type SupplierRepo struct{ v view }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.v(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; ok {
			return fmt.Errorf("insert supplier: %w: suppliers_pkey", domain.ErrConflict)
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.v(func(st *state) error {
		all := make([]*entity.Supplier, 0, len(st.suppliers))
		for _, s := range st.suppliers {
			all = append(all, &s)
		}
		sort.Slice(all, func(i, j int) bool { return byName(all[i].Name, all[j].Name, all[i].ID, all[j].ID) })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// ProductRepo productos. El índice skus cumple el papel de products_sku_key.
type ProductRepo struct {
	v view
	s *Store
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v(func(st *state) error {
		if err := r.s.takeFault(OpProductCreate); err != nil {
			return err
		}
		if _, ok := st.skus[p.SKU]; ok {
			return fmt.Errorf("insert product: %w", domain.ErrDuplicateSKU)
		}
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("insert product: %w: products_pkey", domain.ErrConflict)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("insert product: %w: products_price_check", domain.ErrValidation)
		}
		if p.Status != entity.ProductStatusActive && p.Status != entity.ProductStatusInactive {
			return fmt.Errorf("insert product: %w: products_status_check", domain.ErrValidation)
		}
		if p.ProductTypeID == "" {
			return fmt.Errorf("insert product: %w: product_type_id no puede ser nulo", domain.ErrValidation)
		}
		if _, ok := st.productTypes[p.ProductTypeID]; !ok {
			return fmt.Errorf("insert product: %w: products_product_type_id_fkey", domain.ErrNotFound)
		}
		if p.SupplierID != "" {
			if _, ok := st.suppliers[p.SupplierID]; !ok {
				return fmt.Errorf("insert product: %w: products_supplier_id_fkey", domain.ErrNotFound)
			}
		}
		st.products[p.ID] = *p
		st.skus[p.SKU] = p.ID
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v(func(st *state) error {
		if id, ok := st.skus[sku]; ok {
			p := st.products[id]
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			all = append(all, &p)
		}
		sort.Slice(all, func(i, j int) bool { return newerFirst(all[i].CreatedAt, all[j].CreatedAt, all[i].ID, all[j].ID) })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) SetStatus(_ context.Context, id, status string, at time.Time) error {
	return r.v(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		if status != entity.ProductStatusActive && status != entity.ProductStatusInactive {
			return fmt.Errorf("update product status: %w: products_status_check", domain.ErrValidation)
		}
		p.Status = status
		p.UpdatedAt = at
		st.products[p.ID] = p
		return nil
	})
}

// InventoryRepo filas (producto, bodega).
type InventoryRepo struct {
	v view
	s *Store
}

func (r *InventoryRepo) Create(_ context.Context, inv *entity.Inventory) error {
	return r.v(func(st *state) error {
		if err := r.s.takeFault(OpInventoryCreate); err != nil {
			return err
		}
		if inv.Quantity < 0 {
			return fmt.Errorf("insert inventory: %w: inventory_quantity_check", domain.ErrValidation)
		}
		if _, ok := st.products[inv.ProductID]; !ok {
			return fmt.Errorf("insert inventory: %w: inventory_product_id_fkey", domain.ErrNotFound)
		}
		if _, ok := st.warehouses[inv.WarehouseID]; !ok {
			return fmt.Errorf("insert inventory: %w: inventory_warehouse_id_fkey", domain.ErrNotFound)
		}
		k := invKey{inv.ProductID, inv.WarehouseID}
		if _, ok := st.inventory[k]; ok {
			return fmt.Errorf("insert inventory: %w: inventory_pkey", domain.ErrConflict)
		}
		st.inventory[k] = *inv
		return nil
	})
}

func (r *InventoryRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Inventory, error) {
	var out *entity.Inventory
	err := r.v(func(st *state) error {
		if inv, ok := st.inventory[invKey{productID, warehouseID}]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get: dentro de TxRunner.Run el almacén completo ya está bloqueado.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Inventory, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *InventoryRepo) UpdateQuantity(_ context.Context, inv *entity.Inventory) error {
	return r.v(func(st *state) error {
		if err := r.s.takeFault(OpInventoryUpdate); err != nil {
			return err
		}
		k := invKey{inv.ProductID, inv.WarehouseID}
		cur, ok := st.inventory[k]
		if !ok {
			return fmt.Errorf("inventario %s/%s: %w", inv.ProductID, inv.WarehouseID, domain.ErrNotFound)
		}
		if inv.Quantity < 0 {
			return fmt.Errorf("update inventory: %w: inventory_quantity_check", domain.ErrValidation)
		}
		cur.Quantity = inv.Quantity
		cur.UpdatedAt = inv.UpdatedAt
		st.inventory[invKey{cur.ProductID, cur.WarehouseID}] = cur
		return nil
	})
}

func (r *InventoryRepo) ListPositionsByCompany(_ context.Context, companyID string) ([]repository.StockPosition, error) {
	var out []repository.StockPosition
	err := r.v(func(st *state) error {
		for k, inv := range st.inventory {
			w, ok := st.warehouses[k.warehouseID]
			if !ok || w.CompanyID != companyID {
				continue
			}
			p := st.products[k.productID]
			pos := repository.StockPosition{
				Inventory:      inv,
				Product:        p,
				Warehouse:      w,
				ProductTypeRef: p.ProductTypeID,
				SupplierRef:    p.SupplierID,
			}
			if pt, ok := st.productTypes[p.ProductTypeID]; ok {
				pos.ProductType = &pt
			}
			if s, ok := st.suppliers[p.SupplierID]; ok {
				pos.Supplier = &s
			}
			out = append(out, pos)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Inventory.ProductID != out[j].Inventory.ProductID {
				return out[i].Inventory.ProductID < out[j].Inventory.ProductID
			}
			return out[i].Inventory.WarehouseID < out[j].Inventory.WarehouseID
		})
		return nil
	})
	return out, err
}

func (r *InventoryRepo) CompaniesStocking(_ context.Context, productID string) ([]string, error) {
	var out []string
	err := r.v(func(st *state) error {
		seen := map[string]bool{}
		for k := range st.inventory {
			if k.productID != productID {
				continue
			}
			if w, ok := st.warehouses[k.warehouseID]; ok && !seen[w.CompanyID] {
				seen[w.CompanyID] = true
				out = append(out, w.CompanyID)
			}
		}
		sort.Strings(out)
		return nil
	})
	return out, err
}

// InventoryLogRepo historial append-only.
type InventoryLogRepo struct {
	v view
	s *Store
}

func (r *InventoryLogRepo) Append(_ context.Context, e *entity.InventoryLog) error {
	return r.v(func(st *state) error {
		if err := r.s.takeFault(OpLogAppend); err != nil {
			return err
		}
		if !entity.ValidLogReason(e.Reason) {
			return fmt.Errorf("insert inventory log: %w: inventory_logs_reason_check", domain.ErrValidation)
		}
		if _, ok := st.inventory[invKey{e.ProductID, e.WarehouseID}]; !ok {
			return fmt.Errorf("insert inventory log: %w: inventory_logs_product_id_warehouse_id_fkey", domain.ErrNotFound)
		}
		st.logs = append(st.logs, *e)
		return nil
	})
}

func (r *InventoryLogRepo) ListByInventory(_ context.Context, productID, warehouseID string) ([]*entity.InventoryLog, error) {
	var out []*entity.InventoryLog
	err := r.v(func(st *state) error {
		for _, e := range st.logs {
			if e.ProductID == productID && e.WarehouseID == warehouseID {
				out = append(out, &e)
			}
		}
		return nil
	})
	return out, err
}

// SaleRepo lectura del libro de ventas.
type SaleRepo struct{ v view }

func (r *SaleRepo) SummarizeByCompany(_ context.Context, companyID string, start, end time.Time) ([]repository.SalesVelocity, error) {
	var out []repository.SalesVelocity
	err := r.v(func(st *state) error {
		idx := map[invKey]int{}
		for _, s := range st.sales {
			if s.CreatedAt.Before(start) || !s.CreatedAt.Before(end) {
				continue
			}
			if w, ok := st.warehouses[s.WarehouseID]; !ok || w.CompanyID != companyID {
				continue
			}
			k := invKey{s.ProductID, s.WarehouseID}
			i, ok := idx[k]
			if !ok {
				i = len(out)
				idx[k] = i
				out = append(out, repository.SalesVelocity{ProductID: s.ProductID, WarehouseID: s.WarehouseID})
			}
			out[i].TotalSold += s.Quantity
			out[i].SaleCount++
		}
		return nil
	})
	return out, err
}

func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}

func byName(a, b, idA, idB string) bool {
	if a != b {
		return a < b
	}
	return idA < idB
}
