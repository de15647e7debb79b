package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Create inserta la fila (producto, bodega). La PK compuesta rechaza duplicados (domain.ErrConflict)
// y el CHECK quantity >= 0 las cantidades negativas (domain.ErrValidation).
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, inv.ProductID, inv.WarehouseID, inv.Quantity, inv.UpdatedAt); err != nil {
		return classify("insert inventory", err)
	}
	return nil
}

// Get obtiene el inventario de un producto en una bodega. nil si no existe.
func (r *InventoryRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Inventory, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2`
	return r.getOne(ctx, "get inventory", query, productID, warehouseID)
}

// GetForUpdate obtiene el inventario y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Inventory, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.getOne(ctx, "get inventory for update", query, productID, warehouseID)
}

// UpdateQuantity fija la cantidad de una fila existente.
func (r *InventoryRepo) UpdateQuantity(ctx context.Context, inv *entity.Inventory) error {
	query := `
		UPDATE inventory SET quantity = $3, updated_at = $4
		WHERE product_id = $1 AND warehouse_id = $2`
	cmd, err := r.q.Exec(ctx, query, inv.ProductID, inv.WarehouseID, inv.Quantity, inv.UpdatedAt)
	if err != nil {
		return classify("update inventory", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("inventario %s/%s: %w", inv.ProductID, inv.WarehouseID, domain.ErrNotFound)
	}
	return nil
}

// ListPositionsByCompany une inventario, producto, bodega, tipo y proveedor de las bodegas de la empresa.
// Tipo y proveedor van con LEFT JOIN: el analizador decide qué hacer con las referencias que no resuelven.
func (r *InventoryRepo) ListPositionsByCompany(ctx context.Context, companyID string) ([]repository.StockPosition, error) {
	query := `
		SELECT i.product_id, i.warehouse_id, i.quantity, i.updated_at,
		       p.name, p.sku, p.price, COALESCE(p.product_type_id::text, ''), COALESCE(p.supplier_id::text, ''),
		       p.status, p.created_at, p.updated_at,
		       w.company_id, w.name, w.address, w.created_at, w.updated_at,
		       pt.id::text, pt.name, pt.low_stock_threshold,
		       s.id::text, s.name, s.contact_email
		FROM inventory i
		JOIN warehouses w ON w.id = i.warehouse_id
		JOIN products p ON p.id = i.product_id
		LEFT JOIN product_types pt ON pt.id = p.product_type_id
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE w.company_id = $1
		ORDER BY i.product_id, i.warehouse_id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, classify("list stock positions", err)
	}
	defer rows.Close()

	var list []repository.StockPosition
	for rows.Next() {
		var (
			pos                      repository.StockPosition
			ptID, ptName             *string
			ptThreshold              *int64
			supID, supName, supEmail *string
		)
		err := rows.Scan(
			&pos.Inventory.ProductID, &pos.Inventory.WarehouseID, &pos.Inventory.Quantity, &pos.Inventory.UpdatedAt,
			&pos.Product.Name, &pos.Product.SKU, &pos.Product.Price, &pos.ProductTypeRef, &pos.SupplierRef,
			&pos.Product.Status, &pos.Product.CreatedAt, &pos.Product.UpdatedAt,
			&pos.Warehouse.CompanyID, &pos.Warehouse.Name, &pos.Warehouse.Address, &pos.Warehouse.CreatedAt, &pos.Warehouse.UpdatedAt,
			&ptID, &ptName, &ptThreshold,
			&supID, &supName, &supEmail,
		)
		if err != nil {
			return nil, classify("scan stock position", err)
		}
		pos.Product.ID = pos.Inventory.ProductID
		pos.Product.ProductTypeID = pos.ProductTypeRef
		pos.Product.SupplierID = pos.SupplierRef
		pos.Warehouse.ID = pos.Inventory.WarehouseID
		if ptID != nil {
			pos.ProductType = &entity.ProductType{ID: *ptID, Name: deref(ptName), LowStockThreshold: derefInt(ptThreshold)}
		}
		if supID != nil {
			pos.Supplier = &entity.Supplier{ID: *supID, Name: deref(supName), ContactEmail: deref(supEmail)}
		}
		list = append(list, pos)
	}
	return list, rows.Err()
}

// CompaniesStocking empresas dueñas de las bodegas donde el producto tiene fila de inventario.
func (r *InventoryRepo) CompaniesStocking(ctx context.Context, productID string) ([]string, error) {
	query := `
		SELECT DISTINCT w.company_id::text
		FROM inventory i
		JOIN warehouses w ON w.id = i.warehouse_id
		WHERE i.product_id = $1
		ORDER BY 1`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, classify("list stocking companies", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, classify("scan stocking company", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *InventoryRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(ctx, query, args...).Scan(&inv.ProductID, &inv.WarehouseID, &inv.Quantity, &inv.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return &inv, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}

