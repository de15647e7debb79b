package postgres

import (
	"context"

	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

var (
	_ repository.ProductTypeRepository = (*ProductTypeRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
)

// ProductTypeRepo persistencia de tipos de producto (umbral de stock bajo centralizado).
type ProductTypeRepo struct {
	q Querier
}

// NewProductTypeRepository construye el adaptador.
func NewProductTypeRepository(q Querier) *ProductTypeRepo {
	return &ProductTypeRepo{q: q}
}

// Create persiste un tipo de producto.
func (r *ProductTypeRepo) Create(ctx context.Context, pt *entity.ProductType) error {
	query := `
		INSERT INTO product_types (id, name, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, pt.ID, pt.Name, pt.LowStockThreshold, pt.CreatedAt, pt.UpdatedAt); err != nil {
		return classify("insert product type", err)
	}
	return nil
}

// GetByID obtiene un tipo de producto por ID.
func (r *ProductTypeRepo) GetByID(ctx context.Context, id string) (*entity.ProductType, error) {
	query := `SELECT id, name, low_stock_threshold, created_at, updated_at FROM product_types WHERE id = $1`
	var pt entity.ProductType
	err := r.q.QueryRow(ctx, query, id).Scan(&pt.ID, &pt.Name, &pt.LowStockThreshold, &pt.CreatedAt, &pt.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get product type", err)
	}
	return &pt, nil
}

// List devuelve tipos de producto ordenados por nombre.
func (r *ProductTypeRepo) List(ctx context.Context, limit, offset int) ([]*entity.ProductType, error) {
	query := `
		SELECT id, name, low_stock_threshold, created_at, updated_at
		FROM product_types ORDER BY name, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, classify("list product types", err)
	}
	defer rows.Close()

	var list []*entity.ProductType
	for rows.Next() {
		var pt entity.ProductType
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.LowStockThreshold, &pt.CreatedAt, &pt.UpdatedAt); err != nil {
			return nil, classify("scan product type", err)
		}
		list = append(list, &pt)
	}
	return list, rows.Err()
}

// SupplierRepo persistencia de proveedores.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, contact_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Name, s.ContactEmail, s.CreatedAt, s.UpdatedAt); err != nil {
		return classify("insert supplier", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `SELECT id, name, contact_email, created_at, updated_at FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.ContactEmail, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get supplier", err)
	}
	return &s, nil
}

// List devuelve proveedores ordenados por nombre.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, name, contact_email, created_at, updated_at
		FROM suppliers ORDER BY name, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, classify("list suppliers", err)
	}
	defer rows.Close()

	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.ContactEmail, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, classify("scan supplier", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
