package repository

import (
	"context"

	"github.com/jhoicas/stockpilot/internal/domain/entity"
)

// StockPosition fila de inventario de una empresa con sus referencias resueltas.
// Los punteros quedan en nil cuando la referencia no resuelve (o no existe, en el caso del proveedor);
// los campos *Ref conservan el ID declarado en el producto para distinguir ambos casos.
type StockPosition struct {
	Inventory      entity.Inventory
	Product        entity.Product
	Warehouse      entity.Warehouse
	ProductType    *entity.ProductType
	Supplier       *entity.Supplier
	ProductTypeRef string
	SupplierRef    string
}

// InventoryRepository define el puerto para el stock por (producto, bodega).
// Usado dentro de transacciones para garantizar consistencia con el historial.
type InventoryRepository interface {
	// Create inserta la fila; si ya existe devuelve domain.ErrConflict.
	Create(ctx context.Context, inv *entity.Inventory) error
	Get(ctx context.Context, productID, warehouseID string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). nil si no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Inventory, error)
	UpdateQuantity(ctx context.Context, inv *entity.Inventory) error
	// ListPositionsByCompany devuelve todas las filas de inventario de las bodegas de la empresa.
	ListPositionsByCompany(ctx context.Context, companyID string) ([]StockPosition, error)
	// CompaniesStocking devuelve, ordenadas, las empresas con alguna fila de inventario del producto.
	CompaniesStocking(ctx context.Context, productID string) ([]string, error)
}
