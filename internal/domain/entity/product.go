package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto. La desactivación es una bandera, nunca un borrado.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product representa un producto del catálogo global.
// No guarda bodega: el stock por bodega vive en Inventory.
type Product struct {
	ID            string
	Name          string
	SKU           string          // único en todo el catálogo
	Price         decimal.Decimal // precio de venta, nunca float
	ProductTypeID string          // obligatorio
	SupplierID    string          // vacío si no tiene proveedor
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive informa si el producto puede recibir movimientos.
func (p *Product) IsActive() bool {
	return p.Status == "" || p.Status == ProductStatusActive
}
