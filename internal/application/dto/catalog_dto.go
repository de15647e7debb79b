package dto

import "time"

// CreateProductTypeRequest entrada para crear un tipo de producto con su umbral.
type CreateProductTypeRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=200"`
	LowStockThreshold int64  `json:"low_stock_threshold" validate:"min=0"`
}

// ProductTypeResponse salida de un tipo de producto.
type ProductTypeResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// SupplierResponse salida de un proveedor. También se embebe en las alertas.
type SupplierResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}
