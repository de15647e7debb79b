package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada del Inventory Writer.
// Todo producto pertenece a un tipo. WarehouseID e InitialQuantity van juntos o no van.
type CreateProductRequest struct {
	Name            string           `json:"name" validate:"required,max=200"`
	SKU             string           `json:"sku" validate:"required,max=100"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	ProductTypeID   string           `json:"product_type_id" validate:"required,uuid"`
	SupplierID      string           `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	WarehouseID     *string          `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	InitialQuantity *int64           `json:"initial_quantity,omitempty" validate:"omitempty,min=0"`
}

// CreateProductResponse salida del Inventory Writer.
type CreateProductResponse struct {
	ProductID string `json:"product_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	ProductTypeID string          `json:"product_type_id,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
