package dto

import "time"

// Tipos de movimiento aceptados por POST /api/inventory/movements.
const (
	MovementTypeAdjustment = "ADJUSTMENT"
	MovementTypeTransfer   = "TRANSFER"
)

// AllocateInventoryRequest body para POST /api/inventory/allocations.
type AllocateInventoryRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	WarehouseID     string `json:"warehouse_id" validate:"required,uuid"`
	InitialQuantity int64  `json:"initial_quantity" validate:"min=0"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// ADJUSTMENT: product_id, warehouse_id, quantity con signo.
// TRANSFER: product_id, from_warehouse_id, to_warehouse_id, quantity > 0.
type RegisterMovementRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	WarehouseID     string `json:"warehouse_id,omitempty" validate:"required_if=Type ADJUSTMENT,omitempty,uuid"`
	FromWarehouseID string `json:"from_warehouse_id,omitempty" validate:"required_if=Type TRANSFER,omitempty,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id,omitempty" validate:"required_if=Type TRANSFER,omitempty,uuid"`
	Type            string `json:"type" validate:"required,oneof=ADJUSTMENT TRANSFER"`
	Quantity        int64  `json:"quantity"`
	Note            string `json:"note,omitempty" validate:"max=500"`
}

// InventoryResponse estado de una fila de inventario.
type InventoryResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InventoryLogResponse entrada del historial.
type InventoryLogResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Change        int64     `json:"change"`
	Reason        string    `json:"reason"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
}

// AuditResponse reconstrucción de la cantidad a partir del historial.
type AuditResponse struct {
	ProductID   string                 `json:"product_id"`
	WarehouseID string                 `json:"warehouse_id"`
	Quantity    int64                  `json:"quantity"`
	LogSum      int64                  `json:"log_sum"`
	Consistent  bool                   `json:"consistent"`
	Entries     []InventoryLogResponse `json:"entries"`
}
