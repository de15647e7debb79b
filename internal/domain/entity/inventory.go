package entity

import "time"

// Inventory representa el stock actual de un producto en una bodega.
// La clave es (ProductID, WarehouseID); Quantity nunca es negativa.
type Inventory struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
