package entity

import "time"

// Sale evento de venta registrado por el libro de ventas externo (solo lectura aquí).
type Sale struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    int64
	CreatedAt   time.Time
}
