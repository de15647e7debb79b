package entity

import "time"

// ProductType centraliza la política de stock mínimo para un grupo de productos.
type ProductType struct {
	ID                string
	Name              string
	LowStockThreshold int64 // unidades por debajo de las cuales se dispara la alerta
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
