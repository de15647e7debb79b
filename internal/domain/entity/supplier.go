package entity

import "time"

// Supplier proveedor al que se dirige la reposición.
type Supplier struct {
	ID           string
	Name         string
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
