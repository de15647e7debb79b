package entity

import "time"

// Motivos de cambio de inventario.
const (
	LogReasonIntake     = "intake"     // ingreso inicial del producto a una bodega
	LogReasonSale       = "sale"       // reservado para el pipeline de ventas externo
	LogReasonAdjustment = "adjustment" // ajuste manual
	LogReasonTransfer   = "transfer"   // traslado entre bodegas
)

// InventoryLog es una entrada inmutable del historial de cambios de un Inventory.
// La suma de Change de todas las entradas de una fila es igual a su Quantity.
type InventoryLog struct {
	ID            string
	TransactionID string
	ProductID     string
	WarehouseID   string
	Change        int64 // delta con signo
	Reason        string
	Note          string
	CreatedAt     time.Time
	CreatedBy     string
}

// ValidLogReason informa si reason es uno de los motivos conocidos.
func ValidLogReason(reason string) bool {
	switch reason {
	case LogReasonIntake, LogReasonSale, LogReasonAdjustment, LogReasonTransfer:
		return true
	}
	return false
}
