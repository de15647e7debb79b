package inventory

import "time"

// DefaultWindowDays ventana de ventas usada para estimar la velocidad de salida.
const DefaultWindowDays = 30

// WindowDays días completos entre start y end, con mínimo 1 (evita división por cero).
func WindowDays(start, end time.Time) int64 {
	days := int64(end.Sub(start) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

// AvgDailySale = totalSold // windowDays, con mínimo 1.
// Un producto que vendió algo en la ventana nunca se trata como venta diaria cero.
func AvgDailySale(totalSold, windowDays int64) int64 {
	if windowDays < 1 {
		windowDays = 1
	}
	avg := totalSold / windowDays
	if avg < 1 {
		return 1
	}
	return avg
}

// DaysUntilStockout = quantity // AvgDailySale(totalSold, windowDays) (división entera).
func DaysUntilStockout(quantity, totalSold, windowDays int64) int64 {
	if quantity <= 0 {
		return 0
	}
	return quantity / AvgDailySale(totalSold, windowDays)
}
