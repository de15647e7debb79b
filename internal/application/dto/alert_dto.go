package dto

import "time"

// LowStockAlertDTO alerta de stock bajo para un par (producto, bodega).
type LowStockAlertDTO struct {
	ProductID         string            `json:"product_id"`
	ProductName       string            `json:"product_name"`
	SKU               string            `json:"sku"`
	WarehouseID       string            `json:"warehouse_id"`
	WarehouseName     string            `json:"warehouse_name"`
	CurrentStock      int64             `json:"current_stock"`
	Threshold         int64             `json:"threshold"`
	DaysUntilStockout int64             `json:"days_until_stockout"`
	Supplier          *SupplierResponse `json:"supplier"`
}

// LowStockReport resultado del analizador. Alerts nunca es nil.
type LowStockReport struct {
	CompanyID   string             `json:"company_id"`
	AsOf        time.Time          `json:"as_of"`
	WindowDays  int64              `json:"window_days"`
	Alerts      []LowStockAlertDTO `json:"alerts"`
	TotalAlerts int                `json:"total_alerts"`
}
