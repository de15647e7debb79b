package entity

// LowStockAlert alerta calculada para un par (producto, bodega) que vende y está bajo el umbral.
type LowStockAlert struct {
	ProductID         string
	ProductName       string
	SKU               string
	WarehouseID       string
	WarehouseName     string
	CurrentStock      int64
	Threshold         int64
	DaysUntilStockout int64
	Supplier          *Supplier // nil si el producto no tiene proveedor
}
