package repository

import (
	"context"
	"time"
)

// SalesVelocity ventas agregadas de un par (producto, bodega) en una ventana.
type SalesVelocity struct {
	ProductID   string
	WarehouseID string
	TotalSold   int64
	SaleCount   int64
}

// SaleRepository consulta de solo lectura sobre el libro de ventas externo.
// SummarizeByCompany agrupa por (producto, bodega) las ventas de las bodegas de la empresa
// con created_at en [start, end); los pares sin ventas no aparecen.
type SaleRepository interface {
	SummarizeByCompany(ctx context.Context, companyID string, start, end time.Time) ([]SalesVelocity, error)
}
