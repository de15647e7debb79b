package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo lectura del libro de ventas. La tabla sales la escribe un proceso externo.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// SummarizeByCompany agrega las ventas de [start, end) por (producto, bodega) en una sola consulta.
func (r *SaleRepo) SummarizeByCompany(ctx context.Context, companyID string, start, end time.Time) ([]repository.SalesVelocity, error) {
	query := `
		SELECT s.product_id, s.warehouse_id, SUM(s.quantity)::bigint, COUNT(*)
		FROM sales s
		JOIN warehouses w ON w.id = s.warehouse_id
		WHERE w.company_id = $1 AND s.created_at >= $2 AND s.created_at < $3
		GROUP BY s.product_id, s.warehouse_id`
	rows, err := r.q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, classify("summarize sales", err)
	}
	defer rows.Close()

	var list []repository.SalesVelocity
	for rows.Next() {
		var v repository.SalesVelocity
		if err := rows.Scan(&v.ProductID, &v.WarehouseID, &v.TotalSold, &v.SaleCount); err != nil {
			return nil, classify("scan sales summary", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
