package postgres

import (
	"context"

	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo historial append-only de cambios de inventario.
// La tabla tiene un trigger que rechaza UPDATE y DELETE.
type InventoryLogRepo struct {
	q Querier
}

// NewInventoryLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLogRepository(q Querier) *InventoryLogRepo {
	return &InventoryLogRepo{q: q}
}

// Append registra una entrada del historial.
func (r *InventoryLogRepo) Append(ctx context.Context, e *entity.InventoryLog) error {
	query := `
		INSERT INTO inventory_logs (id, transaction_id, product_id, warehouse_id, change, reason, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TransactionID, e.ProductID, e.WarehouseID, e.Change, e.Reason, e.Note, e.CreatedAt, e.CreatedBy,
	)
	if err != nil {
		return classify("insert inventory log", err)
	}
	return nil
}

// ListByInventory devuelve las entradas de una fila de inventario en orden cronológico.
func (r *InventoryLogRepo) ListByInventory(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryLog, error) {
	query := `
		SELECT id, transaction_id, product_id, warehouse_id, change, reason, note, created_at, created_by
		FROM inventory_logs
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, classify("list inventory logs", err)
	}
	defer rows.Close()

	var list []*entity.InventoryLog
	for rows.Next() {
		var e entity.InventoryLog
		if err := rows.Scan(
			&e.ID, &e.TransactionID, &e.ProductID, &e.WarehouseID, &e.Change, &e.Reason, &e.Note, &e.CreatedAt, &e.CreatedBy,
		); err != nil {
			return nil, classify("scan inventory log", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
