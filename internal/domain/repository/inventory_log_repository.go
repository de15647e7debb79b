package repository

import (
	"context"

	"github.com/jhoicas/stockpilot/internal/domain/entity"
)

// InventoryLogRepository puerto del historial de cambios. Solo agrega: no hay update ni delete.
type InventoryLogRepository interface {
	Append(ctx context.Context, entry *entity.InventoryLog) error
	ListByInventory(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryLog, error)
}
