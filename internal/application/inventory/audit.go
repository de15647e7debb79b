package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

// AuditUseCase reconstruye la cantidad de una fila a partir de su historial.
type AuditUseCase struct {
	inventoryRepo repository.InventoryRepository
	logRepo       repository.InventoryLogRepository
	warehouseRepo repository.WarehouseRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(
	inventoryRepo repository.InventoryRepository,
	logRepo repository.InventoryLogRepository,
	warehouseRepo repository.WarehouseRepository,
) *AuditUseCase {
	return &AuditUseCase{inventoryRepo: inventoryRepo, logRepo: logRepo, warehouseRepo: warehouseRepo}
}

// Audit devuelve la cantidad actual, la suma de los cambios del historial y si coinciden.
func (uc *AuditUseCase) Audit(ctx context.Context, companyID, productID, warehouseID string) (*dto.AuditResponse, error) {
	if err := requireUUIDs("product_id", productID, "warehouse_id", warehouseID); err != nil {
		return nil, err
	}
	if _, err := lookupWarehouse(ctx, uc.warehouseRepo, companyID, warehouseID); err != nil {
		return nil, err
	}
	inv, err := uc.inventoryRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, asStorage("get inventory", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("inventario %s/%s: %w", productID, warehouseID, domain.ErrNotFound)
	}
	logs, err := uc.logRepo.ListByInventory(ctx, productID, warehouseID)
	if err != nil {
		return nil, asStorage("list inventory logs", err)
	}

	resp := &dto.AuditResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    inv.Quantity,
		Entries:     make([]dto.InventoryLogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		resp.LogSum += l.Change
		resp.Entries = append(resp.Entries, dto.InventoryLogResponse{
			ID:            l.ID,
			TransactionID: l.TransactionID,
			Change:        l.Change,
			Reason:        l.Reason,
			Note:          l.Note,
			CreatedAt:     l.CreatedAt,
			CreatedBy:     l.CreatedBy,
		})
	}
	resp.Consistent = resp.LogSum == resp.Quantity
	return resp, nil
}
