package inventory

import (
	"context"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error (o falla el commit) ninguna escritura de fn queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		inventoryRepo repository.InventoryRepository,
		logRepo repository.InventoryLogRepository,
	) error) error
}

// AlertCache guarda el último reporte de stock bajo por empresa.
// Get devuelve nil cuando no hay entrada, junto con la generación vigente de la empresa.
// Invalidate descarta la entrada y avanza la generación; Set no escribe si la generación ya
// no es gen, así un reporte calculado antes de una invalidación no queda en la caché.
type AlertCache interface {
	Get(ctx context.Context, companyID string) (*dto.LowStockReport, int64, error)
	Set(ctx context.Context, companyID string, gen int64, report *dto.LowStockReport) error
	Invalidate(ctx context.Context, companyID string) error
}

// ReportRenderer genera el documento de reposición a partir del reporte de alertas.
type ReportRenderer interface {
	RenderLowStock(companyName string, report *dto.LowStockReport) ([]byte, error)
}

// NopAlertCache caché deshabilitada (REDIS_URL vacío).
type NopAlertCache struct{}

func (NopAlertCache) Get(context.Context, string) (*dto.LowStockReport, int64, error) {
	return nil, 0, nil
}
func (NopAlertCache) Set(context.Context, string, int64, *dto.LowStockReport) error { return nil }
func (NopAlertCache) Invalidate(context.Context, string) error { return nil }

var _ AlertCache = NopAlertCache{}
