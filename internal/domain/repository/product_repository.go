package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockpilot/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Create debe devolver domain.ErrDuplicateSKU cuando la restricción única de sku se viola:
// la unicidad la garantiza el almacenamiento, no una consulta previa.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	SetStatus(ctx context.Context, id, status string, at time.Time) error
}
