package repository

import (
	"context"

	"github.com/jhoicas/stockpilot/internal/domain/entity"
)

// ProductTypeRepository define el puerto de persistencia para ProductType.
type ProductTypeRepository interface {
	Create(ctx context.Context, productType *entity.ProductType) error
	GetByID(ctx context.Context, id string) (*entity.ProductType, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ProductType, error)
}
