package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

// ProductUseCase consultas de productos y desactivación. El alta vive en inventory.CreateProductUseCase
// y las cantidades solo cambian vía movimientos.
type ProductUseCase struct {
	repo          repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	cache         inventory.AlertCache
	log           *logger.Logger
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	cache inventory.AlertCache,
	log *logger.Logger,
) *ProductUseCase {
	if cache == nil {
		cache = inventory.NopAlertCache{}
	}
	return &ProductUseCase{repo: repo, inventoryRepo: inventoryRepo, cache: cache, log: log.Component("products")}
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Deactivate marca el producto como inactivo. No borra nada: inventario e historial se conservan.
// El analizador deja de alertar sobre él y los movimientos lo rechazan.
// El catálogo es global: si el producto tiene stock en bodegas de otra empresa, se rechaza (domain.ErrForbidden).
func (uc *ProductUseCase) Deactivate(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	stocking, err := uc.inventoryRepo.CompaniesStocking(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, other := range stocking {
		if other != companyID {
			return nil, fmt.Errorf("producto %s con stock en otra empresa: %w", id, domain.ErrForbidden)
		}
	}
	if err := uc.repo.SetStatus(ctx, id, entity.ProductStatusInactive, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.cache.Invalidate(ctx, companyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Str("product_id", id).Msg("no se pudo invalidar la caché de alertas")
	}
	return uc.GetByID(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Price:         p.Price,
		ProductTypeID: p.ProductTypeID,
		SupplierID:    p.SupplierID,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
