package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

// CatalogUseCase tipos de producto (con su umbral de stock bajo) y proveedores.
type CatalogUseCase struct {
	typeRepo     repository.ProductTypeRepository
	supplierRepo repository.SupplierRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(typeRepo repository.ProductTypeRepository, supplierRepo repository.SupplierRepository) *CatalogUseCase {
	return &CatalogUseCase{typeRepo: typeRepo, supplierRepo: supplierRepo}
}

// CreateProductType crea un tipo de producto.
func (uc *CatalogUseCase) CreateProductType(ctx context.Context, in dto.CreateProductTypeRequest) (*dto.ProductTypeResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	pt := &entity.ProductType{
		ID:                uuid.New().String(),
		Name:              in.Name,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.typeRepo.Create(ctx, pt); err != nil {
		return nil, err
	}
	return toProductTypeResponse(pt), nil
}

// GetProductType obtiene un tipo de producto.
func (uc *CatalogUseCase) GetProductType(ctx context.Context, id string) (*dto.ProductTypeResponse, error) {
	pt, err := uc.typeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, fmt.Errorf("tipo de producto %s: %w", id, domain.ErrNotFound)
	}
	return toProductTypeResponse(pt), nil
}

// ListProductTypes lista tipos de producto.
func (uc *CatalogUseCase) ListProductTypes(ctx context.Context, page dto.PageRequest) ([]dto.ProductTypeResponse, error) {
	page.DefaultPage()
	list, err := uc.typeRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductTypeResponse, 0, len(list))
	for _, pt := range list {
		out = append(out, *toProductTypeResponse(pt))
	}
	return out, nil
}

// CreateSupplier crea un proveedor.
func (uc *CatalogUseCase) CreateSupplier(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:           uuid.New().String(),
		Name:         in.Name,
		ContactEmail: in.ContactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.supplierRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetSupplier obtiene un proveedor.
func (uc *CatalogUseCase) GetSupplier(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("proveedor %s: %w", id, domain.ErrNotFound)
	}
	return toSupplierResponse(s), nil
}

// ListSuppliers lista proveedores.
func (uc *CatalogUseCase) ListSuppliers(ctx context.Context, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	list, err := uc.supplierRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func toProductTypeResponse(pt *entity.ProductType) *dto.ProductTypeResponse {
	return &dto.ProductTypeResponse{
		ID:                pt.ID,
		Name:              pt.Name,
		LowStockThreshold: pt.LowStockThreshold,
		CreatedAt:         pt.CreatedAt,
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{ID: s.ID, Name: s.Name, ContactEmail: s.ContactEmail}
}
