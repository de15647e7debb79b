package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

// CreateProductUseCase crea un producto y, opcionalmente, su inventario inicial en una bodega,
// todo en una sola transacción.
type CreateProductUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	typeRepo      repository.ProductTypeRepository
	supplierRepo  repository.SupplierRepository
	cache         AlertCache
	log           *logger.Logger
	now           func() time.Time
}

// NewCreateProductUseCase construye el caso de uso. cache puede ser nil.
func NewCreateProductUseCase(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	typeRepo repository.ProductTypeRepository,
	supplierRepo repository.SupplierRepository,
	cache AlertCache,
	log *logger.Logger,
) *CreateProductUseCase {
	if cache == nil {
		cache = NopAlertCache{}
	}
	return &CreateProductUseCase{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		typeRepo:      typeRepo,
		supplierRepo:  supplierRepo,
		cache:         cache,
		log:           log.Component("inventory_writer"),
		now:           time.Now,
	}
}

// CreateProduct valida la entrada antes de tocar el almacenamiento y luego inserta, en una transacción,
// el producto, la fila de inventario y la entrada intake del historial.
// companyID es la empresa del operador: la bodega inicial debe pertenecerle.
// Errores: domain.ErrValidation, ErrNotFound, ErrForbidden, ErrDuplicateSKU o ErrStorage.
func (uc *CreateProductUseCase) CreateProduct(
	ctx context.Context,
	companyID, userID string,
	in dto.CreateProductRequest,
) (*dto.CreateProductResponse, error) {
	in.Name = normalizeText(in.Name)
	in.SKU = normalizeText(in.SKU)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if (in.WarehouseID == nil) != (in.InitialQuantity == nil) {
		return nil, fmt.Errorf("%w: warehouse_id e initial_quantity van juntos", domain.ErrValidation)
	}
	if in.WarehouseID != nil && *in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: warehouse_id vacío", domain.ErrValidation)
	}
	price := decimal.Zero
	if in.Price != nil {
		price = *in.Price
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	var warehouse *entity.Warehouse
	if in.WarehouseID != nil {
		wh, err := uc.warehouseRepo.GetByID(ctx, *in.WarehouseID)
		if err != nil {
			return nil, asStorage("get warehouse", err)
		}
		if wh == nil {
			return nil, fmt.Errorf("bodega %s: %w", *in.WarehouseID, domain.ErrNotFound)
		}
		if companyID != "" && wh.CompanyID != companyID {
			return nil, fmt.Errorf("bodega %s de otra empresa: %w", wh.ID, domain.ErrForbidden)
		}
		warehouse = wh
	}
	pt, err := uc.typeRepo.GetByID(ctx, in.ProductTypeID)
	if err != nil {
		return nil, asStorage("get product type", err)
	}
	if pt == nil {
		return nil, fmt.Errorf("tipo de producto %s: %w", in.ProductTypeID, domain.ErrNotFound)
	}
	if in.SupplierID != "" {
		s, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
		if err != nil {
			return nil, asStorage("get supplier", err)
		}
		if s == nil {
			return nil, fmt.Errorf("proveedor %s: %w", in.SupplierID, domain.ErrNotFound)
		}
	}

	now := uc.now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		SKU:           in.SKU,
		Price:         price,
		ProductTypeID: in.ProductTypeID,
		SupplierID:    in.SupplierID,
		Status:        entity.ProductStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Sin consulta previa del SKU: la restricción única del almacenamiento es la que decide.
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		inventoryRepo repository.InventoryRepository,
		logRepo repository.InventoryLogRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if warehouse == nil {
			return nil
		}
		qty := *in.InitialQuantity
		if err := inventoryRepo.Create(ctx, &entity.Inventory{
			ProductID:   product.ID,
			WarehouseID: warehouse.ID,
			Quantity:    qty,
			UpdatedAt:   now,
		}); err != nil {
			return err
		}
		return logRepo.Append(ctx, &entity.InventoryLog{
			ID:            uuid.New().String(),
			TransactionID: uuid.New().String(),
			ProductID:     product.ID,
			WarehouseID:   warehouse.ID,
			Change:        qty,
			Reason:        entity.LogReasonIntake,
			CreatedAt:     now,
			CreatedBy:     userID,
		})
	})
	if err != nil {
		err = asStorage("create product", err)
		uc.log.Warn().Err(err).
			Str("sku", product.SKU).
			Str("kind", domain.KindOf(err)).
			Msg("alta de producto revertida")
		return nil, err
	}

	uc.log.Info().
		Str("product_id", product.ID).
		Str("sku", product.SKU).
		Bool("with_inventory", warehouse != nil).
		Msg("producto creado")

	if warehouse != nil {
		invalidate(ctx, uc.cache, uc.log, warehouse.CompanyID)
	}
	return &dto.CreateProductResponse{ProductID: product.ID}, nil
}

// invalidate descarta el reporte cacheado de la empresa. Un fallo de la caché no revierte la escritura.
func invalidate(ctx context.Context, cache AlertCache, log *logger.Logger, companyID string) {
	if err := cache.Invalidate(ctx, companyID); err != nil {
		log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar la caché de alertas")
	}
}
