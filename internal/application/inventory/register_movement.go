package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

// RegisterMovementUseCase cambia cantidades de inventario existentes: asignación a una bodega adicional,
// ajustes y traslados. Cada cambio de cantidad va con su entrada de historial en la misma transacción,
// con bloqueo de fila (SELECT FOR UPDATE).
type RegisterMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	cache         AlertCache
	log           *logger.Logger
	now           func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. cache puede ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	cache AlertCache,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if cache == nil {
		cache = NopAlertCache{}
	}
	return &RegisterMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		cache:         cache,
		log:           log.Component("inventory_movements"),
		now:           time.Now,
	}
}

// Allocate crea la fila de inventario de un producto en otra bodega más su entrada intake.
// Si la fila ya existe devuelve domain.ErrConflict.
func (uc *RegisterMovementUseCase) Allocate(
	ctx context.Context,
	companyID, userID string,
	in dto.AllocateInventoryRequest,
) (*dto.InventoryResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := uc.activeProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.ownWarehouse(ctx, companyID, in.WarehouseID); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	inv := &entity.Inventory{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.InitialQuantity,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		inventoryRepo repository.InventoryRepository,
		logRepo repository.InventoryLogRepository,
	) error {
		if err := inventoryRepo.Create(ctx, inv); err != nil {
			return err
		}
		return logRepo.Append(ctx, newLog(uuid.New().String(), inv, in.InitialQuantity, entity.LogReasonIntake, "", userID, now))
	})
	if err != nil {
		return nil, uc.fail("allocate", err)
	}

	invalidate(ctx, uc.cache, uc.log, companyID)
	resp := toInventoryResponse(inv)
	return &resp, nil
}

// Register despacha el movimiento según su tipo (ADJUSTMENT o TRANSFER).
func (uc *RegisterMovementUseCase) Register(
	ctx context.Context,
	companyID, userID string,
	in dto.RegisterMovementRequest,
) ([]dto.InventoryResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	switch in.Type {
	case dto.MovementTypeAdjustment:
		inv, err := uc.Adjust(ctx, companyID, userID, in.ProductID, in.WarehouseID, in.Quantity, in.Note)
		if err != nil {
			return nil, err
		}
		return []dto.InventoryResponse{*inv}, nil
	case dto.MovementTypeTransfer:
		return uc.Transfer(ctx, companyID, userID, in.ProductID, in.FromWarehouseID, in.ToWarehouseID, in.Quantity, in.Note)
	}
	return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, in.Type)
}

// Adjust suma delta (con signo) a la cantidad de la fila. El resultado nunca puede ser negativo.
func (uc *RegisterMovementUseCase) Adjust(
	ctx context.Context,
	companyID, userID, productID, warehouseID string,
	delta int64, note string,
) (*dto.InventoryResponse, error) {
	if err := requireUUIDs("product_id", productID, "warehouse_id", warehouseID); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrValidation)
	}
	if _, err := uc.activeProduct(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := uc.ownWarehouse(ctx, companyID, warehouseID); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	var result entity.Inventory
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		inventoryRepo repository.InventoryRepository,
		logRepo repository.InventoryLogRepository,
	) error {
		inv, err := lockInventory(ctx, inventoryRepo, productID, warehouseID)
		if err != nil {
			return err
		}
		if inv.Quantity+delta < 0 {
			return fmt.Errorf("%w: hay %d y el ajuste es %d", domain.ErrInsufficientStock, inv.Quantity, delta)
		}
		inv.Quantity += delta
		inv.UpdatedAt = now
		if err := inventoryRepo.UpdateQuantity(ctx, inv); err != nil {
			return err
		}
		result = *inv
		return logRepo.Append(ctx, newLog(uuid.New().String(), inv, delta, entity.LogReasonAdjustment, note, userID, now))
	})
	if err != nil {
		return nil, uc.fail("adjust", err)
	}

	invalidate(ctx, uc.cache, uc.log, companyID)
	resp := toInventoryResponse(&result)
	return &resp, nil
}

// Transfer mueve quantity unidades de from a to (misma empresa). Crea la fila destino si no existe.
// Las dos filas se bloquean en orden de warehouse_id para que traslados cruzados no se bloqueen entre sí.
func (uc *RegisterMovementUseCase) Transfer(
	ctx context.Context,
	companyID, userID, productID, fromID, toID string,
	quantity int64, note string,
) ([]dto.InventoryResponse, error) {
	if err := requireUUIDs("product_id", productID, "from_warehouse_id", fromID, "to_warehouse_id", toID); err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, fmt.Errorf("%w: origen y destino son la misma bodega", domain.ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a trasladar debe ser positiva", domain.ErrValidation)
	}
	if _, err := uc.activeProduct(ctx, productID); err != nil {
		return nil, err
	}
	from, err := uc.ownWarehouse(ctx, companyID, fromID)
	if err != nil {
		return nil, err
	}
	to, err := uc.ownWarehouse(ctx, companyID, toID)
	if err != nil {
		return nil, err
	}
	if from.CompanyID != to.CompanyID {
		return nil, fmt.Errorf("%w: las bodegas pertenecen a empresas distintas", domain.ErrValidation)
	}

	now := uc.now().UTC()
	txID := uuid.New().String()
	var out, in entity.Inventory
	err = uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		inventoryRepo repository.InventoryRepository,
		logRepo repository.InventoryLogRepository,
	) error {
		first, second := fromID, toID
		if second < first {
			first, second = second, first
		}
		locked := map[string]*entity.Inventory{}
		for _, whID := range []string{first, second} {
			inv, err := inventoryRepo.GetForUpdate(ctx, productID, whID)
			if err != nil {
				return err
			}
			locked[whID] = inv
		}

		src := locked[fromID]
		if src == nil {
			return fmt.Errorf("inventario %s/%s: %w", productID, fromID, domain.ErrNotFound)
		}
		if src.Quantity < quantity {
			return fmt.Errorf("%w: hay %d y se pidió trasladar %d", domain.ErrInsufficientStock, src.Quantity, quantity)
		}
		src.Quantity -= quantity
		src.UpdatedAt = now
		if err := inventoryRepo.UpdateQuantity(ctx, src); err != nil {
			return err
		}

		dst := locked[toID]
		if dst == nil {
			dst = &entity.Inventory{ProductID: productID, WarehouseID: toID, Quantity: quantity, UpdatedAt: now}
			if err := inventoryRepo.Create(ctx, dst); err != nil {
				return err
			}
		} else {
			dst.Quantity += quantity
			dst.UpdatedAt = now
			if err := inventoryRepo.UpdateQuantity(ctx, dst); err != nil {
				return err
			}
		}

		if err := logRepo.Append(ctx, newLog(txID, src, -quantity, entity.LogReasonTransfer, note, userID, now)); err != nil {
			return err
		}
		if err := logRepo.Append(ctx, newLog(txID, dst, quantity, entity.LogReasonTransfer, note, userID, now)); err != nil {
			return err
		}
		out, in = *src, *dst
		return nil
	})
	if err != nil {
		return nil, uc.fail("transfer", err)
	}

	invalidate(ctx, uc.cache, uc.log, companyID)
	return []dto.InventoryResponse{toInventoryResponse(&out), toInventoryResponse(&in)}, nil
}

// activeProduct exige que el producto exista (ErrNotFound) y esté activo (ErrValidation).
func (uc *RegisterMovementUseCase) activeProduct(ctx context.Context, productID string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, asStorage("get product", err)
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	if !p.IsActive() {
		return nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrValidation, productID)
	}
	return p, nil
}

// ownWarehouse exige que la bodega exista y pertenezca a companyID.
func (uc *RegisterMovementUseCase) ownWarehouse(ctx context.Context, companyID, warehouseID string) (*entity.Warehouse, error) {
	return lookupWarehouse(ctx, uc.warehouseRepo, companyID, warehouseID)
}

func (uc *RegisterMovementUseCase) fail(op string, err error) error {
	err = asStorage(op, err)
	uc.log.Warn().Err(err).Str("op", op).Str("kind", domain.KindOf(err)).Msg("movimiento revertido")
	return err
}

func lookupWarehouse(ctx context.Context, repo repository.WarehouseRepository, companyID, warehouseID string) (*entity.Warehouse, error) {
	wh, err := repo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, asStorage("get warehouse", err)
	}
	if wh == nil {
		return nil, fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
	}
	if companyID != "" && wh.CompanyID != companyID {
		return nil, fmt.Errorf("bodega %s de otra empresa: %w", warehouseID, domain.ErrForbidden)
	}
	return wh, nil
}

func lockInventory(ctx context.Context, repo repository.InventoryRepository, productID, warehouseID string) (*entity.Inventory, error) {
	inv, err := repo.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("inventario %s/%s: %w", productID, warehouseID, domain.ErrNotFound)
	}
	return inv, nil
}

func newLog(txID string, inv *entity.Inventory, change int64, reason, note, userID string, at time.Time) *entity.InventoryLog {
	return &entity.InventoryLog{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     inv.ProductID,
		WarehouseID:   inv.WarehouseID,
		Change:        change,
		Reason:        reason,
		Note:          note,
		CreatedAt:     at,
		CreatedBy:     userID,
	}
}

func toInventoryResponse(inv *entity.Inventory) dto.InventoryResponse {
	return dto.InventoryResponse{
		ProductID:   inv.ProductID,
		WarehouseID: inv.WarehouseID,
		Quantity:    inv.Quantity,
		UpdatedAt:   inv.UpdatedAt,
	}
}
