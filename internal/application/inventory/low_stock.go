package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	domaininv "github.com/jhoicas/stockpilot/internal/domain/inventory"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
	"github.com/jhoicas/stockpilot/pkg/logger"
)

// LowStockUseCase calcula, por empresa, los pares (producto, bodega) que venden y están bajo el umbral,
// con la estimación de días hasta agotarse.
type LowStockUseCase struct {
	companyRepo   repository.CompanyRepository
	inventoryRepo repository.InventoryRepository
	saleRepo      repository.SaleRepository
	policy        domaininv.ThresholdPolicy
	cache         AlertCache
	windowDays    int64
	log           *logger.Logger
	now           func() time.Time
}

// LowStockOption configura el analizador.
type LowStockOption func(*LowStockUseCase)

// WithWindowDays cambia la ventana de ventas (mínimo 1 día).
func WithWindowDays(days int) LowStockOption {
	return func(uc *LowStockUseCase) {
		if days < 1 {
			days = 1
		}
		uc.windowDays = int64(days)
	}
}

// WithThresholdPolicy reemplaza la política de umbral (por defecto, el del tipo de producto).
func WithThresholdPolicy(p domaininv.ThresholdPolicy) LowStockOption {
	return func(uc *LowStockUseCase) { uc.policy = p }
}

// WithAlertCache sirve CurrentAlerts desde la caché.
func WithAlertCache(c AlertCache) LowStockOption {
	return func(uc *LowStockUseCase) {
		if c != nil {
			uc.cache = c
		}
	}
}

// WithClock fija el reloj usado por CurrentAlerts.
func WithClock(now func() time.Time) LowStockOption {
	return func(uc *LowStockUseCase) { uc.now = now }
}

// NewLowStockUseCase construye el analizador.
func NewLowStockUseCase(
	companyRepo repository.CompanyRepository,
	inventoryRepo repository.InventoryRepository,
	saleRepo repository.SaleRepository,
	log *logger.Logger,
	opts ...LowStockOption,
) *LowStockUseCase {
	uc := &LowStockUseCase{
		companyRepo:   companyRepo,
		inventoryRepo: inventoryRepo,
		saleRepo:      saleRepo,
		policy:        domaininv.ProductTypePolicy{},
		cache:         NopAlertCache{},
		windowDays:    domaininv.DefaultWindowDays,
		log:           log.Component("low_stock"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CurrentAlerts calcula las alertas a la hora actual, pasando por la caché.
// Un fallo de la caché se registra y se recalcula. El reporte solo se guarda si ninguna
// escritura invalidó la empresa mientras se calculaba.
func (uc *LowStockUseCase) CurrentAlerts(ctx context.Context, companyID string) (*dto.LowStockReport, error) {
	cached, gen, err := uc.cache.Get(ctx, companyID)
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("lectura de caché de alertas fallida")
	}
	if cached != nil {
		return cached, nil
	}

	report, err := uc.ComputeAlerts(ctx, companyID, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, companyID, gen, report); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("escritura de caché de alertas fallida")
	}
	return report, nil
}

// ComputeAlerts recorre el inventario de las bodegas de la empresa contra las ventas de
// [asOf - ventana, asOf). Omite pares sin ventas en la ventana, productos inactivos y pares
// con cantidad >= umbral. Orden: días hasta agotarse ascendente, luego product_id y warehouse_id.
// Errores: domain.ErrNotFound si la empresa no existe; domain.ErrIntegrity si una referencia
// de una fila candidata no resuelve. En ambos casos no se devuelve un resultado parcial.
func (uc *LowStockUseCase) ComputeAlerts(ctx context.Context, companyID string, asOf time.Time) (*dto.LowStockReport, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, asStorage("get company", err)
	}
	if company == nil {
		return nil, fmt.Errorf("empresa %s: %w", companyID, domain.ErrNotFound)
	}

	asOf = asOf.UTC()
	start := asOf.Add(-time.Duration(uc.windowDays) * 24 * time.Hour)
	windowDays := domaininv.WindowDays(start, asOf)

	positions, err := uc.inventoryRepo.ListPositionsByCompany(ctx, companyID)
	if err != nil {
		return nil, asStorage("list stock positions", err)
	}
	summary, err := uc.saleRepo.SummarizeByCompany(ctx, companyID, start, asOf)
	if err != nil {
		return nil, asStorage("summarize sales", err)
	}
	sold := make(map[pairKey]int64, len(summary))
	for _, s := range summary {
		sold[pairKey{s.ProductID, s.WarehouseID}] += s.TotalSold
	}

	var alerts []entity.LowStockAlert
	for _, pos := range positions {
		if !pos.Product.IsActive() {
			continue
		}
		totalSold := sold[pairKey{pos.Inventory.ProductID, pos.Inventory.WarehouseID}]
		if totalSold <= 0 {
			continue
		}
		threshold, err := uc.policy.Threshold(pos)
		if err != nil {
			return nil, err
		}
		if pos.Inventory.Quantity >= threshold {
			continue
		}
		if pos.SupplierRef != "" && pos.Supplier == nil {
			return nil, fmt.Errorf("%w: proveedor %s del producto %s no existe",
				domain.ErrIntegrity, pos.SupplierRef, pos.Product.ID)
		}
		alerts = append(alerts, entity.LowStockAlert{
			ProductID:         pos.Product.ID,
			ProductName:       pos.Product.Name,
			SKU:               pos.Product.SKU,
			WarehouseID:       pos.Warehouse.ID,
			WarehouseName:     pos.Warehouse.Name,
			CurrentStock:      pos.Inventory.Quantity,
			Threshold:         threshold,
			DaysUntilStockout: domaininv.DaysUntilStockout(pos.Inventory.Quantity, totalSold, windowDays),
			Supplier:          pos.Supplier,
		})
	}
	sortAlerts(alerts)

	uc.log.Debug().
		Str("company_id", companyID).
		Int("rows", len(positions)).
		Int("selling_pairs", len(sold)).
		Int("alerts", len(alerts)).
		Msg("alertas de stock bajo calculadas")

	report := &dto.LowStockReport{
		CompanyID:   companyID,
		AsOf:        asOf,
		WindowDays:  windowDays,
		Alerts:      make([]dto.LowStockAlertDTO, 0, len(alerts)),
		TotalAlerts: len(alerts),
	}
	for _, a := range alerts {
		report.Alerts = append(report.Alerts, toAlertDTO(a))
	}
	return report, nil
}

type pairKey struct {
	productID   string
	warehouseID string
}

func sortAlerts(alerts []entity.LowStockAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.DaysUntilStockout != b.DaysUntilStockout {
			return a.DaysUntilStockout < b.DaysUntilStockout
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.WarehouseID < b.WarehouseID
	})
}

func toAlertDTO(a entity.LowStockAlert) dto.LowStockAlertDTO {
	out := dto.LowStockAlertDTO{
		ProductID:         a.ProductID,
		ProductName:       a.ProductName,
		SKU:               a.SKU,
		WarehouseID:       a.WarehouseID,
		WarehouseName:     a.WarehouseName,
		CurrentStock:      a.CurrentStock,
		Threshold:         a.Threshold,
		DaysUntilStockout: a.DaysUntilStockout,
	}
	if a.Supplier != nil {
		out.Supplier = &dto.SupplierResponse{
			ID:           a.Supplier.ID,
			Name:         a.Supplier.Name,
			ContactEmail: a.Supplier.ContactEmail,
		}
	}
	return out
}
