// Package memory es un motor de almacenamiento en proceso con las mismas restricciones que el
// esquema PostgreSQL: SKU único, claves foráneas, cantidad no negativa y PK (producto, bodega).
// Las transacciones se serializan y trabajan sobre una copia del estado que se publica solo al confirmar.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/entity"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

// Operaciones en las que se puede inyectar un fallo.
const (
	OpProductCreate   = "product.create"
	OpInventoryCreate = "inventory.create"
	OpInventoryUpdate = "inventory.update"
	OpLogAppend       = "log.append"
	OpCommit          = "commit"
)

type invKey struct {
	productID   string
	warehouseID string
}

type state struct {
	companies    map[string]entity.Company
	warehouses   map[string]entity.Warehouse
	productTypes map[string]entity.ProductType
	suppliers    map[string]entity.Supplier
	products     map[string]entity.Product
	skus         map[string]string
	inventory    map[invKey]entity.Inventory
	logs         []entity.InventoryLog
	sales        []entity.Sale
}

func newState() *state {
	return &state{
		companies:    map[string]entity.Company{},
		warehouses:   map[string]entity.Warehouse{},
		productTypes: map[string]entity.ProductType{},
		suppliers:    map[string]entity.Supplier{},
		products:     map[string]entity.Product{},
		skus:         map[string]string{},
		inventory:    map[invKey]entity.Inventory{},
	}
}

func (s *state) clone() *state {
	return &state{
		companies:    maps.Clone(s.companies),
		warehouses:   maps.Clone(s.warehouses),
		productTypes: maps.Clone(s.productTypes),
		suppliers:    maps.Clone(s.suppliers),
		products:     maps.Clone(s.products),
		skus:         maps.Clone(s.skus),
		inventory:    maps.Clone(s.inventory),
		logs:         slices.Clone(s.logs),
		sales:        slices.Clone(s.sales),
	}
}

// Store contiene el estado y serializa las escrituras.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: map[string]error{}}
}

// InjectFault hace que la próxima ejecución de op falle con err (envuelto en domain.ErrStorage).
func (s *Store) InjectFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// takeFault consume el fallo de op. Requiere s.mu tomado.
func (s *Store) takeFault(op string) error {
	err, ok := s.faults[op]
	if !ok {
		return nil
	}
	delete(s.faults, op)
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// view da acceso al estado: directo y con el lock tomado para los repos del Store,
// o sobre la copia de la transacción (el lock ya lo tiene Run).
type view func(fn func(st *state) error) error

func (s *Store) direct() view {
	return func(fn func(st *state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.st)
	}
}

func inTx(st *state) view {
	return func(fn func(st *state) error) error { return fn(st) }
}

// Companies repositorio de empresas fuera de transacción. Los demás accesores son análogos.
func (s *Store) Companies() *CompanyRepo {
	return &CompanyRepo{v: s.direct()}
}

func (s *Store) Warehouses() *WarehouseRepo {
	return &WarehouseRepo{v: s.direct()}
}

func (s *Store) ProductTypes() *ProductTypeRepo {
	return &ProductTypeRepo{v: s.direct()}
}

func (s *Store) Suppliers() *SupplierRepo {
	return &SupplierRepo{v: s.direct()}
}

func (s *Store) Products() *ProductRepo {
	return &ProductRepo{v: s.direct(), s: s}
}

func (s *Store) Inventory() *InventoryRepo {
	return &InventoryRepo{v: s.direct(), s: s}
}

func (s *Store) InventoryLogs() *InventoryLogRepo {
	return &InventoryLogRepo{v: s.direct(), s: s}
}

func (s *Store) Sales() *SaleRepo {
	return &SaleRepo{v: s.direct()}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks sobre una copia del estado y la publica solo si fn y el commit terminan sin error.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner del almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run implementa inventory.TxRunner con aislamiento serializable.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	logRepo repository.InventoryLogRepository,
) error) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrStorage, err)
	}
	work := s.st.clone()
	v := inTx(work)
	if err := fn(&ProductRepo{v: v, s: s}, &InventoryRepo{v: v, s: s}, &InventoryLogRepo{v: v, s: s}); err != nil {
		return err
	}
	if err := s.takeFault(OpCommit); err != nil {
		return err
	}
	s.st = work
	return nil
}

// RecordSale agrega una venta al libro, como lo haría el pipeline de ventas externo.
func (s *Store) RecordSale(sale entity.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad vendida debe ser positiva", domain.ErrValidation)
	}
	if _, ok := s.st.products[sale.ProductID]; !ok {
		return fmt.Errorf("producto %s: %w", sale.ProductID, domain.ErrNotFound)
	}
	if _, ok := s.st.warehouses[sale.WarehouseID]; !ok {
		return fmt.Errorf("bodega %s: %w", sale.WarehouseID, domain.ErrNotFound)
	}
	s.st.sales = append(s.st.sales, sale)
	return nil
}

// Counts devuelve cuántos productos, filas de inventario y entradas de historial hay.
func (s *Store) Counts() (products, inventoryRows, logs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.products), len(s.st.inventory), len(s.st.logs)
}
