package inventory

import (
	"fmt"

	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

// ThresholdPolicy resuelve el umbral de stock bajo de una posición (producto → umbral).
// Permite sobrescrituras por producto sin cambiar el analizador.
type ThresholdPolicy interface {
	Threshold(pos repository.StockPosition) (int64, error)
}

// ProductTypePolicy lee el umbral centralizado en el ProductType del producto.
type ProductTypePolicy struct{}

// Threshold devuelve domain.ErrIntegrity si el producto no tiene tipo o el tipo no resuelve.
func (ProductTypePolicy) Threshold(pos repository.StockPosition) (int64, error) {
	if pos.ProductType == nil {
		if pos.ProductTypeRef == "" {
			return 0, fmt.Errorf("%w: producto %s sin tipo de producto", domain.ErrIntegrity, pos.Product.ID)
		}
		return 0, fmt.Errorf("%w: tipo de producto %s del producto %s no existe",
			domain.ErrIntegrity, pos.ProductTypeRef, pos.Product.ID)
	}
	return pos.ProductType.LowStockThreshold, nil
}

// ThresholdFunc adapta una función a ThresholdPolicy.
type ThresholdFunc func(pos repository.StockPosition) (int64, error)

// Threshold implementa ThresholdPolicy.
func (f ThresholdFunc) Threshold(pos repository.StockPosition) (int64, error) { return f(pos) }
