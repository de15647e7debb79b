package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada uno corresponde a un tipo distinguible que la capa de transporte traduce a un status.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrDuplicateSKU      = errors.New("el SKU ya existe")
	ErrStorage           = errors.New("fallo de almacenamiento")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrIntegrity         = errors.New("inconsistencia de integridad referencial")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// Códigos estables expuestos al cliente (dto.ErrorResponse.Code).
const (
	KindValidation        = "VALIDATION"
	KindDuplicateSKU      = "DUPLICATE_SKU"
	KindStorage           = "STORAGE"
	KindNotFound          = "NOT_FOUND"
	KindIntegrity         = "INTEGRITY"
	KindConflict          = "CONFLICT"
	KindInsufficientStock = "INSUFFICIENT_STOCK"
	KindUnauthorized      = "UNAUTHORIZED"
	KindForbidden         = "FORBIDDEN"
	KindInternal          = "INTERNAL"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrValidation, KindValidation},
	{ErrDuplicateSKU, KindDuplicateSKU},
	{ErrNotFound, KindNotFound},
	{ErrIntegrity, KindIntegrity},
	{ErrConflict, KindConflict},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrUnauthorized, KindUnauthorized},
	{ErrForbidden, KindForbidden},
	{ErrStorage, KindStorage},
}

// KindOf devuelve el código del primer error de dominio que aparezca en la cadena de err.
// ErrStorage se evalúa al final: un fallo de almacenamiento puede envolver a otro más específico.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
