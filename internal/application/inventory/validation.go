package inventory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
)

func validateStruct(s interface{}) error {
	return dto.Validate(s)
}

// normalizeText aplica NFC y recorta espacios: "Café" compuesto y descompuesto dan el mismo SKU.
func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// requireUUIDs exige que cada par (campo, valor) sea un UUID; nada mal formado llega al almacenamiento.
func requireUUIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s es requerido", domain.ErrValidation, pairs[i])
		}
		if err := uuid.Validate(pairs[i+1]); err != nil {
			return fmt.Errorf("%w: %s no es un UUID válido", domain.ErrValidation, pairs[i])
		}
	}
	return nil
}

var maxPrice = decimal.New(1, 12)

// validatePrice exige precio >= 0 con a lo sumo 2 decimales (NUMERIC(14,2)).
func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrValidation)
	}
	if !p.Equal(p.Round(2)) {
		return fmt.Errorf("%w: price admite a lo sumo 2 decimales", domain.ErrValidation)
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: price fuera de rango", domain.ErrValidation)
	}
	return nil
}

// asStorage deja pasar los errores de dominio y clasifica el resto como fallo de almacenamiento.
func asStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != domain.KindInternal {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}
