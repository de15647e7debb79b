package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stockpilot/internal/domain"
)

// Nombre de la restricción única de products.sku (ver migrations/0001_init.up.sql).
const skuUniqueConstraint = "products_sku_key"

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInvalidTextRepr     = "22P02"
)

// classify traduce un error de pgx al error de dominio correspondiente.
// Lo que no es una violación de restricción conocida se reporta como domain.ErrStorage.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if pgErr.ConstraintName == skuUniqueConstraint {
				return fmt.Errorf("%s: %w", op, domain.ErrDuplicateSKU)
			}
			return fmt.Errorf("%s: %w: %s", op, domain.ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrNotFound, pgErr.ConstraintName)
		case codeCheckViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrValidation, pgErr.ConstraintName)
		case codeNotNullViolation:
			return fmt.Errorf("%s: %w: %s no puede ser nulo", op, domain.ErrValidation, pgErr.ColumnName)
		case codeInvalidTextRepr:
			// Un ID que no es UUID contra una columna UUID.
			return fmt.Errorf("%s: %w: %s", op, domain.ErrValidation, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// nullable convierte "" en NULL para columnas de referencia opcionales.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
