package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockpilot/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"sku duplicado", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}, domain.ErrDuplicateSKU},
		{"inventario duplicado", &pgconn.PgError{Code: "23505", ConstraintName: "inventory_pkey"}, domain.ErrConflict},
		{"fk", &pgconn.PgError{Code: "23503", ConstraintName: "inventory_warehouse_id_fkey"}, domain.ErrNotFound},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "inventory_quantity_check"}, domain.ErrValidation},
		{"uuid mal formado", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "w1"`}, domain.ErrValidation},
		{"not null", &pgconn.PgError{Code: "23502", ColumnName: "product_type_id"}, domain.ErrValidation},
		{"envuelto", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}), domain.ErrDuplicateSKU},
		{"otro", errors.New("connection reset"), domain.ErrStorage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, classify("op", tc.err), tc.want)
		})
	}
}

func TestClassify_NoMezclaTipos(t *testing.T) {
	err := classify("insert product", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})
	assert.NotErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, domain.KindDuplicateSKU, domain.KindOf(err))
}

func TestClassify_UUIDMalFormadoNoEsStorage(t *testing.T) {
	err := classify("get product", &pgconn.PgError{Code: "22P02"})
	assert.NotErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", nullable("x"))
	assert.True(t, isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
}
