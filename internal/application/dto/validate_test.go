package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, dto.Validate(dto.CreateSupplierRequest{Name: "Proveedor", ContactEmail: "a@b.co"}))

	err := dto.Validate(dto.CreateSupplierRequest{Name: "Proveedor", ContactEmail: "no-es-correo"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "ContactEmail")

	err = dto.Validate(dto.CreateProductTypeRequest{Name: "Insumos", LowStockThreshold: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "min=0")
}

func TestDefaultPage(t *testing.T) {
	p := dto.PageRequest{Limit: 500, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = dto.PageRequest{}
	p.DefaultPage()
	assert.Equal(t, 20, p.Limit)
}
