package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/domain"
)

type fakeRenderer struct {
	company string
	report  *dto.LowStockReport
}

func (r *fakeRenderer) RenderLowStock(companyName string, report *dto.LowStockReport) ([]byte, error) {
	r.company, r.report = companyName, report
	return []byte("%PDF-fake"), nil
}

func TestLowStockPDF(t *testing.T) {
	f := newAlertFixture(t, 10)
	f.stock(t, "p1", f.wh, 1, f.typeID, f.supplier.ID)
	f.sell(t, "p1", f.wh, 3, fixedNow.Add(-time.Hour))

	renderer := &fakeRenderer{}
	uc := inventory.NewReportUseCase(f.uc, f.store.Companies(), renderer)

	asOf := fixedNow
	pdf, err := uc.LowStockPDF(context.Background(), f.companyID, &asOf)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	assert.Equal(t, "ACME", renderer.company)
	require.NotNil(t, renderer.report)
	assert.Equal(t, 1, renderer.report.TotalAlerts)

	_, err = uc.LowStockPDF(context.Background(), uuid.NewString(), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
