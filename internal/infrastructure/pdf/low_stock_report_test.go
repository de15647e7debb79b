package pdf_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/infrastructure/pdf"
)

func TestRenderLowStock(t *testing.T) {
	report := &dto.LowStockReport{
		CompanyID:  "c1",
		AsOf:       time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		WindowDays: 30,
		Alerts: []dto.LowStockAlertDTO{{
			ProductID: "p1", ProductName: "Widget", SKU: "W-1",
			WarehouseID: "w1", WarehouseName: "Central",
			CurrentStock: 15, Threshold: 20, DaysUntilStockout: 7,
			Supplier: &dto.SupplierResponse{ID: "s1", Name: "Proveedor SA", ContactEmail: "compras@proveedor.test"},
		}, {
			ProductID: "p2", ProductName: "Tornillo", SKU: "T-9",
			WarehouseID: "w1", WarehouseName: "Central",
			CurrentStock: 1, Threshold: 50, DaysUntilStockout: 0,
		}},
		TotalAlerts: 2,
	}

	out, err := pdf.NewMarotoReportRenderer().RenderLowStock("ACME", report)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderLowStock_Vacio(t *testing.T) {
	out, err := pdf.NewMarotoReportRenderer().RenderLowStock("ACME", &dto.LowStockReport{Alerts: []dto.LowStockAlertDTO{}})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))

	_, err = pdf.NewMarotoReportRenderer().RenderLowStock("ACME", nil)
	assert.Error(t, err)
}
