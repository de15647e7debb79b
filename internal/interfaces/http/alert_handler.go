package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/application/inventory"
	"github.com/jhoicas/stockpilot/internal/domain"
)

// AlertHandler expone el analizador de stock bajo (protegido; la empresa de la ruta debe ser la del token).
type AlertHandler struct {
	lowStock *inventory.LowStockUseCase
	report   *inventory.ReportUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(lowStock *inventory.LowStockUseCase, report *inventory.ReportUseCase) *AlertHandler {
	return &AlertHandler{lowStock: lowStock, report: report}
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Description  Pares (producto, bodega) con ventas en la ventana y stock por debajo del umbral.
// @Description  Sin as_of se sirve desde la caché.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID de la empresa"
// @Param        as_of  query  string  false  "Fecha de corte RFC3339"
// @Success      200  {object}  dto.LowStockReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/alerts/low-stock [get]
func (h *AlertHandler) LowStock(c *fiber.Ctx) error {
	companyID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	asOf, err := asOfFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var out *dto.LowStockReport
	if asOf == nil {
		out, err = h.lowStock.CurrentAlerts(c.UserContext(), companyID)
	} else {
		out, err = h.lowStock.ComputeAlerts(c.UserContext(), companyID, *asOf)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de reposición
// @Tags         alerts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id     path   string  true   "ID de la empresa"
// @Param        as_of  query  string  false  "Fecha de corte RFC3339"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/alerts/low-stock/report.pdf [get]
func (h *AlertHandler) Report(c *fiber.Ctx) error {
	companyID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	asOf, err := asOfFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	pdf, err := h.report.LowStockPDF(c.UserContext(), companyID, asOf)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="stock-bajo-%s.pdf"`, companyID))
	return c.Send(pdf)
}

func asOfFrom(c *fiber.Ctx) (*time.Time, error) {
	raw := c.Query("as_of")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: as_of debe ser RFC3339", domain.ErrValidation)
	}
	return &t, nil
}
