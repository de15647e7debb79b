package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/internal/domain/repository"
)

// ReportUseCase exporta las alertas de stock bajo como documento de reposición.
type ReportUseCase struct {
	lowStock    *LowStockUseCase
	companyRepo repository.CompanyRepository
	renderer    ReportRenderer
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(lowStock *LowStockUseCase, companyRepo repository.CompanyRepository, renderer ReportRenderer) *ReportUseCase {
	return &ReportUseCase{lowStock: lowStock, companyRepo: companyRepo, renderer: renderer}
}

// LowStockPDF genera el PDF de alertas. asOf nil usa la hora actual (con caché).
func (uc *ReportUseCase) LowStockPDF(ctx context.Context, companyID string, asOf *time.Time) ([]byte, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, asStorage("get company", err)
	}
	if company == nil {
		return nil, fmt.Errorf("empresa %s: %w", companyID, domain.ErrNotFound)
	}

	var report *dto.LowStockReport
	if asOf == nil {
		report, err = uc.lowStock.CurrentAlerts(ctx, companyID)
	} else {
		report, err = uc.lowStock.ComputeAlerts(ctx, companyID, *asOf)
	}
	if err != nil {
		return nil, err
	}

	pdf, err := uc.renderer.RenderLowStock(company.Name, report)
	if err != nil {
		return nil, fmt.Errorf("generar PDF de alertas: %w", err)
	}
	return pdf, nil
}
