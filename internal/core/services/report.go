package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
	"github.com/custodia-labs/pvflow/internal/logger"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService assembles daily reports from the power flow and forecast
// services.
type ReportService struct {
	powerFlow driving.PowerFlowService
	forecast  driving.ForecastService
	writer    driven.ReportWriter
}

// NewReportService creates a new report service. forecast may be nil.
func NewReportService(
	powerFlow driving.PowerFlowService,
	forecast driving.ForecastService,
	writer driven.ReportWriter,
) *ReportService {
	return &ReportService{
		powerFlow: powerFlow,
		forecast:  forecast,
		writer:    writer,
	}
}

// DailyReport writes the report for a date to w. The forecast section is
// left out when no forecast is stored for the date.
func (s *ReportService) DailyReport(ctx context.Context, date string, w io.Writer) error {
	if s.writer == nil {
		return fmt.Errorf("report writer: %w", domain.ErrNotConfigured)
	}

	result, err := s.powerFlow.PowerFlow(ctx, date)
	if err != nil {
		return err
	}

	report := driven.DailyReport{
		Date: date,
		Flow: result.Flow,
	}

	if s.forecast != nil {
		chart, err := s.forecast.ProductionChart(ctx, date)
		switch {
		case err == nil:
			report.Comparison = &chart.Comparison
			report.Chart = chart.PNG
		case errors.Is(err, domain.ErrNoData), errors.Is(err, domain.ErrNotConfigured):
			logger.Warn("report %s: forecast section skipped: %v", date, err)
		default:
			return err
		}
	}

	if err := s.writer.WriteDailyReport(w, report); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return nil
}
