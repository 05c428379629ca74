package driven

import (
	"io"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

// ChartRenderer draws a production comparison as an image.
type ChartRenderer interface {
	// RenderProduction returns PNG bytes of the hourly forecast vs. real chart.
	RenderProduction(c domain.ProductionComparison) ([]byte, error)
}

// DailyReport is everything a printed daily report shows.
type DailyReport struct {
	Date       string
	Flow       domain.PowerFlow
	Comparison *domain.ProductionComparison

	// Chart is an optional PNG of the comparison.
	Chart []byte
}

// ReportWriter renders a daily report document.
type ReportWriter interface {
	// WriteDailyReport writes the report to w.
	WriteDailyReport(w io.Writer, report DailyReport) error
}
