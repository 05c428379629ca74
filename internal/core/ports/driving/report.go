package driving

import (
	"context"
	"io"
)

// ReportService produces printable daily reports.
type ReportService interface {
	// DailyReport writes the report for a YYYY-MM-DD date to w.
	DailyReport(ctx context.Context, date string, w io.Writer) error
}
