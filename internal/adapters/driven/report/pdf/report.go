package pdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ReportWriter = (*Writer)(nil)

const (
	fontFamily  = "Helvetica"
	rowHeight   = 7.0
	chartHeight = 60.0 // mm; width follows the image aspect ratio
	chartImage  = "production-chart"
)

// Writer renders daily reports.
type Writer struct {
	now func() time.Time
}

// NewWriter creates a PDF report writer.
func NewWriter() *Writer {
	return &Writer{now: time.Now}
}

// WriteDailyReport writes the report as a PDF document to w.
func (wr *Writer) WriteDailyReport(w io.Writer, report driven.DailyReport) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Daily energy report "+report.Date, true)
	doc.SetCreator("pvflow", true)
	doc.SetCreationDate(wr.now())
	doc.AddPage()

	doc.SetFont(fontFamily, "B", 18)
	doc.CellFormat(0, 12, "Daily energy report", "", 1, "L", false, 0, "")
	doc.SetFont(fontFamily, "", 12)
	doc.CellFormat(0, 8, report.Date, "", 1, "L", false, 0, "")
	doc.Ln(4)

	writeTotals(doc, report.Flow)
	doc.Ln(4)
	writeFlow(doc, report.Flow)

	if report.Comparison != nil {
		doc.Ln(4)
		if len(report.Chart) > 0 {
			writeChart(doc, report.Chart)
		}
		writeComparison(doc, *report.Comparison)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func heading(doc *gofpdf.Fpdf, text string) {
	doc.SetFont(fontFamily, "B", 13)
	doc.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	doc.SetFont(fontFamily, "", 10)
}

// table writes rows of label/value cells. The first row is the header.
func table(doc *gofpdf.Fpdf, widths []float64, rows [][]string) {
	for i, row := range rows {
		if i == 0 {
			doc.SetFont(fontFamily, "B", 10)
			doc.SetFillColor(240, 240, 240)
		}
		for j, cell := range row {
			align := "R"
			if j == 0 {
				align = "L"
			}
			doc.CellFormat(widths[j], rowHeight, cell, "1", 0, align, i == 0, 0, "")
		}
		doc.Ln(-1)
		if i == 0 {
			doc.SetFont(fontFamily, "", 10)
		}
	}
}

func kwh(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func writeTotals(doc *gofpdf.Fpdf, flow domain.PowerFlow) {
	heading(doc, "Measured energy")
	m := flow.Measured
	table(doc, []float64{120, 70}, [][]string{
		{"Variable", "kWh"},
		{"PV", kwh(m.PV)},
		{"Feed-in", kwh(m.FeedIn)},
		{"Grid consumption", kwh(m.GridConsumption)},
		{"Battery discharge", kwh(m.Discharge)},
		{"Battery charge", kwh(m.Charge)},
		{"Load", kwh(m.Load)},
		{"Inverter output", kwh(m.Output)},
	})
}

func writeFlow(doc *gofpdf.Fpdf, flow domain.PowerFlow) {
	heading(doc, "Power flow")
	table(doc, []float64{120, 70}, [][]string{
		{"Quantity", "kWh"},
		{"PV (corrected)", kwh(flow.PV)},
		{"PV auto consumption", kwh(flow.PVAutoConsume)},
		{"Calculated load", kwh(flow.CalculatedLoad)},
		{"PV waste", kwh(flow.PVWaste)},
		{"Grid waste", kwh(flow.GridWaste)},
		{"Load delta", kwh(flow.DeltaLoad)},
	})
}

func writeChart(doc *gofpdf.Fpdf, png []byte) {
	heading(doc, "Production forecast")
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := doc.RegisterImageOptionsReader(chartImage, opts, bytes.NewReader(png))
	if info == nil || doc.Err() {
		// An unreadable chart must not lose the rest of the report.
		doc.ClearError()
		doc.SetFont(fontFamily, "I", 10)
		doc.CellFormat(0, rowHeight, "Chart unavailable", "", 1, "L", false, 0, "")
		return
	}
	doc.ImageOptions(chartImage, doc.GetX(), doc.GetY(), 0, chartHeight, true, opts, 0, "")
	doc.Ln(2)
}

func writeComparison(doc *gofpdf.Fpdf, c domain.ProductionComparison) {
	heading(doc, "Hourly production")
	rows := [][]string{{"Hour", "Forecast", "Worst", "Best", "Real"}}
	for _, h := range c.Hours {
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", h.Hour), kwh(h.Forecast), kwh(h.Worst), kwh(h.Best), kwh(h.Real),
		})
	}
	forecast, real := c.Totals()
	rows = append(rows, []string{"Total", kwh(forecast), "", "", kwh(real)})
	table(doc, []float64{50, 35, 35, 35, 35}, rows)
}
