package chart

import (
	"bytes"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ChartRenderer = (*Renderer)(nil)

// Chart colours.
var (
	ForecastColor = drawing.ColorFromHex("fad105")
	RealColor     = drawing.ColorFromHex("808080")
)

const (
	defaultWidth  = 1024
	defaultHeight = 512
	barWidth      = 18
	barSpacing    = 6
	sideMargin    = 120
)

// Renderer draws forecast vs. real production per hour. Each hour gets a
// forecast bar followed by a real production bar.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with default dimensions.
func NewRenderer() *Renderer {
	return &Renderer{Width: defaultWidth, Height: defaultHeight}
}

// RenderProduction renders the comparison as PNG bytes.
func (r *Renderer) RenderProduction(c domain.ProductionComparison) ([]byte, error) {
	if len(c.Hours) == 0 {
		return nil, fmt.Errorf("chart %s: %w", c.Date, domain.ErrNoData)
	}

	bars := make([]gochart.Value, 0, 2*len(c.Hours))
	peak := 0.0
	for _, h := range c.Hours {
		bars = append(bars,
			bar(fmt.Sprintf("%02dh", h.Hour), h.Forecast, ForecastColor),
			bar("real", h.Real, RealColor),
		)
		peak = math.Max(peak, math.Max(h.Forecast, h.Real))
	}

	forecast, real := c.Totals()
	graph := gochart.BarChart{
		Title:      fmt.Sprintf("Production %s: forecast %.2f kWh, real %.2f kWh", c.Date, forecast, real),
		Width:      max(r.Width, len(bars)*(barWidth+barSpacing)+sideMargin),
		Height:     r.Height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.Style{
			FontSize: 7,
			TextWrap: gochart.TextWrapWord,
		},
		YAxis: gochart.YAxis{
			Name: "kWh",
			// go-chart rejects a zero-height range.
			Range:          &gochart.ContinuousRange{Min: 0, Max: yMax(peak)},
			ValueFormatter: func(v any) string { return fmt.Sprintf("%.2f", v) },
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// bar builds one bar. Non-zero values are appended to the label.
func bar(label string, value float64, color drawing.Color) gochart.Value {
	if value > 0 {
		label = fmt.Sprintf("%s %.2f", label, value)
	}
	return gochart.Value{
		Label: label,
		Value: value,
		Style: gochart.Style{
			FillColor:   color,
			StrokeColor: color,
			StrokeWidth: 1,
		},
	}
}

// yMax pads the peak by 10% so labels fit, with a floor of 1 kWh.
func yMax(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	return math.Ceil(peak*11) / 10
}
