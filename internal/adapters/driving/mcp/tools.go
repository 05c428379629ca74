package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

// DateInput is the input schema for tools that take a calendar day.
type DateInput struct {
	Date string `json:"date" jsonschema:"calendar day as YYYY-MM-DD in the site timezone"`
}

// PowerFlowOutput is the output schema for the power_flow tool.
type PowerFlowOutput struct {
	Date           string             `json:"date"`
	CalculatedData map[string]float64 `json:"calculated_data"`
	Flows          []FlowOutput       `json:"flows"`
}

// FlowOutput is one edge of the power flow diagram, in kWh.
type FlowOutput struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	KWh  float64 `json:"kwh"`
}

// ProductionForecastOutput is the output schema for the production_forecast tool.
type ProductionForecastOutput struct {
	Date          string       `json:"date"`
	Hours         []HourOutput `json:"hours"`
	TotalForecast float64      `json:"total_forecast_kwh"`
	TotalReal     float64      `json:"total_real_kwh"`
}

// HourOutput compares forecast and real production for one hour.
type HourOutput struct {
	Hour     int     `json:"hour"`
	Forecast float64 `json:"forecast_kwh"`
	Worst    float64 `json:"worst_kwh"`
	Best     float64 `json:"best_kwh"`
	Real     float64 `json:"real_kwh"`
}

// RefreshInput is the (empty) input schema for the refresh_forecast tool.
type RefreshInput struct{}

// RefreshOutput is the output schema for the refresh_forecast tool.
type RefreshOutput struct {
	FetchID   string `json:"fetch_id"`
	SiteID    string `json:"site_id"`
	FetchedAt string `json:"fetched_at"`
	Periods   int    `json:"periods"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "power_flow",
		Description: "Daily energy totals and power flow of the solar installation",
	}, s.handlePowerFlow)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "production_forecast",
		Description: "Hourly PV production forecast compared with real production for a day",
	}, s.handleProductionForecast)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh_forecast",
		Description: "Fetch and store the latest PV production forecast",
	}, s.handleRefreshForecast)
}

// handlePowerFlow handles the power_flow tool invocation.
func (s *Server) handlePowerFlow(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DateInput,
) (*mcp.CallToolResult, PowerFlowOutput, error) {
	result, err := s.ports.PowerFlow.PowerFlow(ctx, input.Date)
	if err != nil {
		return nil, PowerFlowOutput{}, err
	}

	nodes := result.Diagram.Nodes
	output := PowerFlowOutput{
		Date:           result.Date,
		CalculatedData: result.Flow.CalculatedData(),
		Flows:          make([]FlowOutput, 0, len(result.Diagram.Links)),
	}
	for _, l := range result.Diagram.Links {
		output.Flows = append(output.Flows, FlowOutput{
			From: nodes[l.Source].Label,
			To:   nodes[l.Target].Label,
			KWh:  l.Value,
		})
	}

	return nil, output, nil
}

// handleProductionForecast handles the production_forecast tool invocation.
func (s *Server) handleProductionForecast(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DateInput,
) (*mcp.CallToolResult, ProductionForecastOutput, error) {
	if s.ports.Forecast == nil {
		return nil, ProductionForecastOutput{}, ErrForecastUnavailable
	}

	cmp, err := s.ports.Forecast.Compare(ctx, input.Date)
	if err != nil {
		return nil, ProductionForecastOutput{}, err
	}

	output := ProductionForecastOutput{
		Date:  cmp.Date,
		Hours: make([]HourOutput, len(cmp.Hours)),
	}
	for i, h := range cmp.Hours {
		output.Hours[i] = HourOutput{
			Hour:     h.Hour,
			Forecast: h.Forecast,
			Worst:    h.Worst,
			Best:     h.Best,
			Real:     h.Real,
		}
	}
	forecast, actual := cmp.Totals()
	output.TotalForecast = domain.Round3(forecast)
	output.TotalReal = domain.Round3(actual)

	return nil, output, nil
}

// handleRefreshForecast handles the refresh_forecast tool invocation.
func (s *Server) handleRefreshForecast(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	if s.ports.Forecast == nil {
		return nil, RefreshOutput{}, ErrForecastUnavailable
	}

	fetch, err := s.ports.Forecast.Refresh(ctx)
	if err != nil {
		return nil, RefreshOutput{}, err
	}

	return nil, RefreshOutput{
		FetchID:   fetch.ID,
		SiteID:    fetch.SiteID,
		FetchedAt: fetch.FetchedAt.UTC().Format(time.RFC3339),
		Periods:   len(fetch.Periods),
	}, nil
}
