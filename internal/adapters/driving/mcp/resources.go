package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pvflow resources.
	uriScheme = "pvflow://"

	// historyLimit caps the fetch log resource.
	historyLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "forecasts",
		Name:        "forecast-fetches",
		Description: "Most recent forecast fetches",
		MIMEType:    "application/json",
	}, s.handleFetchesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "forecasts/{date}/hourly",
		Name:        "hourly-forecast",
		Description: "Nominal hourly production forecast of a day in kWh",
		MIMEType:    "application/json",
	}, s.handleHourlyResource)
}

// handleFetchesResource returns the forecast fetch log.
func (s *Server) handleFetchesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Forecast == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	fetches, err := s.ports.Forecast.History(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing forecast fetches: %w", err)
	}

	type fetchInfo struct {
		ID        string `json:"id"`
		SiteID    string `json:"site_id"`
		FetchedAt string `json:"fetched_at"`
	}

	infos := make([]fetchInfo, len(fetches))
	for i, f := range fetches {
		infos[i] = fetchInfo{
			ID:        f.ID,
			SiteID:    f.SiteID,
			FetchedAt: f.FetchedAt.UTC().Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling fetches: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleHourlyResource returns the nominal hourly forecast for a day.
func (s *Server) handleHourlyResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Forecast == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract date from URI: pvflow://forecasts/{date}/hourly
	date := extractDate(req.Params.URI)
	if date == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	profile, err := s.ports.Forecast.Hourly(ctx, date, domain.EstimateNominal)
	if err != nil {
		return nil, fmt.Errorf("hourly forecast: %w", err)
	}

	type hourInfo struct {
		Hour int     `json:"hour"`
		KWh  float64 `json:"kwh"`
	}

	hours := profile.Hours()
	infos := make([]hourInfo, len(hours))
	for i, h := range hours {
		infos[i] = hourInfo{Hour: h, KWh: domain.Round3(profile[h])}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling hourly forecast: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractDate extracts the date from a URI like pvflow://forecasts/{date}/hourly.
func extractDate(uri string) string {
	const prefix = uriScheme + "forecasts/"
	const suffix = "/hourly"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
