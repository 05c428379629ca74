package driving

import (
	"context"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

// ProductionChart is a comparison together with its rendered chart.
type ProductionChart struct {
	Comparison domain.ProductionComparison

	// PNG is the rendered chart image.
	PNG []byte
}

// ForecastService manages production forecasts.
type ForecastService interface {
	// Refresh fetches a new forecast and persists it.
	Refresh(ctx context.Context) (*domain.ForecastFetch, error)

	// Hourly returns the hourly forecast energy for a YYYY-MM-DD date.
	Hourly(ctx context.Context, date string, estimate domain.EstimateType) (domain.HourlyProfile, error)

	// Compare joins the hourly forecast with real production for a date.
	Compare(ctx context.Context, date string) (*domain.ProductionComparison, error)

	// ProductionChart compares a date and renders the result.
	ProductionChart(ctx context.Context, date string) (*ProductionChart, error)

	// Prune removes forecast data older than the retention window.
	Prune(ctx context.Context) (int, error)

	// History returns recent fetches, newest first.
	History(ctx context.Context, limit int) ([]domain.ForecastFetch, error)
}
