package driving

import (
	"context"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

// PowerFlowResult is the daily power flow and its diagram.
type PowerFlowResult struct {
	Date    string
	Flow    domain.PowerFlow
	Diagram domain.SankeyDiagram
}

// PowerFlowService computes daily energy flows from inverter history.
type PowerFlowService interface {
	// PowerFlow computes the flow for a YYYY-MM-DD date in the site timezone.
	PowerFlow(ctx context.Context, date string) (*PowerFlowResult, error)
}
