package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

// InverterHistory reads historical power readings of an inverter.
type InverterHistory interface {
	// QueryHistory returns one series per requested variable for the
	// inclusive window [begin, end]. Variables the device does not report
	// are omitted from the result.
	QueryHistory(ctx context.Context, variables []string, begin, end time.Time) ([]domain.PowerSeries, error)
}
