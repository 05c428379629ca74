package driving

import (
	"context"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

// Scheduler manages background tasks like forecast refresh and pruning.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error
}

// ScheduleStatus reports background task state.
type ScheduleStatus interface {
	// Tasks returns all known tasks.
	Tasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// History returns recent results of a task, newest first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
}
