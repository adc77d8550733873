package tasks

import (
	"context"

	"github.com/drophunt/drophunt/app/checker"
)

// TaskSchedulerInterface defines the interface for background task
// scheduling. The main application starts it once; the API layer can
// enqueue ad-hoc tasks.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// GiveawayChecker runs one fetch-reconcile-notify cycle. Satisfied by
// *checker.Checker.
type GiveawayChecker interface {
	Run(ctx context.Context) (checker.Summary, error)
}
