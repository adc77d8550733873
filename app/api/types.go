package api

import (
	"context"

	"github.com/drophunt/drophunt/app/checker"
	"github.com/drophunt/drophunt/app/reconciler"
)

// CheckRunner is what the trigger endpoint needs from the checker.
type CheckRunner interface {
	Run(ctx context.Context) (checker.Summary, error)
	Stats(ctx context.Context) reconciler.Stats
}

type Handler struct {
	checker    CheckRunner
	version    string
	configured bool
}
