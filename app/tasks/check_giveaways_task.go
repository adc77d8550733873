package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type CheckGiveawaysTask struct {
	Task
	checker GiveawayChecker
}

func NewCheckGiveawaysTask(giveawayChecker GiveawayChecker) *CheckGiveawaysTask {
	return &CheckGiveawaysTask{
		Task:    NewTask(TaskTypeCheckGiveaways),
		checker: giveawayChecker,
	}
}

func (t *CheckGiveawaysTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	summary, err := t.checker.Run(ctx)
	if err != nil {
		return fmt.Errorf("giveaway check failed: %w", err)
	}

	slog.Info("Task completed",
		"type", "CheckGiveaways",
		"duration", t.GetDuration(),
		"epic_added", summary.Changes.Epic.Added,
		"epic_removed", summary.Changes.Epic.Removed,
		"steam_added", summary.Changes.Steam.Added,
		"steam_removed", summary.Changes.Steam.Removed,
		"messages_sent", summary.MessagesSent)

	return nil
}
