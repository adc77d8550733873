package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/drophunt/drophunt/app/checker"
)

type stubChecker struct {
	runs    int
	summary checker.Summary
	err     error
}

func (s *stubChecker) Run(ctx context.Context) (checker.Summary, error) {
	s.runs++
	return s.summary, s.err
}

func TestTask_RetryAccounting(t *testing.T) {
	task := NewTask(TaskTypeCheckGiveaways)

	if task.GetID() == "" {
		t.Error("Task should get a unique id")
	}
	if task.GetType() != TaskTypeCheckGiveaways {
		t.Errorf("Expected type check_giveaways, got %s", task.GetType())
	}

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i+1)
		}
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Retries should be exhausted after max retries")
	}
}

func TestCheckGiveawaysTask_Execute(t *testing.T) {
	stub := &stubChecker{summary: checker.Summary{Success: true}}
	task := NewCheckGiveawaysTask(stub)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stub.runs != 1 {
		t.Errorf("Expected one checker run, got %d", stub.runs)
	}
}

func TestCheckGiveawaysTask_ExecutePropagatesError(t *testing.T) {
	stub := &stubChecker{err: errors.New("boom")}
	task := NewCheckGiveawaysTask(stub)
	task.Start()

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Execute should surface checker errors for the retry loop")
	}
}

func TestCheckGiveawaysTask_ExecuteHonorsCancelledContext(t *testing.T) {
	stub := &stubChecker{}
	task := NewCheckGiveawaysTask(stub)
	task.Start()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := task.Execute(ctx); err == nil {
		t.Error("Execute should fail on a cancelled context")
	}
	if stub.runs != 0 {
		t.Error("Checker should not run once the context is cancelled")
	}
}
