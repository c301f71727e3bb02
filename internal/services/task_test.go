package services

import (
	"context"
	"testing"

	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/store"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(store.NewMemory(), testLogger(t))

	task, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != TaskPending {
		t.Fatalf("new task status = %q", task.Status)
	}

	if err := svc.SetProgress(ctx, task.ID, 40); err != nil {
		t.Fatalf("SetProgress: %v", err)
	}
	got, err := svc.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != TaskProcessing || got.Progress != 40 {
		t.Fatalf("after progress: %+v", got)
	}

	if err := svc.Complete(ctx, task.ID, map[string]string{"answer": "42"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	got, _ = svc.Get(ctx, task.ID)
	if got.Status != TaskCompleted || got.Progress != 100 {
		t.Fatalf("after complete: %+v", got)
	}
	if len(got.Result) == 0 {
		t.Fatalf("result not recorded")
	}
}

func TestTaskFail(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(store.NewMemory(), testLogger(t))

	task, _ := svc.Create(ctx)
	if err := svc.Fail(ctx, task.ID, "model timeout"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	got, _ := svc.Get(ctx, task.ID)
	if got.Status != TaskFailed || got.Error != "model timeout" {
		t.Fatalf("after fail: %+v", got)
	}
}

func TestTaskGetUnknown(t *testing.T) {
	svc := NewTaskService(store.NewMemory(), testLogger(t))
	if _, err := svc.Get(context.Background(), "missing"); err == nil {
		t.Fatalf("unknown task must error")
	}
}
