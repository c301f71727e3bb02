package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/store"
)

const (
	TaskPending    = "pending"
	TaskProcessing = "processing"
	TaskCompleted  = "completed"
	TaskFailed     = "failed"
)

// Task tracks one async analysis job. State lives in the store, so a redis
// backend survives restarts and the memory backend does not, which is
// acceptable: an interrupted analysis is re-submitted, not resumed.
type Task struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Progress  int             `json:"progress"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TaskService interface {
	Create(ctx context.Context) (*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	SetProgress(ctx context.Context, id string, progress int) error
	Complete(ctx context.Context, id string, result any) error
	Fail(ctx context.Context, id string, reason string) error
}

type taskService struct {
	store store.Store
	log   *logger.Logger
	ttl   time.Duration
}

func NewTaskService(st store.Store, log *logger.Logger) TaskService {
	return &taskService{
		store: st,
		log:   log.With("service", "TaskService"),
		ttl:   2 * time.Hour,
	}
}

func taskKey(id string) string {
	return "task:" + id
}

func (s *taskService) save(ctx context.Context, task *Task) error {
	task.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	return s.store.Set(ctx, taskKey(task.ID), raw, s.ttl)
}

func (s *taskService) Create(ctx context.Context) (*Task, error) {
	task := &Task{
		ID:        uuid.NewString(),
		Status:    TaskPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	s.log.Debug("Task created", "task_id", task.ID)
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*Task, error) {
	raw, err := s.store.Get(ctx, taskKey(id))
	if err != nil {
		return nil, err
	}
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	return &task, nil
}

func (s *taskService) SetProgress(ctx context.Context, id string, progress int) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	task.Status = TaskProcessing
	task.Progress = progress
	return s.save(ctx, task)
}

func (s *taskService) Complete(ctx context.Context, id string, result any) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal task result: %w", err)
	}
	task.Status = TaskCompleted
	task.Progress = 100
	task.Result = raw
	return s.save(ctx, task)
}

func (s *taskService) Fail(ctx context.Context, id string, reason string) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	task.Status = TaskFailed
	task.Error = reason
	return s.save(ctx, task)
}
