package service

import (
	"context"
	"time"

	"github.com/deppfellow/taskapi/internal/lib/job"
	"github.com/deppfellow/taskapi/internal/model"
	"github.com/deppfellow/taskapi/internal/sqlerr"
	"github.com/rs/zerolog"
)

// TaskStore is the persistence the task service needs.
type TaskStore interface {
	Create(ctx context.Context, fields model.TaskFields) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id int64) (*model.Task, error)
	Update(ctx context.Context, id int64, fields model.TaskFields) (*model.Task, error)
	Delete(ctx context.Context, id int64) (*model.Task, error)
}

// EventPublisher receives task change notifications.
type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, event job.TaskEvent) error
}

type TaskService struct {
	store  TaskStore
	events EventPublisher
	logger *zerolog.Logger
	now    func() time.Time
}

// NewTaskService builds a TaskService. events may be nil.
func NewTaskService(store TaskStore, events EventPublisher, logger *zerolog.Logger) *TaskService {
	return &TaskService{
		store:  store,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

func (s *TaskService) Create(ctx context.Context, actor string, fields model.TaskFields) (*model.Task, error) {
	task, err := s.store.Create(ctx, fields)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	s.publish(ctx, job.TaskCreated, actor, task)
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return task, nil
}

// Update replaces every mutable field of the task. Omitted optional fields
// reset to their defaults.
func (s *TaskService) Update(ctx context.Context, actor string, id int64, fields model.TaskFields) (*model.Task, error) {
	task, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	s.publish(ctx, job.TaskUpdated, actor, task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, actor string, id int64) (*model.DeleteTaskResponse, error) {
	task, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	s.publish(ctx, job.TaskDeleted, actor, task)
	return &model.DeleteTaskResponse{Message: "Task deleted successfully"}, nil
}

// publish is best effort: a failed enqueue is logged and never fails the
// request that caused it.
func (s *TaskService) publish(ctx context.Context, action job.TaskAction, actor string, task *model.Task) {
	if s.events == nil {
		return
	}

	event := job.TaskEvent{
		Action:     action,
		TaskID:     task.ID,
		Title:      task.Title,
		Actor:      actor,
		OccurredAt: s.now().UTC(),
	}

	if err := s.events.PublishTaskEvent(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("action", string(action)).
			Int64("task_id", task.ID).
			Msg("failed to publish task event")
	}
}
