package job

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks  []*asynq.Task
	err    error
	closed bool
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "job-1", Queue: taskEventQueue, Type: task.Type()}, nil
}

func (f *fakeEnqueuer) Close() error {
	f.closed = true
	return nil
}

func newTestService(buf *bytes.Buffer, q enqueuer) *JobService {
	log := zerolog.New(buf)
	return &JobService{client: q, logger: &log}
}

func TestPublishTaskEvent(t *testing.T) {
	var buf bytes.Buffer
	q := &fakeEnqueuer{}
	svc := newTestService(&buf, q)

	event := TaskEvent{
		Action:     TaskCreated,
		TaskID:     1,
		Title:      "Buy milk",
		Actor:      "admin",
		OccurredAt: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.PublishTaskEvent(context.Background(), event))

	require.Len(t, q.tasks, 1)
	assert.Equal(t, TaskEventType, q.tasks[0].Type())

	got, err := ParseTaskEvent(q.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestPublishTaskEvent_EnqueueFailure(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, &fakeEnqueuer{err: errors.New("redis down")})

	err := svc.PublishTaskEvent(context.Background(), TaskEvent{Action: TaskDeleted, TaskID: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
}

func TestHandleTaskEvent_WritesAuditLine(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, &fakeEnqueuer{})

	task, err := NewTaskEventTask(TaskEvent{Action: TaskUpdated, TaskID: 9, Title: "Walk dog", Actor: "admin"})
	require.NoError(t, err)

	require.NoError(t, svc.handleTaskEvent(context.Background(), task))

	out := buf.String()
	assert.Contains(t, out, `"action":"updated"`)
	assert.Contains(t, out, `"task_id":9`)
	assert.Contains(t, out, "task audit event")
}

func TestHandleTaskEvent_MalformedPayloadSkipsRetry(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, &fakeEnqueuer{})

	err := svc.handleTaskEvent(context.Background(), asynq.NewTask(TaskEventType, []byte("{not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestStop_ClosesClient(t *testing.T) {
	var buf bytes.Buffer
	q := &fakeEnqueuer{}
	svc := newTestService(&buf, q)

	svc.Stop()
	assert.True(t, q.closed)
}
