package job

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskEventType is the job type name stored in Redis.
	TaskEventType = "task:event"

	// taskEventQueue is where task events are enqueued.
	taskEventQueue = "low"
)

// TaskAction names the mutation a TaskEvent records.
type TaskAction string

const (
	TaskCreated TaskAction = "created"
	TaskUpdated TaskAction = "updated"
	TaskDeleted TaskAction = "deleted"
)

// TaskEvent is the JSON payload of a task event job.
type TaskEvent struct {
	Action     TaskAction `json:"action"`
	TaskID     int64      `json:"task_id"`
	Title      string     `json:"title"`
	Actor      string     `json:"actor,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewTaskEventTask serializes event into an asynq task.
//
// Events are best-effort audit records: a couple of retries, low queue,
// short timeout.
func NewTaskEventTask(event TaskEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task event: %w", err)
	}

	return asynq.NewTask(
		TaskEventType,
		payload,
		asynq.MaxRetry(2),
		asynq.Queue(taskEventQueue),
		asynq.Timeout(10*time.Second),
	), nil
}

// ParseTaskEvent decodes the payload of a task event job.
func ParseTaskEvent(t *asynq.Task) (TaskEvent, error) {
	var event TaskEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return TaskEvent{}, fmt.Errorf("failed to unmarshal task event payload: %w", err)
	}
	return event, nil
}
