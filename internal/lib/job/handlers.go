package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

// handleTaskEvent writes one audit line per task mutation.
//
// A malformed payload will never decode, so it is skipped instead of retried.
func (j *JobService) handleTaskEvent(ctx context.Context, t *asynq.Task) error {
	event, err := ParseTaskEvent(t)
	if err != nil {
		j.logger.Error().Err(err).Str("type", t.Type()).Msg("dropping malformed task event")
		return errors.Wrap(asynq.SkipRetry, err.Error())
	}

	j.logger.Info().
		Str("type", t.Type()).
		Str("action", string(event.Action)).
		Int64("task_id", event.TaskID).
		Str("title", event.Title).
		Str("actor", event.Actor).
		Time("occurred_at", event.OccurredAt).
		Msg("task audit event")

	return nil
}
