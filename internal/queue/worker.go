package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// HandlePublishPostTask runs a scheduled publish. Platform failures are
// recorded in the result and logged, never returned, so asynq does not
// retry a publish that partially went out.
func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	result := q.publisher.PublishMany(ctx, payload.UserID, payload.Platforms, payload.Content, payload.ImageURL)

	for platform, published := range result.Results {
		if payload.PostID > 0 {
			if err := q.publisher.RecordPublish(ctx, payload.UserID, payload.PostID, platform, published.URL, payload.ImageURL); err != nil {
				slog.Info(err.Error())
			}
		}
	}

	for _, msg := range result.Errors {
		slog.Info("scheduled publish failed", "post_id", payload.PostID, "error", msg)
	}

	return nil
}
