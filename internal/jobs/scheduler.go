package jobs

import (
	"context"
	"time"

	"park-with-ease/internal/queue"

	"go.uber.org/zap"
)

// ScheduleReminders enqueues a send_reminders job every interval until ctx is done.
func ScheduleReminders(ctx context.Context, interval time.Duration, sub queue.Submitter, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			id, err := sub.Submit(ctx, queue.KindSendReminders, 0)
			if err != nil {
				logger.Error("schedule reminders", zap.Error(err))
				continue
			}
			logger.Info("reminders scheduled", zap.String("job_id", id))
		}
	}
}
