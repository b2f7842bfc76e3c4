package jobs

import (
	"context"
	"fmt"
	"time"

	"park-with-ease/internal/queue"
	"park-with-ease/internal/worker"

	"go.uber.org/zap"
)

const (
	DefaultJobTimeout  = 5 * time.Minute
	defaultPollTimeout = 5 * time.Second

	// shutdownMessage 記錄在已取出但未開始的工作上
	shutdownMessage = "worker shutting down"
)

var retryDelay = time.Second

type Queue interface {
	queue.Submitter
	Next(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	SetResult(ctx context.Context, r queue.Result) error
}

type Runner struct {
	Queue       Queue
	Pool        worker.Pool
	Reminder    *Reminder
	Exporter    *Exporter
	Logger      *zap.Logger
	Timeout     time.Duration
	PollTimeout time.Duration
}

// Run 持續從佇列取出工作交給 pool，直到 ctx 結束。
func (r *Runner) Run(ctx context.Context) error {
	poll := r.PollTimeout
	if poll <= 0 {
		poll = defaultPollTimeout
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		job, err := r.Queue.Next(ctx, poll)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.Logger.Error("dequeue failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryDelay):
			}
			continue
		}
		if job == nil {
			continue
		}
		j := *job
		if err := r.Pool.Submit(ctx, func(base context.Context) { r.Handle(base, j) }); err != nil {
			r.Logger.Warn("job dropped on shutdown", zap.String("job_id", j.ID))
			r.abandon(ctx, j)
			return nil
		}
	}
}

// Handle 執行單一工作並寫回狀態；失敗不重試。
func (r *Runner) Handle(ctx context.Context, job queue.Job) {
	log := r.Logger.With(zap.String("job_id", job.ID), zap.String("kind", string(job.Kind)))
	res := queue.Result{ID: job.ID, Kind: job.Kind, UserID: job.UserID, State: queue.StateStarted}
	if err := r.Queue.SetResult(ctx, res); err != nil {
		log.Error("set started", zap.Error(err))
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	var (
		sent     int
		filename string
	)
	start := time.Now()
	err := worker.RunWithTimeout(ctx, timeout, func(ctx context.Context) error {
		switch job.Kind {
		case queue.KindSendReminders:
			n, err := r.Reminder.Run(ctx)
			sent = n
			return err
		case queue.KindExportCSV:
			name, err := r.Exporter.Run(ctx, job.ID, job.UserID)
			filename = name
			return err
		default:
			return fmt.Errorf("unknown job kind %q", job.Kind)
		}
	})

	if err != nil {
		res.State = queue.StateFailure
		res.Error = err.Error()
		log.Error("job failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
	} else {
		res.State = queue.StateSuccess
		res.Sent = sent
		res.Filename = filename
		log.Info("job done", zap.Duration("elapsed", time.Since(start)))
	}
	if err := r.Queue.SetResult(ctx, res); err != nil {
		log.Error("set result", zap.Error(err))
	}
}

// abandon 將已取出但未執行的工作標記為 failure，ctx 可能已取消。
func (r *Runner) abandon(ctx context.Context, job queue.Job) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultPollTimeout)
	defer cancel()
	res := queue.Result{
		ID:     job.ID,
		Kind:   job.Kind,
		UserID: job.UserID,
		State:  queue.StateFailure,
		Error:  shutdownMessage,
	}
	if err := r.Queue.SetResult(ctx, res); err != nil {
		r.Logger.Error("set result", zap.String("job_id", job.ID), zap.Error(err))
	}
}
