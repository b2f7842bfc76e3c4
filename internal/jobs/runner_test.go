package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"park-with-ease/internal/jobstore"
	"park-with-ease/internal/mail"
	"park-with-ease/internal/queue"
	"park-with-ease/internal/worker"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRunner(q *fakeQueue, store *fakeStore, mailer mail.Mailer) *Runner {
	log := zap.NewNop()
	return &Runner{
		Queue:    q,
		Reminder: &Reminder{Store: store, Mailer: mailer, Logger: log},
		Exporter: &Exporter{Store: store, Mailer: mailer, Logger: log},
		Logger:   log,
		Timeout:  time.Second,
	}
}

func okMailer() *mail.FakeMailer {
	return &mail.FakeMailer{SendFn: func(context.Context, string, string, string) error { return nil }}
}

func TestHandleReminders(t *testing.T) {
	q := &fakeQueue{}
	store := &fakeStore{CandidatesFn: func(context.Context, time.Time) ([]jobstore.ReminderCandidate, error) {
		return []jobstore.ReminderCandidate{{UserID: 1, Email: "a@example.com"}}, nil
	}}
	r := newRunner(q, store, okMailer())

	r.Handle(context.Background(), queue.Job{ID: "j1", Kind: queue.KindSendReminders})
	res := q.Results()
	require.Len(t, res, 2)
	require.Equal(t, queue.StateStarted, res[0].State)
	require.Equal(t, queue.StateSuccess, res[1].State)
	require.Equal(t, 1, res[1].Sent)
}

func TestHandleExport(t *testing.T) {
	q := &fakeQueue{}
	r := newRunner(q, exportStore(), okMailer())
	r.Exporter.Dir = t.TempDir()

	r.Handle(context.Background(), queue.Job{ID: "j2", Kind: queue.KindExportCSV, UserID: 7})
	res := q.Results()
	require.Len(t, res, 2)
	require.Equal(t, queue.StateSuccess, res[1].State)
	require.Equal(t, "user_7_j2.csv", res[1].Filename)
	require.Equal(t, 7, res[1].UserID)
}

func TestHandleFailure(t *testing.T) {
	q := &fakeQueue{SetErr: errors.New("redis down")}
	store := &fakeStore{CandidatesFn: func(context.Context, time.Time) ([]jobstore.ReminderCandidate, error) {
		return nil, errors.New("db down")
	}}
	r := newRunner(q, store, okMailer())

	r.Handle(context.Background(), queue.Job{ID: "j3", Kind: queue.KindSendReminders})
	res := q.Results()
	require.Len(t, res, 2)
	require.Equal(t, queue.StateFailure, res[1].State)
	require.Contains(t, res[1].Error, "db down")

	q = &fakeQueue{}
	r = newRunner(q, store, okMailer())
	r.Handle(context.Background(), queue.Job{ID: "j4", Kind: "bogus"})
	require.Contains(t, q.Results()[1].Error, "unknown job kind")
}

func TestHandleTimeout(t *testing.T) {
	q := &fakeQueue{}
	store := &fakeStore{CandidatesFn: func(ctx context.Context, _ time.Time) ([]jobstore.ReminderCandidate, error) {
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		return nil, ctx.Err()
	}}
	r := newRunner(q, store, okMailer())
	r.Timeout = 10 * time.Millisecond

	r.Handle(context.Background(), queue.Job{ID: "j5", Kind: queue.KindSendReminders})
	res := q.Results()
	require.Equal(t, queue.StateFailure, res[1].State)
	require.Contains(t, res[1].Error, "timed out")
}

func TestRunnerRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	q := &fakeQueue{}
	q.NextFn = func(ctx context.Context, _ time.Duration) (*queue.Job, error) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			return nil, errors.New("blip")
		case 2:
			return nil, nil
		case 3:
			return &queue.Job{ID: "j6", Kind: queue.KindSendReminders}, nil
		default:
			<-ctx.Done()
			return nil, ctx.Err()
		}
	}
	store := &fakeStore{CandidatesFn: func(context.Context, time.Time) ([]jobstore.ReminderCandidate, error) {
		return nil, nil
	}}
	r := newRunner(q, store, okMailer())
	r.Pool = worker.NewPool(context.Background(), 1)

	orig := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = orig })

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return len(q.Results()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	r.Pool.Stop()
	require.Equal(t, queue.StateSuccess, q.Results()[1].State)
}

type blockingPool struct{}

func (blockingPool) Submit(ctx context.Context, _ worker.Task) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingPool) Stop() {}

func TestRunnerRunRecordsFailureForUnstartedJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	q := &fakeQueue{}
	q.NextFn = func(ctx context.Context, _ time.Duration) (*queue.Job, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return &queue.Job{ID: "j7", Kind: queue.KindExportCSV, UserID: 3}, nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	r := newRunner(q, exportStore(), okMailer())
	r.Pool = blockingPool{}

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	res := q.Results()
	require.Len(t, res, 1)
	require.Equal(t, "j7", res[0].ID)
	require.Equal(t, queue.KindExportCSV, res[0].Kind)
	require.Equal(t, 3, res[0].UserID)
	require.Equal(t, queue.StateFailure, res[0].State)
	require.Equal(t, shutdownMessage, res[0].Error)
}
