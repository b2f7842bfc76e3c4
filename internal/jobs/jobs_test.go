package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"park-with-ease/internal/jobstore"
	"park-with-ease/internal/model"
	"park-with-ease/internal/queue"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func freezeTime(t *testing.T) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = orig })
}

type fakeStore struct {
	CandidatesFn   func(ctx context.Context, cutoff time.Time) ([]jobstore.ReminderCandidate, error)
	GetUserFn      func(ctx context.Context, userID int) (*model.User, error)
	ReservationsFn func(ctx context.Context, userID int) ([]model.Reservation, error)
}

func (f *fakeStore) ReminderCandidates(ctx context.Context, cutoff time.Time) ([]jobstore.ReminderCandidate, error) {
	return f.CandidatesFn(ctx, cutoff)
}

func (f *fakeStore) GetUser(ctx context.Context, userID int) (*model.User, error) {
	return f.GetUserFn(ctx, userID)
}

func (f *fakeStore) UserReservations(ctx context.Context, userID int) ([]model.Reservation, error) {
	return f.ReservationsFn(ctx, userID)
}

type fakeQueue struct {
	mu       sync.Mutex
	results  []queue.Result
	NextFn   func(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	SubmitFn func(ctx context.Context, kind queue.Kind, userID int) (string, error)
	SetErr   error
}

func (f *fakeQueue) Submit(ctx context.Context, kind queue.Kind, userID int) (string, error) {
	return f.SubmitFn(ctx, kind, userID)
}

func (f *fakeQueue) Next(ctx context.Context, timeout time.Duration) (*queue.Job, error) {
	return f.NextFn(ctx, timeout)
}

func (f *fakeQueue) SetResult(_ context.Context, r queue.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return f.SetErr
}

func (f *fakeQueue) Results() []queue.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.Result(nil), f.results...)
}
