package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"park-with-ease/internal/mail"
	"park-with-ease/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"
)

func exportStore() *fakeStore {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return &fakeStore{
		GetUserFn: func(_ context.Context, id int) (*model.User, error) {
			return &model.User{ID: id, Username: "alice", Email: "alice@example.com"}, nil
		},
		ReservationsFn: func(context.Context, int) ([]model.Reservation, error) {
			return []model.Reservation{
				{ID: 1, SpotID: null.IntFrom(4), LotName: "Central", ParkingTimestamp: start,
					LeavingTimestamp: null.TimeFrom(start.Add(90 * time.Minute)), TotalCost: null.FloatFrom(15)},
				{ID: 2, LotName: "Harbour, East", ParkingTimestamp: start.Add(24 * time.Hour)},
			}, nil
		},
	}
}

func TestExporterRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	var gotBody string
	e := &Exporter{
		Store: exportStore(),
		Mailer: &mail.FakeMailer{SendFn: func(_ context.Context, to, subject, body string) error {
			require.Equal(t, "alice@example.com", to)
			require.Equal(t, ExportSubject, subject)
			gotBody = body
			return nil
		}},
		Logger:  zap.NewNop(),
		Dir:     dir,
		BaseURL: "http://parking.test/",
	}

	name, err := e.Run(context.Background(), "job-1", 7)
	require.NoError(t, err)
	require.Equal(t, "user_7_job-1.csv", name)
	require.Contains(t, gotBody, "http://parking.test/exports/user_7_job-1.csv")

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	want := "ID,Lot,Spot,Start,End,Cost\n" +
		"1,Central,4,2024-05-01T08:00:00Z,2024-05-01T09:30:00Z,15.00\n" +
		"2,\"Harbour, East\",,2024-05-02T08:00:00Z,,\n"
	require.Equal(t, want, string(data))
}

func TestExporterMailFailureKeepsFile(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{
		Store:  exportStore(),
		Mailer: &mail.FakeMailer{SendFn: func(context.Context, string, string, string) error { return errors.New("smtp down") }},
		Logger: zap.NewNop(),
		Dir:    dir,
	}
	name, err := e.Run(context.Background(), "job-2", 7)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, name))
}

func TestExporterStoreErrors(t *testing.T) {
	store := exportStore()
	store.GetUserFn = func(context.Context, int) (*model.User, error) { return nil, errors.New("no user") }
	e := &Exporter{Store: store, Mailer: &mail.FakeMailer{}, Logger: zap.NewNop(), Dir: t.TempDir()}
	_, err := e.Run(context.Background(), "j", 1)
	require.ErrorContains(t, err, "no user")

	store = exportStore()
	store.ReservationsFn = func(context.Context, int) ([]model.Reservation, error) { return nil, errors.New("query") }
	e.Store = store
	_, err = e.Run(context.Background(), "j", 1)
	require.ErrorContains(t, err, "query")
}

func TestExporterBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	e := &Exporter{Store: exportStore(), Mailer: &mail.FakeMailer{}, Logger: zap.NewNop(), Dir: file}
	_, err := e.Run(context.Background(), "j", 1)
	require.ErrorContains(t, err, "create export dir")
}
