package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"
	"park-with-ease/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestAdminDashboardSummary(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	db := &database.FakeDB{}

	countLots = func(context.Context, database.Querier) (int, error) { return 2, nil }
	countSpots = func(context.Context, database.Querier) (store.SpotCounts, error) {
		return store.SpotCounts{Total: 5, Available: 3, Occupied: 2}, nil
	}
	countUsersByRole = func(_ context.Context, _ database.Querier, role model.Role) (int, error) {
		require.Equal(t, model.RoleUser, role)
		return 4, nil
	}
	s, err := AdminDashboardSummary(ctx, db)
	require.NoError(t, err)
	require.Equal(t, AdminSummary{TotalLots: 2, TotalSpots: 5, AvailableSpots: 3, OccupiedSpots: 2, RegisteredUsers: 4}, *s)

	countSpots = func(context.Context, database.Querier) (store.SpotCounts, error) {
		return store.SpotCounts{}, errors.New("db")
	}
	_, err = AdminDashboardSummary(ctx, db)
	require.Error(t, err)
}

func TestGetSpotDetail(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	db := &database.FakeDB{}
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return start.Add(90 * time.Minute) }

	getSpot = func(context.Context, database.Querier, int) (*model.ParkingSpot, error) {
		return nil, fmt.Errorf("GetSpot: %w", pgx.ErrNoRows)
	}
	_, err := GetSpotDetail(ctx, db, 1)
	require.True(t, IsNotFound(err))

	getSpot = func(_ context.Context, _ database.Querier, id int) (*model.ParkingSpot, error) {
		return &model.ParkingSpot{ID: id, Status: model.SpotAvailable}, nil
	}
	d, err := GetSpotDetail(ctx, db, 1)
	require.NoError(t, err)
	require.Equal(t, model.SpotAvailable, d.Status)
	require.Nil(t, d.Occupancy)

	getSpot = func(_ context.Context, _ database.Querier, id int) (*model.ParkingSpot, error) {
		return &model.ParkingSpot{ID: id, Status: model.SpotOccupied}, nil
	}
	getSpotOccupant = func(context.Context, database.Querier, int) (*store.SpotOccupant, error) {
		return nil, fmt.Errorf("GetSpotOccupant: %w", pgx.ErrNoRows)
	}
	d, err = GetSpotDetail(ctx, db, 1)
	require.NoError(t, err)
	require.Equal(t, model.SpotAvailable, d.Status)

	getSpotOccupant = func(context.Context, database.Querier, int) (*store.SpotOccupant, error) {
		return &store.SpotOccupant{Username: "alice", Email: "alice@example.com", ParkingTimestamp: start}, nil
	}
	d, err = GetSpotDetail(ctx, db, 1)
	require.NoError(t, err)
	require.Equal(t, model.SpotOccupied, d.Status)
	require.Equal(t, "alice", d.Occupancy.Username)
	require.Equal(t, 1.5, d.Occupancy.DurationHours)

	timeNow = func() time.Time { return start.Add(100 * time.Minute) }
	d, err = GetSpotDetail(ctx, db, 1)
	require.NoError(t, err)
	require.Equal(t, 1.67, d.Occupancy.DurationHours)
}

func TestListings(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	db := &database.FakeDB{}

	listUsersByRole = func(_ context.Context, _ database.Querier, role model.Role) ([]model.User, error) {
		require.Equal(t, model.RoleUser, role)
		return []model.User{{ID: 2, Username: "alice"}}, nil
	}
	users, err := ListUsers(ctx, db)
	require.NoError(t, err)
	require.Len(t, users, 1)

	listSpotSummaries = func(context.Context, database.Querier) ([]store.SpotSummary, error) {
		return []store.SpotSummary{{ID: 1, LotName: "Central", Status: model.SpotOccupied}}, nil
	}
	spots, err := ListSpots(ctx, db)
	require.NoError(t, err)
	require.Equal(t, "Occupied", spots[0].Status.Label())

	listLots = func(context.Context, database.Querier) ([]model.ParkingLot, error) {
		return []model.ParkingLot{{ID: 1}}, nil
	}
	lots, err := ListLots(ctx, db)
	require.NoError(t, err)
	require.Len(t, lots, 1)

	listLotsWithAvailability = func(context.Context, database.Querier) ([]store.LotAvailability, error) {
		return []store.LotAvailability{{ParkingLot: model.ParkingLot{ID: 1}, TotalSpots: 3, AvailableSpots: 1}}, nil
	}
	avail, err := ListLotsWithAvailability(ctx, db)
	require.NoError(t, err)
	require.Equal(t, 1, avail[0].AvailableSpots)

	listReservationsByUser = func(_ context.Context, _ database.Querier, uid int) ([]model.Reservation, error) {
		require.Equal(t, 7, uid)
		return []model.Reservation{{ID: 1, UserID: 7}}, nil
	}
	hist, err := UserHistory(ctx, db, 7)
	require.NoError(t, err)
	require.Len(t, hist, 1)
}

func TestUserDashboardSummary(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	countUserReservations = func(context.Context, database.Querier, int) (store.ReservationCounts, error) {
		return store.ReservationCounts{Total: 5, Active: 1}, nil
	}
	s, err := UserDashboardSummary(ctx, &database.FakeDB{}, 7)
	require.NoError(t, err)
	require.Equal(t, UserSummary{TotalBookings: 5, ActiveReservations: 1, CompletedReservations: 4}, *s)

	countUserReservations = func(context.Context, database.Querier, int) (store.ReservationCounts, error) {
		return store.ReservationCounts{}, errors.New("db")
	}
	_, err = UserDashboardSummary(ctx, &database.FakeDB{}, 7)
	require.Error(t, err)
}
