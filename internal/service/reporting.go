package service

import (
	"context"
	"errors"
	"time"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"
	"park-with-ease/internal/store"

	"github.com/jackc/pgx/v5"
)

var (
	countLots                = store.CountLots
	countSpots               = store.CountSpots
	countUsersByRole         = store.CountUsersByRole
	listSpotSummaries        = store.ListSpotSummaries
	getSpot                  = store.GetSpot
	getSpotOccupant          = store.GetSpotOccupant
	listUsersByRole          = store.ListUsersByRole
	listLots                 = store.ListLots
	listLotsWithAvailability = store.ListLotsWithAvailability
	listReservationsByUser   = store.ListReservationsByUser
	countUserReservations    = store.CountUserReservations
)

type AdminSummary struct {
	TotalLots       int
	TotalSpots      int
	AvailableSpots  int
	OccupiedSpots   int
	RegisteredUsers int
}

type UserSummary struct {
	TotalBookings         int
	ActiveReservations    int
	CompletedReservations int
}

// SpotOccupancy is set on SpotDetail only while the spot is occupied.
type SpotOccupancy struct {
	Username      string
	Email         string
	StartTime     time.Time
	DurationHours float64
}

type SpotDetail struct {
	SpotID    int
	Status    model.SpotStatus
	Occupancy *SpotOccupancy
}

func AdminDashboardSummary(ctx context.Context, db database.Querier) (*AdminSummary, error) {
	lots, err := countLots(ctx, db)
	if err != nil {
		return nil, err
	}
	spots, err := countSpots(ctx, db)
	if err != nil {
		return nil, err
	}
	users, err := countUsersByRole(ctx, db, model.RoleUser)
	if err != nil {
		return nil, err
	}
	return &AdminSummary{
		TotalLots:       lots,
		TotalSpots:      spots.Total,
		AvailableSpots:  spots.Available,
		OccupiedSpots:   spots.Occupied,
		RegisteredUsers: users,
	}, nil
}

func ListSpots(ctx context.Context, db database.Querier) ([]store.SpotSummary, error) {
	return listSpotSummaries(ctx, db)
}

// GetSpotDetail 每次呼叫都重新計算佔用時數
func GetSpotDetail(ctx context.Context, db database.Querier, spotID int) (*SpotDetail, error) {
	spot, err := getSpot(ctx, db, spotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundError{Msg: "Spot not found", Err: err}
		}
		return nil, err
	}
	detail := &SpotDetail{SpotID: spot.ID, Status: model.SpotAvailable}
	if spot.Status != model.SpotOccupied {
		return detail, nil
	}

	occupant, err := getSpotOccupant(ctx, db, spotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return detail, nil
		}
		return nil, err
	}
	detail.Status = model.SpotOccupied
	detail.Occupancy = &SpotOccupancy{
		Username:      occupant.Username,
		Email:         occupant.Email,
		StartTime:     occupant.ParkingTimestamp,
		DurationHours: round2(timeNow().Sub(occupant.ParkingTimestamp).Hours()),
	}
	return detail, nil
}

func ListUsers(ctx context.Context, db database.Querier) ([]model.User, error) {
	return listUsersByRole(ctx, db, model.RoleUser)
}

func ListLots(ctx context.Context, db database.Querier) ([]model.ParkingLot, error) {
	return listLots(ctx, db)
}

func ListLotsWithAvailability(ctx context.Context, db database.Querier) ([]store.LotAvailability, error) {
	return listLotsWithAvailability(ctx, db)
}

func UserHistory(ctx context.Context, db database.Querier, userID int) ([]model.Reservation, error) {
	return listReservationsByUser(ctx, db, userID)
}

func UserDashboardSummary(ctx context.Context, db database.Querier, userID int) (*UserSummary, error) {
	c, err := countUserReservations(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	return &UserSummary{
		TotalBookings:         c.Total,
		ActiveReservations:    c.Active,
		CompletedReservations: c.Total - c.Active,
	}, nil
}
