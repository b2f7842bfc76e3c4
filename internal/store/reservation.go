package store

import (
	"context"
	"fmt"
	"time"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"
)

// ActiveBooking is an open reservation with the price of the lot its spot belongs to.
type ActiveBooking struct {
	ReservationID    int
	SpotID           int
	ParkingTimestamp time.Time
	PricePerHour     float64
}

// SpotOccupant describes who holds the active reservation of a spot.
type SpotOccupant struct {
	Username         string
	Email            string
	ParkingTimestamp time.Time
}

type ReservationCounts struct {
	Total  int
	Active int
}

func CreateReservation(ctx context.Context, db database.Querier, r *model.Reservation) (*model.Reservation, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO reservations (spot_id, user_id, lot_name, parking_timestamp)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		r.SpotID,
		r.UserID,
		r.LotName,
		r.ParkingTimestamp,
	)
	if err := row.Scan(&r.ID); err != nil {
		return nil, fmt.Errorf("CreateReservation: %w", err)
	}
	return r, nil
}

// LockActiveBooking locks the user's open reservation together with its spot
// price. pgx.ErrNoRows means there is no open reservation with that id for the user.
func LockActiveBooking(ctx context.Context, db database.Querier, reservationID, userID int) (*ActiveBooking, error) {
	b := &ActiveBooking{}
	if err := db.QueryRow(ctx,
		`SELECT r.id, s.id, r.parking_timestamp, l.price_per_hour
		 FROM reservations r
		 JOIN parking_spots s ON s.id = r.spot_id
		 JOIN parking_lots l ON l.id = s.lot_id
		 WHERE r.id = $1 AND r.user_id = $2 AND r.leaving_timestamp IS NULL
		 FOR UPDATE OF r, s`,
		reservationID,
		userID,
	).Scan(&b.ReservationID, &b.SpotID, &b.ParkingTimestamp, &b.PricePerHour); err != nil {
		return nil, fmt.Errorf("LockActiveBooking: %w", err)
	}
	return b, nil
}

func FinishReservation(ctx context.Context, db database.Querier, reservationID int, leftAt time.Time, cost float64) error {
	_, err := db.Exec(ctx,
		`UPDATE reservations SET leaving_timestamp = $1, total_cost = $2 WHERE id = $3`,
		leftAt,
		cost,
		reservationID,
	)
	if err != nil {
		return fmt.Errorf("FinishReservation: %w", err)
	}
	return nil
}

func GetSpotOccupant(ctx context.Context, db database.Querier, spotID int) (*SpotOccupant, error) {
	o := &SpotOccupant{}
	if err := db.QueryRow(ctx,
		`SELECT u.username, u.email, r.parking_timestamp
		 FROM reservations r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.spot_id = $1 AND r.leaving_timestamp IS NULL
		 ORDER BY r.id DESC
		 LIMIT 1`,
		spotID,
	).Scan(&o.Username, &o.Email, &o.ParkingTimestamp); err != nil {
		return nil, fmt.Errorf("GetSpotOccupant: %w", err)
	}
	return o, nil
}

func ListReservationsByUser(ctx context.Context, db database.Querier, userID int) ([]model.Reservation, error) {
	rows, err := db.Query(ctx,
		`SELECT id, spot_id, user_id, lot_name, parking_timestamp, leaving_timestamp, total_cost
		 FROM reservations
		 WHERE user_id = $1
		 ORDER BY parking_timestamp DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListReservationsByUser: %w", err)
	}
	defer rows.Close()

	list := []model.Reservation{}
	for rows.Next() {
		var r model.Reservation
		if err := rows.Scan(
			&r.ID,
			&r.SpotID,
			&r.UserID,
			&r.LotName,
			&r.ParkingTimestamp,
			&r.LeavingTimestamp,
			&r.TotalCost,
		); err != nil {
			return nil, fmt.Errorf("ListReservationsByUser: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListReservationsByUser: %w", err)
	}
	return list, nil
}

func CountUserReservations(ctx context.Context, db database.Querier, userID int) (ReservationCounts, error) {
	var c ReservationCounts
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE leaving_timestamp IS NULL)
		 FROM reservations WHERE user_id = $1`,
		userID,
	).Scan(&c.Total, &c.Active); err != nil {
		return ReservationCounts{}, fmt.Errorf("CountUserReservations: %w", err)
	}
	return c, nil
}
