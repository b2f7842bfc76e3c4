package store

import (
	"context"
	"fmt"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"

	"github.com/jackc/pgx/v5"
)

const lotColumns = `id, prime_location_name, price_per_hour, address, pincode, number_of_spots, created_at`

// LotAvailability is a lot with its live spot counters.
type LotAvailability struct {
	model.ParkingLot
	TotalSpots     int
	AvailableSpots int
}

func scanLot(row pgx.Row, extra ...any) (*model.ParkingLot, error) {
	l := &model.ParkingLot{}
	dest := append([]any{
		&l.ID,
		&l.PrimeLocationName,
		&l.PricePerHour,
		&l.Address,
		&l.Pincode,
		&l.NumberOfSpots,
		&l.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return l, nil
}

func CreateLot(ctx context.Context, db database.Querier, l *model.ParkingLot) (*model.ParkingLot, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO parking_lots (prime_location_name, price_per_hour, address, pincode, number_of_spots)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		l.PrimeLocationName,
		l.PricePerHour,
		l.Address,
		l.Pincode,
		l.NumberOfSpots,
	)
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateLot: %w", err)
	}
	return l, nil
}

func GetLot(ctx context.Context, db database.Querier, lotID int) (*model.ParkingLot, error) {
	l, err := scanLot(db.QueryRow(ctx,
		`SELECT `+lotColumns+` FROM parking_lots WHERE id = $1`,
		lotID,
	))
	if err != nil {
		return nil, fmt.Errorf("GetLot: %w", err)
	}
	return l, nil
}

// LockLot reads the lot row with FOR UPDATE; only valid inside a transaction.
func LockLot(ctx context.Context, db database.Querier, lotID int) (*model.ParkingLot, error) {
	l, err := scanLot(db.QueryRow(ctx,
		`SELECT `+lotColumns+` FROM parking_lots WHERE id = $1 FOR UPDATE`,
		lotID,
	))
	if err != nil {
		return nil, fmt.Errorf("LockLot: %w", err)
	}
	return l, nil
}

func ListLots(ctx context.Context, db database.Querier) ([]model.ParkingLot, error) {
	rows, err := db.Query(ctx, `SELECT `+lotColumns+` FROM parking_lots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListLots: %w", err)
	}
	defer rows.Close()

	lots := []model.ParkingLot{}
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("ListLots: %w", err)
		}
		lots = append(lots, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListLots: %w", err)
	}
	return lots, nil
}

func ListLotsWithAvailability(ctx context.Context, db database.Querier) ([]LotAvailability, error) {
	rows, err := db.Query(ctx,
		`SELECT l.id, l.prime_location_name, l.price_per_hour, l.address, l.pincode, l.number_of_spots, l.created_at,
		        COUNT(s.id), COUNT(s.id) FILTER (WHERE s.status = 'A')
		 FROM parking_lots l
		 LEFT JOIN parking_spots s ON s.lot_id = l.id
		 GROUP BY l.id
		 ORDER BY l.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListLotsWithAvailability: %w", err)
	}
	defer rows.Close()

	lots := []LotAvailability{}
	for rows.Next() {
		var total, available int
		l, err := scanLot(rows, &total, &available)
		if err != nil {
			return nil, fmt.Errorf("ListLotsWithAvailability: %w", err)
		}
		lots = append(lots, LotAvailability{ParkingLot: *l, TotalSpots: total, AvailableSpots: available})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListLotsWithAvailability: %w", err)
	}
	return lots, nil
}

func UpdateLot(ctx context.Context, db database.Querier, l *model.ParkingLot) error {
	_, err := db.Exec(ctx,
		`UPDATE parking_lots
		 SET prime_location_name = $1, price_per_hour = $2, address = $3, pincode = $4, number_of_spots = $5
		 WHERE id = $6`,
		l.PrimeLocationName,
		l.PricePerHour,
		l.Address,
		l.Pincode,
		l.NumberOfSpots,
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateLot: %w", err)
	}
	return nil
}

func DeleteLot(ctx context.Context, db database.Querier, lotID int) error {
	_, err := db.Exec(ctx, `DELETE FROM parking_lots WHERE id = $1`, lotID)
	if err != nil {
		return fmt.Errorf("DeleteLot: %w", err)
	}
	return nil
}
