package store

import (
	"context"
	"fmt"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"
)

// SpotSummary is a spot joined with the name of its lot.
type SpotSummary struct {
	ID      int
	LotName string
	Status  model.SpotStatus
}

type SpotCounts struct {
	Total     int
	Available int
	Occupied  int
}

func AddSpots(ctx context.Context, db database.Querier, lotID, n int) error {
	_, err := db.Exec(ctx,
		`INSERT INTO parking_spots (lot_id, status)
		 SELECT $1, 'A' FROM generate_series(1, $2)`,
		lotID,
		n,
	)
	if err != nil {
		return fmt.Errorf("AddSpots: %w", err)
	}
	return nil
}

// ClaimAvailableSpot flips the lowest-id available spot of the lot to occupied
// and returns its id. Rows locked by concurrent claims are skipped; pgx.ErrNoRows
// means the lot has no free spot.
func ClaimAvailableSpot(ctx context.Context, db database.Querier, lotID int) (int, error) {
	var spotID int
	err := db.QueryRow(ctx,
		`UPDATE parking_spots SET status = 'O'
		 WHERE id = (
		     SELECT id FROM parking_spots
		     WHERE lot_id = $1 AND status = 'A'
		     ORDER BY id
		     LIMIT 1
		     FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id`,
		lotID,
	).Scan(&spotID)
	if err != nil {
		return 0, fmt.Errorf("ClaimAvailableSpot: %w", err)
	}
	return spotID, nil
}

// LockRemovableSpots locks up to n available spots of the lot, highest id first.
func LockRemovableSpots(ctx context.Context, db database.Querier, lotID, n int) ([]int, error) {
	rows, err := db.Query(ctx,
		`SELECT id FROM parking_spots
		 WHERE lot_id = $1 AND status = 'A'
		 ORDER BY id DESC
		 LIMIT $2
		 FOR UPDATE SKIP LOCKED`,
		lotID,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("LockRemovableSpots: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("LockRemovableSpots: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LockRemovableSpots: %w", err)
	}
	return ids, nil
}

// LockLotSpots locks every spot row of the lot and returns them.
func LockLotSpots(ctx context.Context, db database.Querier, lotID int) ([]model.ParkingSpot, error) {
	rows, err := db.Query(ctx,
		`SELECT id, lot_id, status, created_at FROM parking_spots
		 WHERE lot_id = $1
		 ORDER BY id
		 FOR UPDATE`,
		lotID,
	)
	if err != nil {
		return nil, fmt.Errorf("LockLotSpots: %w", err)
	}
	defer rows.Close()

	spots := []model.ParkingSpot{}
	for rows.Next() {
		var s model.ParkingSpot
		if err := rows.Scan(&s.ID, &s.LotID, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("LockLotSpots: %w", err)
		}
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LockLotSpots: %w", err)
	}
	return spots, nil
}

func DeleteSpots(ctx context.Context, db database.Querier, ids []int) error {
	_, err := db.Exec(ctx, `DELETE FROM parking_spots WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("DeleteSpots: %w", err)
	}
	return nil
}

func DeleteLotSpots(ctx context.Context, db database.Querier, lotID int) error {
	_, err := db.Exec(ctx, `DELETE FROM parking_spots WHERE lot_id = $1`, lotID)
	if err != nil {
		return fmt.Errorf("DeleteLotSpots: %w", err)
	}
	return nil
}

func SetSpotStatus(ctx context.Context, db database.Querier, spotID int, status model.SpotStatus) error {
	_, err := db.Exec(ctx, `UPDATE parking_spots SET status = $1 WHERE id = $2`, status, spotID)
	if err != nil {
		return fmt.Errorf("SetSpotStatus: %w", err)
	}
	return nil
}

func GetSpot(ctx context.Context, db database.Querier, spotID int) (*model.ParkingSpot, error) {
	s := &model.ParkingSpot{}
	if err := db.QueryRow(ctx,
		`SELECT id, lot_id, status, created_at FROM parking_spots WHERE id = $1`,
		spotID,
	).Scan(&s.ID, &s.LotID, &s.Status, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("GetSpot: %w", err)
	}
	return s, nil
}

func ListSpotSummaries(ctx context.Context, db database.Querier) ([]SpotSummary, error) {
	rows, err := db.Query(ctx,
		`SELECT s.id, l.prime_location_name, s.status
		 FROM parking_spots s
		 JOIN parking_lots l ON l.id = s.lot_id
		 ORDER BY s.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListSpotSummaries: %w", err)
	}
	defer rows.Close()

	spots := []SpotSummary{}
	for rows.Next() {
		var s SpotSummary
		if err := rows.Scan(&s.ID, &s.LotName, &s.Status); err != nil {
			return nil, fmt.Errorf("ListSpotSummaries: %w", err)
		}
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListSpotSummaries: %w", err)
	}
	return spots, nil
}

func CountSpots(ctx context.Context, db database.Querier) (SpotCounts, error) {
	var c SpotCounts
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'A'),
		        COUNT(*) FILTER (WHERE status = 'O')
		 FROM parking_spots`,
	).Scan(&c.Total, &c.Available, &c.Occupied); err != nil {
		return SpotCounts{}, fmt.Errorf("CountSpots: %w", err)
	}
	return c, nil
}

func CountLots(ctx context.Context, db database.Querier) (int, error) {
	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM parking_lots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountLots: %w", err)
	}
	return n, nil
}

func CountLotSpots(ctx context.Context, db database.Querier, lotID int) (int, error) {
	var n int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM parking_spots WHERE lot_id = $1`,
		lotID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountLotSpots: %w", err)
	}
	return n, nil
}
