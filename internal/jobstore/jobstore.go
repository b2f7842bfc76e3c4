// Package jobstore is the read side used by the background worker.
package jobstore

import (
	"context"
	"fmt"
	"time"

	"park-with-ease/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

var sqlxOpen = sqlx.Open

type ReminderCandidate struct {
	UserID    int       `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	LastVisit null.Time `db:"last_visit"`
}

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open 以 pgx stdlib driver 建立連線並 ping 確認
func Open(ctx context.Context, dbURL string) (*Store, error) {
	db, err := sqlxOpen("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("jobstore open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("jobstore ping: %w", err)
	}
	return New(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ReminderCandidates returns every account whose latest finished
// reservation ended before cutoff, including accounts that never finished one.
// Open reservations are not considered.
func (s *Store) ReminderCandidates(ctx context.Context, cutoff time.Time) ([]ReminderCandidate, error) {
	const query = `
SELECT u.id, u.username, u.email, MAX(r.leaving_timestamp) AS last_visit
FROM users u
LEFT JOIN reservations r ON r.user_id = u.id AND r.leaving_timestamp IS NOT NULL
GROUP BY u.id, u.username, u.email
HAVING MAX(r.leaving_timestamp) IS NULL OR MAX(r.leaving_timestamp) < $1
ORDER BY u.id`

	var out []ReminderCandidate
	if err := s.db.SelectContext(ctx, &out, query, cutoff); err != nil {
		return nil, fmt.Errorf("ReminderCandidates: %w", err)
	}
	return out, nil
}

func (s *Store) UserReservations(ctx context.Context, userID int) ([]model.Reservation, error) {
	const query = `
SELECT id, spot_id, user_id, lot_name, parking_timestamp, leaving_timestamp, total_cost
FROM reservations
WHERE user_id = $1
ORDER BY id`

	var out []model.Reservation
	if err := s.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("UserReservations: %w", err)
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, userID int) (*model.User, error) {
	const query = `SELECT id, username, email, role, created_at FROM users WHERE id = $1`

	var u model.User
	if err := s.db.GetContext(ctx, &u, query, userID); err != nil {
		return nil, fmt.Errorf("GetUser: %w", err)
	}
	return &u, nil
}
