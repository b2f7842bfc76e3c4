package model

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// SpotStatus is stored as a single character in parking_spots.status.
type SpotStatus string

const (
	SpotAvailable SpotStatus = "A"
	SpotOccupied  SpotStatus = "O"
)

// Label returns the human readable status used in API responses.
func (s SpotStatus) Label() string {
	if s == SpotOccupied {
		return "Occupied"
	}
	return "Available"
}

type ParkingLot struct {
	ID                int       `db:"id" json:"id"`
	PrimeLocationName string    `db:"prime_location_name" json:"prime_location_name"`
	PricePerHour      float64   `db:"price_per_hour" json:"price_per_hour"`
	Address           string    `db:"address" json:"address"`
	Pincode           string    `db:"pincode" json:"pincode"`
	NumberOfSpots     int       `db:"number_of_spots" json:"number_of_spots"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type ParkingSpot struct {
	ID        int        `db:"id" json:"id"`
	LotID     int        `db:"lot_id" json:"lot_id"`
	Status    SpotStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Reservation 進行中時 LeavingTimestamp 與 TotalCost 皆為 NULL。
// SpotID 在車位被刪除後會變成 NULL，LotName 保留預約當下的停車場名稱。
type Reservation struct {
	ID               int        `db:"id" json:"reservation_id"`
	SpotID           null.Int   `db:"spot_id" json:"spot_id"`
	UserID           int        `db:"user_id" json:"user_id"`
	LotName          string     `db:"lot_name" json:"lot_name"`
	ParkingTimestamp time.Time  `db:"parking_timestamp" json:"parking_timestamp"`
	LeavingTimestamp null.Time  `db:"leaving_timestamp" json:"leaving_timestamp"`
	TotalCost        null.Float `db:"total_cost" json:"total_cost"`
}

func (r Reservation) Active() bool {
	return !r.LeavingTimestamp.Valid
}
