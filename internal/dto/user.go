package dto

import (
	"time"

	"park-with-ease/internal/model"
	"park-with-ease/internal/service"

	"gopkg.in/guregu/null.v4"
)

// swagger:model dto.BookResponse
type BookResponse struct {
	ReservationID int `json:"reservation_id" example:"12"`
	SpotID        int `json:"spot_id" example:"4"`
}

// swagger:model dto.ReleaseResponse
type ReleaseResponse struct {
	Message   string  `json:"message" example:"Released"`
	TotalCost float64 `json:"total_cost" example:"20"`
}

// HistoryItem 進行中的預約 leaving_timestamp 與 total_cost 為 null
// swagger:model dto.HistoryItem
type HistoryItem struct {
	ReservationID    int        `json:"reservation_id"`
	SpotID           null.Int   `json:"spot_id" swaggertype:"integer"`
	LotName          string     `json:"lot_name"`
	ParkingTimestamp time.Time  `json:"parking_timestamp"`
	LeavingTimestamp null.Time  `json:"leaving_timestamp" swaggertype:"string"`
	TotalCost        null.Float `json:"total_cost" swaggertype:"number"`
}

func NewHistoryItem(r model.Reservation) HistoryItem {
	return HistoryItem{
		ReservationID:    r.ID,
		SpotID:           r.SpotID,
		LotName:          r.LotName,
		ParkingTimestamp: r.ParkingTimestamp,
		LeavingTimestamp: r.LeavingTimestamp,
		TotalCost:        r.TotalCost,
	}
}

// swagger:model dto.UserSummaryResponse
type UserSummaryResponse struct {
	TotalBookings         int `json:"total_bookings"`
	ActiveReservations    int `json:"active_reservations"`
	CompletedReservations int `json:"completed_reservations"`
}

func NewUserSummaryResponse(s service.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{
		TotalBookings:         s.TotalBookings,
		ActiveReservations:    s.ActiveReservations,
		CompletedReservations: s.CompletedReservations,
	}
}

// swagger:model dto.ExportResponse
type ExportResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status" example:"started"`
}

// swagger:model dto.ExportStatusResponse
type ExportStatusResponse struct {
	Status   string `json:"status" example:"completed"`
	Filename string `json:"filename,omitempty" example:"user_2_5f1c.csv"`
}

// swagger:model dto.DownloadResponse
type DownloadResponse struct {
	Status   string `json:"status" example:"ready"`
	Download string `json:"download,omitempty" example:"/exports/user_2_5f1c.csv"`
}
