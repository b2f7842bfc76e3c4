package dto

import (
	"time"

	"park-with-ease/internal/model"
	"park-with-ease/internal/service"
	"park-with-ease/internal/store"
)

// swagger:model dto.AdminSummaryResponse
type AdminSummaryResponse struct {
	TotalLots       int `json:"total_lots"`
	TotalSpots      int `json:"total_spots"`
	AvailableSpots  int `json:"available_spots"`
	OccupiedSpots   int `json:"occupied_spots"`
	RegisteredUsers int `json:"registered_users"`
}

func NewAdminSummaryResponse(s service.AdminSummary) AdminSummaryResponse {
	return AdminSummaryResponse{
		TotalLots:       s.TotalLots,
		TotalSpots:      s.TotalSpots,
		AvailableSpots:  s.AvailableSpots,
		OccupiedSpots:   s.OccupiedSpots,
		RegisteredUsers: s.RegisteredUsers,
	}
}

// SpotResponse 的 status 為資料庫原始代碼 A / O
// swagger:model dto.SpotResponse
type SpotResponse struct {
	ID      int    `json:"id"`
	LotName string `json:"lot_name"`
	Status  string `json:"status" example:"A"`
}

func NewSpotResponse(s store.SpotSummary) SpotResponse {
	return SpotResponse{ID: s.ID, LotName: s.LotName, Status: string(s.Status)}
}

type SpotUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SpotReservation struct {
	StartTime     time.Time `json:"start_time"`
	DurationHours float64   `json:"duration_hours"`
}

// swagger:model dto.SpotDetailResponse
type SpotDetailResponse struct {
	Status      string           `json:"status" example:"Occupied"`
	User        *SpotUser        `json:"user,omitempty"`
	Reservation *SpotReservation `json:"reservation,omitempty"`
}

func NewSpotDetailResponse(d service.SpotDetail) SpotDetailResponse {
	resp := SpotDetailResponse{Status: d.Status.Label()}
	if d.Occupancy != nil {
		resp.User = &SpotUser{Username: d.Occupancy.Username, Email: d.Occupancy.Email}
		resp.Reservation = &SpotReservation{StartTime: d.Occupancy.StartTime, DurationHours: d.Occupancy.DurationHours}
	}
	return resp
}

// swagger:model dto.UserResponse
type UserResponse struct {
	ID       int    `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}
