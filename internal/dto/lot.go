package dto

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"park-with-ease/internal/model"
	"park-with-ease/internal/store"
)

// LotRequest 建立/更新停車場；數值欄位接受 number 或 numeric string。
// swagger:model dto.LotRequest
type LotRequest struct {
	PrimeLocationName any `json:"prime_location_name" swaggertype:"string" example:"Central Plaza"`
	PricePerHour      any `json:"price_per_hour" swaggertype:"number" example:"10"`
	Address           any `json:"address" swaggertype:"string" example:"1 Main Street"`
	Pincode           any `json:"pincode" swaggertype:"string" example:"560001"`
	NumberOfSpots     any `json:"number_of_spots" swaggertype:"integer" example:"3"`
}

// Text returns nil for a missing, null or empty value.
func Text(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		s = fmt.Sprint(t)
	}
	if s == "" {
		return nil
	}
	return &s
}

// Float parses a JSON number or numeric string; nil means absent.
func Float(v any) (*float64, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &t, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("not a number: %q", t)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("not a number: %v", t)
	}
}

// Int 與 Float 相同，但 JSON number 的小數部分直接捨去
func Int(v any) (*int, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || math.Abs(t) > math.MaxInt32 {
			return nil, fmt.Errorf("not an integer: %v", t)
		}
		n := int(t)
		return &n, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", t)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("not an integer: %v", t)
	}
}

// swagger:model dto.LotResponse
type LotResponse struct {
	ID                int     `json:"id" example:"1"`
	PrimeLocationName string  `json:"prime_location_name" example:"Central Plaza"`
	PricePerHour      float64 `json:"price_per_hour" example:"10"`
	Address           string  `json:"address" example:"1 Main Street"`
	Pincode           string  `json:"pincode" example:"560001"`
	NumberOfSpots     int     `json:"number_of_spots" example:"3"`
}

func NewLotResponse(l model.ParkingLot) LotResponse {
	return LotResponse{
		ID:                l.ID,
		PrimeLocationName: l.PrimeLocationName,
		PricePerHour:      l.PricePerHour,
		Address:           l.Address,
		Pincode:           l.Pincode,
		NumberOfSpots:     l.NumberOfSpots,
	}
}

// swagger:model dto.LotAvailabilityResponse
type LotAvailabilityResponse struct {
	ID                int     `json:"id" example:"1"`
	PrimeLocationName string  `json:"prime_location_name" example:"Central Plaza"`
	PricePerHour      float64 `json:"price_per_hour" example:"10"`
	Address           string  `json:"address" example:"1 Main Street"`
	Pincode           string  `json:"pincode" example:"560001"`
	TotalSpots        int     `json:"total_spots" example:"3"`
	AvailableSpots    int     `json:"available_spots" example:"2"`
}

func NewLotAvailabilityResponse(l store.LotAvailability) LotAvailabilityResponse {
	return LotAvailabilityResponse{
		ID:                l.ID,
		PrimeLocationName: l.PrimeLocationName,
		PricePerHour:      l.PricePerHour,
		Address:           l.Address,
		Pincode:           l.Pincode,
		TotalSpots:        l.TotalSpots,
		AvailableSpots:    l.AvailableSpots,
	}
}
