package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"
	"park-with-ease/internal/store"

	"github.com/jackc/pgx/v5"
	"gopkg.in/guregu/null.v4"
)

var (
	withTx             = database.WithTx
	insertLot          = store.CreateLot
	getLot             = store.GetLot
	lockLot            = store.LockLot
	updateLot          = store.UpdateLot
	deleteLot          = store.DeleteLot
	addSpots           = store.AddSpots
	countLotSpots      = store.CountLotSpots
	claimAvailableSpot = store.ClaimAvailableSpot
	lockRemovableSpots = store.LockRemovableSpots
	lockLotSpots       = store.LockLotSpots
	deleteSpots        = store.DeleteSpots
	deleteLotSpots     = store.DeleteLotSpots
	setSpotStatus      = store.SetSpotStatus
	createReservation  = store.CreateReservation
	lockActiveBooking  = store.LockActiveBooking
	finishReservation  = store.FinishReservation
)

// LotInput 為建立或部分更新停車場的欄位，nil 代表未提供。
type LotInput struct {
	PrimeLocationName *string
	Address           *string
	Pincode           *string
	PricePerHour      *float64
	NumberOfSpots     *int
}

type ReleaseResult struct {
	ReservationID    int
	SpotID           int
	LeavingTimestamp time.Time
	TotalCost        float64
}

// Cost 依停留時數計費並四捨五入到小數第二位
func Cost(start, end time.Time, pricePerHour float64) float64 {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours = 0
	}
	return round2(hours * pricePerHour)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// CreateLot 建立停車場並在同一交易中建立所有車位
func CreateLot(ctx context.Context, db database.DB, in LotInput) (*model.ParkingLot, error) {
	if blank(in.PrimeLocationName) || blank(in.Address) || blank(in.Pincode) || in.PricePerHour == nil || in.NumberOfSpots == nil {
		return nil, ValidationError{Msg: "All fields are required"}
	}
	if *in.PricePerHour < 0 {
		return nil, ValidationError{Msg: "Invalid price"}
	}
	if *in.NumberOfSpots <= 0 {
		return nil, ValidationError{Msg: "Number of spots must be > 0"}
	}

	lot := &model.ParkingLot{
		PrimeLocationName: strings.TrimSpace(*in.PrimeLocationName),
		PricePerHour:      *in.PricePerHour,
		Address:           strings.TrimSpace(*in.Address),
		Pincode:           strings.TrimSpace(*in.Pincode),
		NumberOfSpots:     *in.NumberOfSpots,
	}
	err := withTx(ctx, db, func(q database.Querier) error {
		created, err := insertLot(ctx, q, lot)
		if err != nil {
			return err
		}
		lot = created
		return addSpots(ctx, q, lot.ID, lot.NumberOfSpots)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// UpdateLot 部分更新停車場欄位；提供 NumberOfSpots 時依 ResizeLot 規則調整車位
func UpdateLot(ctx context.Context, db database.DB, lotID int, in LotInput) (*model.ParkingLot, error) {
	if in.PricePerHour != nil && *in.PricePerHour < 0 {
		return nil, ValidationError{Msg: "Invalid price"}
	}
	if in.NumberOfSpots != nil && *in.NumberOfSpots <= 0 {
		return nil, ValidationError{Msg: "Number of spots must be > 0"}
	}

	var lot *model.ParkingLot
	err := withTx(ctx, db, func(q database.Querier) error {
		var err error
		lot, err = lockLotOrNotFound(ctx, q, lotID)
		if err != nil {
			return err
		}
		if !blank(in.PrimeLocationName) {
			lot.PrimeLocationName = strings.TrimSpace(*in.PrimeLocationName)
		}
		if !blank(in.Address) {
			lot.Address = strings.TrimSpace(*in.Address)
		}
		if !blank(in.Pincode) {
			lot.Pincode = strings.TrimSpace(*in.Pincode)
		}
		if in.PricePerHour != nil {
			lot.PricePerHour = *in.PricePerHour
		}
		if in.NumberOfSpots != nil {
			if err := resizeLocked(ctx, q, lot, *in.NumberOfSpots); err != nil {
				return err
			}
		}
		return updateLot(ctx, q, lot)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// ResizeLot 調整停車場車位數，縮減時只會刪除空車位
func ResizeLot(ctx context.Context, db database.DB, lotID, newCount int) (*model.ParkingLot, error) {
	if newCount <= 0 {
		return nil, ValidationError{Msg: "Number of spots must be > 0"}
	}
	var lot *model.ParkingLot
	err := withTx(ctx, db, func(q database.Querier) error {
		var err error
		lot, err = lockLotOrNotFound(ctx, q, lotID)
		if err != nil {
			return err
		}
		if err := resizeLocked(ctx, q, lot, newCount); err != nil {
			return err
		}
		return updateLot(ctx, q, lot)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// resizeLocked expects the lot row to be locked by the caller's transaction.
func resizeLocked(ctx context.Context, q database.Querier, lot *model.ParkingLot, newCount int) error {
	current, err := countLotSpots(ctx, q, lot.ID)
	if err != nil {
		return err
	}
	switch {
	case newCount > current:
		if err := addSpots(ctx, q, lot.ID, newCount-current); err != nil {
			return err
		}
	case newCount < current:
		remove := current - newCount
		ids, err := lockRemovableSpots(ctx, q, lot.ID, remove)
		if err != nil {
			return err
		}
		if len(ids) < remove {
			return CapacityError{Msg: "Cannot reduce spots while some are occupied"}
		}
		if err := deleteSpots(ctx, q, ids); err != nil {
			return err
		}
	}
	lot.NumberOfSpots = newCount
	return nil
}

// DeleteLot 刪除停車場與其車位；任何車位佔用中時拒絕
func DeleteLot(ctx context.Context, db database.DB, lotID int) error {
	return withTx(ctx, db, func(q database.Querier) error {
		if _, err := lockLotOrNotFound(ctx, q, lotID); err != nil {
			return err
		}
		spots, err := lockLotSpots(ctx, q, lotID)
		if err != nil {
			return err
		}
		for _, s := range spots {
			if s.Status == model.SpotOccupied {
				return CapacityError{Msg: "Cannot delete, some spots are occupied"}
			}
		}
		if err := deleteLotSpots(ctx, q, lotID); err != nil {
			return err
		}
		return deleteLot(ctx, q, lotID)
	})
}

// Book 為使用者佔用該停車場 id 最小的空車位並建立進行中的預約
func Book(ctx context.Context, db database.DB, lotID, userID int) (*model.Reservation, error) {
	var res *model.Reservation
	err := withTx(ctx, db, func(q database.Querier) error {
		lot, err := getLot(ctx, q, lotID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return NotFoundError{Msg: "Lot not found", Err: err}
			}
			return err
		}
		spotID, err := claimAvailableSpot(ctx, q, lotID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return CapacityError{Msg: "No free spots"}
			}
			return err
		}
		res, err = createReservation(ctx, q, &model.Reservation{
			SpotID:           null.IntFrom(int64(spotID)),
			UserID:           userID,
			LotName:          lot.PrimeLocationName,
			ParkingTimestamp: timeNow().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Release 結束使用者的進行中預約、計算費用並釋放車位
func Release(ctx context.Context, db database.DB, reservationID, userID int) (*ReleaseResult, error) {
	var result *ReleaseResult
	err := withTx(ctx, db, func(q database.Querier) error {
		b, err := lockActiveBooking(ctx, q, reservationID, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return NotFoundError{Msg: "No active booking", Err: err}
			}
			return err
		}
		end := timeNow().UTC()
		cost := Cost(b.ParkingTimestamp, end, b.PricePerHour)
		if err := finishReservation(ctx, q, b.ReservationID, end, cost); err != nil {
			return err
		}
		if err := setSpotStatus(ctx, q, b.SpotID, model.SpotAvailable); err != nil {
			return err
		}
		result = &ReleaseResult{
			ReservationID:    b.ReservationID,
			SpotID:           b.SpotID,
			LeavingTimestamp: end,
			TotalCost:        cost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func lockLotOrNotFound(ctx context.Context, q database.Querier, lotID int) (*model.ParkingLot, error) {
	lot, err := lockLot(ctx, q, lotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundError{Msg: "Lot not found", Err: err}
		}
		return nil, err
	}
	return lot, nil
}
