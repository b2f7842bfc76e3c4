package service

import (
	"context"
	"time"

	"park-with-ease/internal/database"
	"park-with-ease/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
	validate = validator.New()

	getUserByID = store.GetUserByID
	getUserByUsername = store.GetUserByUsername
	usernameTaken = store.UsernameTaken
	emailTaken = store.EmailTaken
	adminExists = store.AdminExists
	createUser = store.CreateUser

	withTx = database.WithTx
	insertLot = store.CreateLot
	getLot = store.GetLot
	lockLot = store.LockLot
	updateLot = store.UpdateLot
	deleteLot = store.DeleteLot
	addSpots = store.AddSpots
	countLotSpots = store.CountLotSpots
	claimAvailableSpot = store.ClaimAvailableSpot
	lockRemovableSpots = store.LockRemovableSpots
	lockLotSpots = store.LockLotSpots
	deleteSpots = store.DeleteSpots
	deleteLotSpots = store.DeleteLotSpots
	setSpotStatus = store.SetSpotStatus
	createReservation = store.CreateReservation
	lockActiveBooking = store.LockActiveBooking
	finishReservation = store.FinishReservation

	countLots = store.CountLots
	countSpots = store.CountSpots
	countUsersByRole = store.CountUsersByRole
	listSpotSummaries = store.ListSpotSummaries
	getSpot = store.GetSpot
	getSpotOccupant = store.GetSpotOccupant
	listUsersByRole = store.ListUsersByRole
	listLots = store.ListLots
	listLotsWithAvailability = store.ListLotsWithAvailability
	listReservationsByUser = store.ListReservationsByUser
	countUserReservations = store.CountUserReservations
}

// txDB returns a FakeDB whose transactions are recorded in the returned slice.
func txDB() (*database.FakeDB, *[]*database.FakeTx) {
	txs := []*database.FakeTx{}
	db := &database.FakeDB{}
	db.BeginFn = func(context.Context) (pgx.Tx, error) {
		tx := &database.FakeTx{DB: db}
		txs = append(txs, tx)
		return tx, nil
	}
	return db, &txs
}

func ptr[T any](v T) *T { return &v }
