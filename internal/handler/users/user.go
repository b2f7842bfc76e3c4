package users

import (
	"net/http"

	"park-with-ease/internal/database"
	"park-with-ease/internal/dto"
	"park-with-ease/internal/handler"
	"park-with-ease/internal/middleware"
	"park-with-ease/internal/model"
	"park-with-ease/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	listLotsWithAvailability = service.ListLotsWithAvailability
	book                     = service.Book
	release                  = service.Release
	userHistory              = service.UserHistory
	userSummary              = service.UserDashboardSummary
)

// currentUser 取得 RequireAuth 放入的使用者
func currentUser(c echo.Context) (*model.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, service.AuthError{Msg: "Token missing"}
	}
	return u, nil
}

// LotsHandler 列出停車場與目前空位數
// @Summary     List lots with availability
// @Tags        user
// @Produce     json
// @Success     200 {array}  dto.LotAvailabilityResponse
// @Failure     401 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /user/lots [get]
func LotsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		lots, err := listLotsWithAvailability(c.Request().Context(), db)
		if err != nil {
			return handler.Respond(c, err)
		}
		resp := make([]dto.LotAvailabilityResponse, 0, len(lots))
		for _, l := range lots {
			resp = append(resp, dto.NewLotAvailabilityResponse(l))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// BookHandler 佔用停車場中的一個空車位
// @Summary     Book a spot
// @Tags        user
// @Produce     json
// @Param       lot_id path     int true "Lot ID"
// @Success     200    {object} dto.BookResponse
// @Failure     400    {object} dto.HTTPError
// @Failure     404    {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /user/book/{lot_id} [post]
func BookHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return handler.Respond(c, err)
		}
		lotID, err := handler.IntParam(c, "lot_id", "Lot not found")
		if err != nil {
			return handler.Respond(c, err)
		}
		res, err := book(c.Request().Context(), db, lotID, user.ID)
		if err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.BookResponse{ReservationID: res.ID, SpotID: int(res.SpotID.Int64)})
	}
}

// ReleaseHandler 結束預約並回傳費用
// @Summary     Release a reservation
// @Tags        user
// @Produce     json
// @Param       reservation_id path     int true "Reservation ID"
// @Success     200            {object} dto.ReleaseResponse
// @Failure     404            {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /user/release/{reservation_id} [post]
func ReleaseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return handler.Respond(c, err)
		}
		resID, err := handler.IntParam(c, "reservation_id", "No active booking")
		if err != nil {
			return handler.Respond(c, err)
		}
		r, err := release(c.Request().Context(), db, resID, user.ID)
		if err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.ReleaseResponse{Message: "Released", TotalCost: r.TotalCost})
	}
}

// @Summary     Reservation history of the current user
// @Tags        user
// @Produce     json
// @Success     200 {array} dto.HistoryItem
// @Security    ApiKeyAuth
// @Router      /user/history [get]
func HistoryHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return handler.Respond(c, err)
		}
		rows, err := userHistory(c.Request().Context(), db, user.ID)
		if err != nil {
			return handler.Respond(c, err)
		}
		resp := make([]dto.HistoryItem, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, dto.NewHistoryItem(r))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Booking counters of the current user
// @Tags        user
// @Produce     json
// @Success     200 {object} dto.UserSummaryResponse
// @Security    ApiKeyAuth
// @Router      /user/dashboard_summary [get]
func DashboardSummaryHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return handler.Respond(c, err)
		}
		s, err := userSummary(c.Request().Context(), db, user.ID)
		if err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.NewUserSummaryResponse(*s))
	}
}
