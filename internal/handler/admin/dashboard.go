package admin

import (
	"net/http"

	"park-with-ease/internal/database"
	"park-with-ease/internal/dto"
	"park-with-ease/internal/handler"
	"park-with-ease/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	dashboardSummary = service.AdminDashboardSummary
	listSpots        = service.ListSpots
	getSpotDetail    = service.GetSpotDetail
	listUsers        = service.ListUsers
	listLots         = service.ListLots
	createLot        = service.CreateLot
	updateLot        = service.UpdateLot
	deleteLot        = service.DeleteLot
)

// DashboardSummaryHandler 管理員總覽
// @Summary     Admin dashboard summary
// @Tags        admin
// @Produce     json
// @Success     200 {object} dto.AdminSummaryResponse
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/dashboard_summary [get]
func DashboardSummaryHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := dashboardSummary(c.Request().Context(), db)
		if err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.NewAdminSummaryResponse(*s))
	}
}

// @Summary     List every spot with its lot name
// @Tags        admin
// @Produce     json
// @Success     200 {array}  dto.SpotResponse
// @Security    ApiKeyAuth
// @Router      /admin/spots [get]
func SpotsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		spots, err := listSpots(c.Request().Context(), db)
		if err != nil {
			return handler.Respond(c, err)
		}
		resp := make([]dto.SpotResponse, 0, len(spots))
		for _, s := range spots {
			resp = append(resp, dto.NewSpotResponse(s))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// SpotDetailHandler 佔用中時附上使用者與停車時數
// @Summary     Spot details
// @Tags        admin
// @Produce     json
// @Param       id  path     int true "Spot ID"
// @Success     200 {object} dto.SpotDetailResponse
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/spot-details/{id} [get]
func SpotDetailHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.IntParam(c, "id", "Spot not found")
		if err != nil {
			return handler.Respond(c, err)
		}
		d, err := getSpotDetail(c.Request().Context(), db, id)
		if err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.NewSpotDetailResponse(*d))
	}
}

// @Summary     List registered users
// @Tags        admin
// @Produce     json
// @Success     200 {array}  dto.UserResponse
// @Security    ApiKeyAuth
// @Router      /admin/users [get]
func UsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return handler.Respond(c, err)
		}
		resp := make([]dto.UserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, dto.NewUserResponse(u))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     List parking lots
// @Tags        admin
// @Produce     json
// @Success     200 {array}  dto.LotResponse
// @Security    ApiKeyAuth
// @Router      /admin/lots [get]
func LotsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		lots, err := listLots(c.Request().Context(), db)
		if err != nil {
			return handler.Respond(c, err)
		}
		resp := make([]dto.LotResponse, 0, len(lots))
		for _, l := range lots {
			resp = append(resp, dto.NewLotResponse(l))
		}
		return c.JSON(http.StatusOK, resp)
	}
}
