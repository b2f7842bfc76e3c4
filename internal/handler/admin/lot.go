package admin

import (
	"net/http"

	"park-with-ease/internal/database"
	"park-with-ease/internal/dto"
	"park-with-ease/internal/handler"
	"park-with-ease/internal/service"

	"github.com/labstack/echo/v4"
)

// CreateLotHandler 建立停車場與車位
// @Summary     Create a parking lot
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       body body     dto.LotRequest true "停車場資料"
// @Success     201  {object} dto.MessageResponse
// @Failure     400  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/create_lot [post]
func CreateLotHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LotRequest
		if err := c.Bind(&req); err != nil {
			return handler.Respond(c, handler.BindError(err))
		}

		in := service.LotInput{
			PrimeLocationName: dto.Text(req.PrimeLocationName),
			Address:           dto.Text(req.Address),
			Pincode:           dto.Text(req.Pincode),
		}
		var perr, serr error
		in.PricePerHour, perr = dto.Float(req.PricePerHour)
		in.NumberOfSpots, serr = dto.Int(req.NumberOfSpots)
		if perr != nil || serr != nil {
			// 缺欄位優先於格式錯誤
			if in.PrimeLocationName == nil || in.Address == nil || in.Pincode == nil {
				return handler.Respond(c, service.ValidationError{Msg: "All fields are required"})
			}
			return handler.Respond(c, service.ValidationError{Msg: "Price and spots must be numeric"})
		}

		if _, err := createLot(c.Request().Context(), db, in); err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Lot created"})
	}
}

// UpdateLotHandler 部分更新；number_of_spots 變動時會增減空車位
// @Summary     Update a parking lot
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       id   path     int            true "Lot ID"
// @Param       body body     dto.LotRequest true "要更新的欄位"
// @Success     200  {object} dto.MessageResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/update_lot/{id} [put]
func UpdateLotHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.IntParam(c, "id", "Lot not found")
		if err != nil {
			return handler.Respond(c, err)
		}
		var req dto.LotRequest
		if err := c.Bind(&req); err != nil {
			return handler.Respond(c, handler.BindError(err))
		}

		in := service.LotInput{
			PrimeLocationName: dto.Text(req.PrimeLocationName),
			Address:           dto.Text(req.Address),
			Pincode:           dto.Text(req.Pincode),
		}
		if in.PricePerHour, err = dto.Float(req.PricePerHour); err != nil {
			return handler.Respond(c, service.ValidationError{Msg: "Invalid price", Err: err})
		}
		if in.NumberOfSpots, err = dto.Int(req.NumberOfSpots); err != nil {
			return handler.Respond(c, service.ValidationError{Msg: "Invalid spots value", Err: err})
		}

		if _, err := updateLot(c.Request().Context(), db, id, in); err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Lot updated"})
	}
}

// @Summary     Delete a parking lot
// @Description 任何車位佔用中時回傳 400
// @Tags        admin
// @Produce     json
// @Param       id  path     int true "Lot ID"
// @Success     200 {object} dto.MessageResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/delete_lot/{id} [delete]
func DeleteLotHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.IntParam(c, "id", "Lot not found")
		if err != nil {
			return handler.Respond(c, err)
		}
		if err := deleteLot(c.Request().Context(), db, id); err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Lot deleted"})
	}
}
