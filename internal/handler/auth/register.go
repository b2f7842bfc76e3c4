package auth

import (
	"net/http"

	"park-with-ease/internal/database"
	"park-with-ease/internal/dto"
	"park-with-ease/internal/handler"
	"park-with-ease/internal/service"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 建立一般使用者
// @Summary     註冊使用者
// @Description Email 會轉為小寫；密碼至少 6 碼
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.RegisterRequest true "註冊資料"
// @Success     201  {object} dto.MessageResponse
// @Failure     400  {object} dto.HTTPError
// @Router      /register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return handler.Respond(c, handler.BindError(err))
		}
		if err := c.Validate(&req); err != nil {
			return handler.Respond(c, handler.ValidateError(err))
		}

		_, err := register(c.Request().Context(), db, service.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Registered"})
	}
}
