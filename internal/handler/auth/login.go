package auth

import (
	"net/http"

	"park-with-ease/internal/database"
	"park-with-ease/internal/dto"
	"park-with-ease/internal/handler"
	"park-with-ease/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	login    = service.Login
	register = service.Register
)

// LoginHandler 使用 Username/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 驗證帳密，回傳 6 小時有效的存取令牌與角色
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.LoginRequest true "帳號密碼"
// @Success     200  {object} dto.LoginResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Router      /login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		if err := c.Bind(&req); err != nil {
			return handler.Respond(c, handler.BindError(err))
		}

		token, user, err := login(c.Request().Context(), db, req.Username, req.Password)
		if err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.LoginResponse{Token: token, Role: string(user.Role)})
	}
}
