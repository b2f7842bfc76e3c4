package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"park-with-ease/internal/dto"
	"park-with-ease/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

// ErrorStatus 將錯誤對應到 HTTP status 與回傳訊息
func ErrorStatus(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case service.IsForbidden(err):
		return http.StatusForbidden, err.Error()
	case service.IsAuth(err):
		return http.StatusUnauthorized, err.Error()
	case service.IsNotFound(err):
		return http.StatusNotFound, err.Error()
	case service.IsValidation(err), service.IsCapacity(err):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &he):
		if he.Code >= http.StatusInternalServerError {
			return he.Code, internalErrorMessage
		}
		return he.Code, fmt.Sprint(he.Message)
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// Respond 以 {"error": ...} 格式回傳錯誤；500 會記錄原始錯誤
func Respond(c echo.Context, err error) error {
	status, msg := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.JSON(status, dto.HTTPError{Message: msg})
}

// HTTPErrorHandler 處理 middleware 與 echo 本身回傳的錯誤
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		status, _ := ErrorStatus(err)
		_ = c.NoContent(status)
		return
	}
	_ = Respond(c, err)
}

// BindError wraps a request decoding failure.
func BindError(err error) error {
	return service.ValidationError{Msg: "Invalid request body", Err: err}
}

// ValidateError 將 validator 的錯誤轉成單一訊息
func ValidateError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "max" {
			return service.ValidationError{Msg: fmt.Sprintf("%s is too long", fe.Field()), Err: err}
		}
		return service.ValidationError{Msg: fmt.Sprintf("%s is invalid", fe.Field()), Err: err}
	}
	return service.ValidationError{Msg: err.Error(), Err: err}
}

// IntParam 解析路徑參數；非整數或超出 INTEGER 欄位範圍視同找不到資源
func IntParam(c echo.Context, name, notFound string) (int, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || v <= 0 {
		return 0, service.NotFoundError{Msg: notFound}
	}
	return int(v), nil
}
