package users

import (
	"errors"
	"net/http"

	"park-with-ease/internal/dto"
	"park-with-ease/internal/handler"
	"park-with-ease/internal/queue"
	"park-with-ease/internal/service"

	"github.com/labstack/echo/v4"
)

// ExportCSVHandler 將 CSV 匯出交給背景 worker
// @Summary     Start a CSV export of the booking history
// @Tags        export
// @Produce     json
// @Success     200 {object} dto.ExportResponse
// @Security    ApiKeyAuth
// @Router      /user/export_csv [post]
func ExportCSVHandler(sub queue.Submitter) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return handler.Respond(c, err)
		}
		id, err := sub.Submit(c.Request().Context(), queue.KindExportCSV, user.ID)
		if err != nil {
			return handler.Respond(c, err)
		}
		return c.JSON(http.StatusOK, dto.ExportResponse{TaskID: id, Status: "started"})
	}
}

// exportResult 只回傳屬於目前使用者的匯出工作
func exportResult(c echo.Context, sr queue.StatusReader) (*queue.Result, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	res, err := sr.Status(c.Request().Context(), c.Param("task_id"))
	if err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			return nil, service.NotFoundError{Msg: "Task not found", Err: err}
		}
		return nil, err
	}
	if res.Kind != queue.KindExportCSV || res.UserID != user.ID {
		return nil, service.NotFoundError{Msg: "Task not found"}
	}
	return res, nil
}

// @Summary     Export task status
// @Tags        export
// @Produce     json
// @Param       task_id path     string true "Task ID"
// @Success     200     {object} dto.ExportStatusResponse
// @Failure     404     {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /user/export_status/{task_id} [get]
func ExportStatusHandler(sr queue.StatusReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := exportResult(c, sr)
		if err != nil {
			return handler.Respond(c, err)
		}
		if res.State == queue.StateSuccess {
			return c.JSON(http.StatusOK, dto.ExportStatusResponse{Status: "completed", Filename: res.Filename})
		}
		return c.JSON(http.StatusOK, dto.ExportStatusResponse{Status: string(res.State)})
	}
}

// @Summary     Download link of a finished export
// @Tags        export
// @Produce     json
// @Param       task_id path     string true "Task ID"
// @Success     200     {object} dto.DownloadResponse
// @Failure     404     {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /user/download_csv/{task_id} [get]
func DownloadCSVHandler(sr queue.StatusReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := exportResult(c, sr)
		if err != nil {
			return handler.Respond(c, err)
		}
		if res.State != queue.StateSuccess {
			return c.JSON(http.StatusOK, dto.DownloadResponse{Status: string(res.State)})
		}
		return c.JSON(http.StatusOK, dto.DownloadResponse{Status: "ready", Download: "/exports/" + res.Filename})
	}
}
