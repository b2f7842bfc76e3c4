package handler

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"park-with-ease/internal/service"

	"github.com/labstack/echo/v4"
)

// ExportFileHandler 以附件下載已產生的 CSV
// @Summary     Download an exported CSV
// @Tags        export
// @Produce     text/csv
// @Param       filename path string true "匯出檔名"
// @Success     200
// @Failure     404 {object} dto.HTTPError
// @Router      /exports/{filename} [get]
func ExportFileHandler(dir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.Param("filename")
		if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".csv" {
			return Respond(c, service.NotFoundError{Msg: "File not found"})
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Respond(c, service.NotFoundError{Msg: "File not found", Err: err})
			}
			return Respond(c, err)
		}
		if info.IsDir() {
			return Respond(c, service.NotFoundError{Msg: "File not found"})
		}
		return c.Attachment(path, name)
	}
}
