package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newFileCtx(e *echo.Echo, name string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/exports/"+name, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/exports/:filename")
	c.SetParamNames("filename")
	c.SetParamValues(name)
	return c, rec
}

func TestExportFileHandler(t *testing.T) {
	e := echo.New()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_1_x.csv"), []byte("ID,Lot\n"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.csv"), 0o755))
	h := ExportFileHandler(dir)

	t.Run("ok", func(t *testing.T) {
		ctx, rec := newFileCtx(e, "user_1_x.csv")
		require.NoError(t, h(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ID,Lot\n", rec.Body.String())
		require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
	})

	for _, name := range []string{"missing.csv", "../secret.csv", ".env.csv", "notes.txt", "folder.csv", ""} {
		t.Run("reject "+name, func(t *testing.T) {
			ctx, rec := newFileCtx(e, name)
			require.NoError(t, h(ctx))
			require.Equal(t, http.StatusNotFound, rec.Code)
			require.Contains(t, rec.Body.String(), "File not found")
		})
	}
}
