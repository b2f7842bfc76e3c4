package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"
	"park-with-ease/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBearerToken(t *testing.T) {
	ctx, _ := newContext("")
	require.Equal(t, "", bearerToken(ctx))

	ctx, _ = newContext("BadHeader")
	require.Equal(t, "", bearerToken(ctx))

	ctx, _ = newContext("Basic abc")
	require.Equal(t, "", bearerToken(ctx))

	ctx, _ = newContext("bearer  tok ")
	require.Equal(t, "tok", bearerToken(ctx))
}

func TestRequireAuth(t *testing.T) {
	t.Cleanup(func() { authenticate = service.Authenticate })
	db := &database.FakeDB{}

	authenticate = func(_ context.Context, q database.Querier, token string) (*model.User, error) {
		require.Equal(t, db, q)
		if token != "good" {
			return nil, service.AuthError{Msg: "Invalid or expired token"}
		}
		return &model.User{ID: 2, Role: model.RoleUser}, nil
	}

	// success path
	ctx, rec := newContext("Bearer good")
	called := false
	h := RequireAuth(db)(func(c echo.Context) error {
		called = true
		require.Equal(t, 2, CurrentUser(c).ID)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// invalid token
	ctx, _ = newContext("Bearer bad")
	called = false
	err := RequireAuth(db)(func(echo.Context) error { called = true; return nil })(ctx)
	require.True(t, service.IsAuth(err))
	require.False(t, called)
}

func TestRequireAuthMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	ctx, _ := newContext("")
	err := RequireAuth(&database.FakeDB{})(func(echo.Context) error { return nil })(ctx)
	require.EqualError(t, err, "Token missing")
}

func TestRequireAdmin(t *testing.T) {
	// admin ok
	ctx, rec := newContext("")
	ctx.Set(ContextUserKey, &model.User{ID: 3, Role: model.RoleAdmin})
	called := false
	err := RequireAdmin(func(c echo.Context) error { called = true; return c.String(http.StatusOK, "admin") })(ctx)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// non-admin should fail
	ctx, _ = newContext("")
	ctx.Set(ContextUserKey, &model.User{ID: 4, Role: model.RoleUser})
	called = false
	err = RequireAdmin(func(c echo.Context) error { called = true; return nil })(ctx)
	require.True(t, service.IsForbidden(err))
	require.False(t, called)

	// no user at all
	ctx, _ = newContext("")
	err = RequireAdmin(func(c echo.Context) error { return nil })(ctx)
	require.True(t, service.IsForbidden(err))
}

func TestCurrentUser(t *testing.T) {
	ctx, _ := newContext("")
	require.Nil(t, CurrentUser(ctx))
	ctx.Set(ContextUserKey, "not a user")
	require.Nil(t, CurrentUser(ctx))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error {
		c.Set(ContextUserKey, &model.User{ID: 9})
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/fail", func(c echo.Context) error { return errors.New("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, int64(9), entries[0].ContextMap()["user_id"])
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
