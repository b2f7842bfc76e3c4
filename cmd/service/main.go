// @title        Park With Ease API
// @version      1.0
// @description  停車場預約系統的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"park-with-ease/internal/cache"
	"park-with-ease/internal/config"
	"park-with-ease/internal/database"
	"park-with-ease/internal/handler"
	"park-with-ease/internal/logging"
	"park-with-ease/internal/middleware"
	"park-with-ease/internal/queue"
	"park-with-ease/internal/router"
	"park-with-ease/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "park-with-ease/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newLogger       = logging.NewLogger
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackFn      = database.RollbackAll
	ensureAdmin     = service.EnsureAdmin
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownSignal  = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	exitFunc = os.Exit
	cliArgs  = func() []string { return os.Args[1:] }
)

func newEcho(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	return e
}

func run() error {
	fs := flag.NewFlagSet("service", flag.ContinueOnError)
	rollback := fs.Bool("rollback", false, "退回所有 migration 後結束")
	if err := fs.Parse(cliArgs()); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	restoreGlobals := zap.ReplaceGlobals(logger)
	defer restoreGlobals()

	// token 相關函式從環境變數讀取 secret
	if os.Getenv("JWT_SECRET") == "" {
		if err := os.Setenv("JWT_SECRET", cfg.JWTSecret); err != nil {
			return fmt.Errorf("set JWT_SECRET: %w", err)
		}
	}

	if *rollback {
		if err := rollbackFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("Migration 退回失敗: %w", err)
		}
		logger.Info("migrations rolled back")
		return nil
	}

	ctx := context.Background()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	created, err := ensureAdmin(ctx, db, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("建立預設管理員失敗: %w", err)
	}
	if created {
		logger.Info("default admin created", zap.String("username", cfg.Admin.Username))
	}

	rdb, err := newRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	q := queue.NewRedisQueue(rdb, cfg.JobResultTTL)

	e := newEcho(logger)
	router.Setup(e, db, rdb, q, cfg.ExportDir)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	sigCtx, stop := shutdownSignal()
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.HTTPAddr) }()
	logger.Info("http server started", zap.String("addr", cfg.HTTPAddr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-sigCtx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
