// Command worker 消費 Redis 佇列中的背景工作並定期排程提醒信。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"park-with-ease/internal/cache"
	"park-with-ease/internal/config"
	"park-with-ease/internal/jobs"
	"park-with-ease/internal/jobstore"
	"park-with-ease/internal/logging"
	"park-with-ease/internal/mail"
	"park-with-ease/internal/queue"
	"park-with-ease/internal/worker"

	"go.uber.org/zap"
)

var (
	loadConfig     = config.Load
	newLogger      = logging.NewLogger
	openJobStore   = jobstore.Open
	newRedisClient = cache.NewRedisClient
	newWorkerPool  = worker.NewPool
	shutdownSignal = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	exitFunc = os.Exit
)

func run() error {
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

	ctx := context.Background()

	store, err := openJobStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer store.Close()

	rdb, err := newRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	q := queue.NewRedisQueue(rdb, cfg.JobResultTTL)
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		SSL:      cfg.Mail.SSL,
	})

	jobLog := logger.Named("jobs")
	// pool 使用獨立 context，收到訊號時讓執行中的工作跑完
	pool := newWorkerPool(context.Background(), cfg.WorkerCount)
	defer pool.Stop()

	runner := &jobs.Runner{
		Queue:    q,
		Pool:     pool,
		Reminder: &jobs.Reminder{Store: store, Mailer: mailer, Logger: jobLog},
		Exporter: &jobs.Exporter{
			Store:   store,
			Mailer:  mailer,
			Logger:  jobLog,
			Dir:     cfg.ExportDir,
			BaseURL: cfg.PublicBaseURL,
		},
		Logger:  jobLog,
		Timeout: cfg.JobTimeout,
	}

	sigCtx, stop := shutdownSignal()
	defer stop()

	go jobs.ScheduleReminders(sigCtx, cfg.ReminderInterval, q, logger.Named("scheduler"))

	logger.Info("worker started",
		zap.Int("workers", cfg.WorkerCount),
		zap.Duration("reminder_interval", cfg.ReminderInterval),
	)
	if err := runner.Run(sigCtx); err != nil {
		return err
	}
	logger.Info("worker stopping")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
