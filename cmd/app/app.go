package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/exhibition-api/internal/api"
	"github.com/vietanh2810/exhibition-api/internal/config"
	"github.com/vietanh2810/exhibition-api/internal/db"
	"github.com/vietanh2810/exhibition-api/internal/logger"
	"github.com/vietanh2810/exhibition-api/internal/notify"
	"github.com/vietanh2810/exhibition-api/internal/service"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Watch(configPath, onConfigChange, func(err error) {
		zap.L().Warn("ignoring invalid config change", zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	notifier, closeNotifier, err := newNotifier(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier -> %w", err)
	}
	defer closeNotifier()

	s := api.NewServer(conf, postgresDB, notifier)

	go s.GateHub.Run(ctx)
	go s.Exhibitions.RunExpirySweep(ctx, conf.Exhibitions.ExpirySweepInterval)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

// newNotifier queues notifications on Redis when redis.addr is set and only
// logs them otherwise.
func newNotifier(ctx context.Context, conf *config.AppConfig) (service.Notifier, func(), error) {
	if conf.Redis.Addr == "" {
		zap.L().Warn("redis.addr is empty, notifications will only be logged")
		return notify.NewLogNotifier(zap.L()), func() {}, nil
	}

	client, err := db.OpenRedis(ctx, conf.Redis)
	if err != nil {
		return nil, nil, err
	}

	notifier := notify.NewRedisNotifier(client, notify.RedisConfig{
		QueueKey:       conf.Redis.QueueKey,
		MaxRetries:     conf.Notifications.MaxRetries,
		InitialBackoff: conf.Notifications.InitialBackoff,
		PushTimeout:    conf.Notifications.PushTimeout,
	})

	return notifier, func() { _ = client.Close() }, nil
}

func onConfigChange(conf *config.AppConfig) {
	if err := logger.SetLevel(conf.Log.Level); err != nil {
		zap.L().Warn("invalid log level in config", zap.String("level", conf.Log.Level), zap.Error(err))
		return
	}
	zap.L().Info("config reloaded", zap.String("log_level", logger.Level().String()))
}
