package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"classmate_backend/internal/app/di"
	"classmate_backend/internal/platform/config"
	"classmate_backend/internal/platform/db"
	"classmate_backend/internal/platform/logging"
	"classmate_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run はサーバーを起動し、シグナルを受けるまでブロックします。
// 戻る前にdeferで登録した後処理（DBクローズ、Sentryのフラッシュなど）がすべて実行されます。
func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.LogLevel)
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Sentry（DSN未設定なら無効）
	if cfg.SentryDSN != "" {
		sentryErr := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		})
		if sentryErr != nil {
			slog.Error("sentry init failed", "error", sentryErr)
		} else {
			defer func() {
				// 起動失敗もSentryに送ってからフラッシュする
				if err != nil {
					sentry.CaptureException(err)
				}
				sentry.Flush(2 * time.Second)
			}()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gormDB, err := db.OpenDB(db.LoadConfigFromEnv())
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	if cfg.RunMigrations {
		if err := db.Migrate(gormDB, di.Models()...); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// Redis（任意。使えなければSQLで失効トークンを管理）
	var rdb *redisv9.Client
	if cfg.Redis.Host != "" {
		if tmp, err := redis.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password); err != nil {
			slog.Warn("Redis unavailable, falling back to SQL token revocation")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// AI（時間割スキャン）
	extractor, err := di.NewScheduleExtractor(ctx, cfg.AI)
	if err != nil {
		slog.Warn("schedule scanning disabled", "provider", cfg.AI.Provider, "error", err)
	}
	recognizer, closeRecognizer, err := di.NewTextRecognizer(ctx, cfg.AI)
	if err != nil {
		slog.Warn("vision OCR disabled", "error", err)
	}
	defer closeRecognizer()

	engine, err := di.NewRouter(cfg, di.Deps{
		DB:         gormDB,
		Redis:      rdb,
		Extractor:  extractor,
		Recognizer: recognizer,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "ai_provider", cfg.AI.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
