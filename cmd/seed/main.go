package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"classmate_backend/internal/app/di"
	catalogadapters "classmate_backend/internal/feature/catalog/adapters"
	catalogusecase "classmate_backend/internal/feature/catalog/usecase"
	"classmate_backend/internal/platform/db"
	"classmate_backend/internal/platform/logging"
)

func main() {
	// seedはJWTなどのサーバー設定を必要としない
	logging.Setup(os.Getenv("LOG_LEVEL"))

	gormDB, err := db.OpenDB(db.LoadConfigFromEnv())
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB, di.Models()...); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	uc := catalogusecase.NewCatalogUsecase(catalogadapters.NewCourseGorm(gormDB), catalogadapters.NewSectionGorm(gormDB))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	created, err := uc.SeedCourses(ctx, catalogusecase.DefaultCourses)
	if err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed ok", "created", created, "total", len(catalogusecase.DefaultCourses))
}
