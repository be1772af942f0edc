// Package di はアプリケーションの依存関係を組み立てます。
package di

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"classmate_backend/internal/app/router"
	"classmate_backend/internal/domain/entity"
	authadapters "classmate_backend/internal/feature/auth/adapters"
	authhandler "classmate_backend/internal/feature/auth/transport/handler"
	authusecase "classmate_backend/internal/feature/auth/usecase"
	catalogadapters "classmate_backend/internal/feature/catalog/adapters"
	cataloghandler "classmate_backend/internal/feature/catalog/transport/handler"
	catalogusecase "classmate_backend/internal/feature/catalog/usecase"
	classmatesadapters "classmate_backend/internal/feature/classmates/adapters"
	classmateshandler "classmate_backend/internal/feature/classmates/transport/handler"
	classmatesusecase "classmate_backend/internal/feature/classmates/usecase"
	enrollmentadapters "classmate_backend/internal/feature/enrollment/adapters"
	enrollmenthandler "classmate_backend/internal/feature/enrollment/transport/handler"
	enrollmentusecase "classmate_backend/internal/feature/enrollment/usecase"
	profileadapters "classmate_backend/internal/feature/profile/adapters"
	profilehandler "classmate_backend/internal/feature/profile/transport/handler"
	profileusecase "classmate_backend/internal/feature/profile/usecase"
	scanhandler "classmate_backend/internal/feature/schedulescan/transport/handler"
	scanusecase "classmate_backend/internal/feature/schedulescan/usecase"
	"classmate_backend/internal/platform/config"
	"classmate_backend/internal/platform/http/handler"
	jwtmw "classmate_backend/internal/platform/jwt"
	"classmate_backend/internal/shared/ratelimiter"
)

// Models はマイグレーション対象のモデル一覧を返します。
func Models() []any {
	return []any{
		&entity.User{},
		&entity.Course{},
		&entity.Section{},
		&authadapters.RevokedTokenModel{},
	}
}

// Deps はHTTPアプリの組み立てに必要な外部リソースです。
// Redis、Extractor、Recognizerはnilでも動作します。
type Deps struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Extractor  scanusecase.ScheduleExtractor
	Recognizer scanusecase.TextRecognizer
}

// NewRouter はリポジトリ、ユースケース、ハンドラーを組み立ててルーターを返します。
func NewRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	revocations := NewTokenRevocation(deps.Redis, deps.DB)

	// Repository
	userRepo := authadapters.NewUserGorm(deps.DB)
	courseRepo := catalogadapters.NewCourseGorm(deps.DB)
	sectionRepo := catalogadapters.NewSectionGorm(deps.DB)
	membershipRepo := enrollmentadapters.NewMembershipGorm(deps.DB)
	memberRepo := classmatesadapters.NewMemberGorm(deps.DB)
	profileRepo := profileadapters.NewUserGorm(deps.DB)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration), revocations)
	catalogUC := catalogusecase.NewCatalogUsecase(courseRepo, sectionRepo)
	enrollmentUC := enrollmentusecase.NewEnrollmentUsecase(courseRepo, sectionRepo, membershipRepo)
	classmatesUC := classmatesusecase.NewClassmatesUsecase(sectionRepo, memberRepo)
	profileUC := profileusecase.NewProfileUsecase(profileRepo)
	limiter := ratelimiter.NewRateLimiter(cfg.AI.RequestsPerMinute, time.Minute)
	scanUC := scanusecase.NewScanUsecase(deps.Extractor, deps.Recognizer, enrollmentUC, limiter)

	// Handler
	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(sqlDB),
		Auth:       authhandler.NewAuthHandler(authUC),
		Catalog:    cataloghandler.NewCatalogHandler(catalogUC),
		Enrollment: enrollmenthandler.NewEnrollmentHandler(enrollmentUC),
		Classmates: classmateshandler.NewClassmatesHandler(classmatesUC),
		Profile:    profilehandler.NewProfileHandler(profileUC),
		Scan:       scanhandler.NewScanHandler(scanUC),
	}

	return router.NewRouter(handlers, router.Options{
		JWTSecret:      cfg.JWTSecret,
		Revocations:    revocations,
		AllowedOrigins: cfg.AllowedOrigins,
	}), nil
}
