// Package router はHTTPルーティングを組み立てます。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "classmate_backend/internal/feature/auth/transport/handler"
	cataloghandler "classmate_backend/internal/feature/catalog/transport/handler"
	classmateshandler "classmate_backend/internal/feature/classmates/transport/handler"
	enrollmenthandler "classmate_backend/internal/feature/enrollment/transport/handler"
	profilehandler "classmate_backend/internal/feature/profile/transport/handler"
	scanhandler "classmate_backend/internal/feature/schedulescan/transport/handler"
	"classmate_backend/internal/platform/http/handler"
	jwtmw "classmate_backend/internal/platform/jwt"
	"classmate_backend/internal/platform/validation"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *authhandler.AuthHandler
	Catalog    *cataloghandler.CatalogHandler
	Enrollment *enrollmenthandler.EnrollmentHandler
	Classmates *classmateshandler.ClassmatesHandler
	Profile    *profilehandler.ProfileHandler
	Scan       *scanhandler.ScanHandler
}

// Options は認証とCORSの設定です。
type Options struct {
	JWTSecret      string
	Revocations    jwtmw.RevocationChecker
	AllowedOrigins []string
}

// NewRouter はルートを登録したgin.Engineを返します。
func NewRouter(h Handlers, opts Options) *gin.Engine {
	validation.MustRegister()

	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Live)
	r.HEAD("/healthz", h.Health.Live)
	r.GET("/readyz", h.Health.Ready)
	// 新規ユーザー登録
	r.POST("/api/register", h.Auth.Register)
	// ログイン（JWT 発行）
	r.POST("/api/login", h.Auth.Login)

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	api := r.Group("/api")
	api.Use(jwtmw.AuthRequired(opts.JWTSecret, opts.Revocations))
	{
		api.POST("/logout", h.Auth.Logout)

		api.GET("/profile", h.Profile.Get)
		api.PUT("/profile", h.Profile.Update)
		api.GET("/profile/sections", h.Enrollment.ListMySections)

		api.GET("/courses", h.Catalog.ListCourses)
		api.POST("/courses/upsert-batch", h.Enrollment.UpsertBatch)
		api.POST("/sections", h.Catalog.CreateSection)
		api.POST("/sections/:id/enroll", h.Enrollment.Enroll)
		api.POST("/sections/:id/unenroll", h.Enrollment.Unenroll)
		api.GET("/sections/:id/classmates", h.Classmates.List)

		api.POST("/schedule/scan", h.Scan.Scan)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
