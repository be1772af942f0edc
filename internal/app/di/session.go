package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "classmate_backend/internal/feature/auth/adapters"
	authusecase "classmate_backend/internal/feature/auth/usecase"
	jwtmw "classmate_backend/internal/platform/jwt"
	"classmate_backend/internal/platform/session"
)

// TokenRevocation はログアウト済みトークンの記録と照会をまとめたストアです。
type TokenRevocation interface {
	authusecase.TokenRevoker
	jwtmw.RevocationChecker
}

// NewTokenRevocation はTokenRevocationの実装を生成します。
// Redisが利用可能な場合はRedis実装を返し、そうでなければSQLにフォールバックします。
func NewTokenRevocation(rdb *redis.Client, db *gorm.DB) TokenRevocation {
	if rdb != nil {
		return session.NewTokenRevocationRedis(rdb, "")
	}
	return authadapters.NewRevokedTokenGorm(db)
}
