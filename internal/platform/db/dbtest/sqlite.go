// Package dbtest はアダプターテスト用のインメモリSQLiteを提供します。
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"classmate_backend/internal/domain/entity"
)

// Open はマイグレーション済みのインメモリSQLiteを返します。
// :memory: は接続ごとに別DBになるため、接続数を1に固定します。
func Open(t *testing.T, extraModels ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	models := append([]any{&entity.User{}, &entity.Course{}, &entity.Section{}}, extraModels...)
	require.NoError(t, db.AutoMigrate(models...), "failed to migrate tables")

	return db
}
