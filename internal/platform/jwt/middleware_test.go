package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockRevocationChecker はRevocationCheckerのモック実装です。
type mockRevocationChecker struct {
	IsRevokedFunc func(ctx context.Context, tokenID string) (bool, error)
	Calls         int
}

func (m *mockRevocationChecker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.Calls++
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, tokenID)
	}
	return false, nil
}

// runMiddleware はテスト用のコンテキストでミドルウェアを1回実行します。
func runMiddleware(t *testing.T, handler gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	handler(c)
	return w, c
}

// TestAuthRequired_MissingBearerToken はBearerトークンがない場合やプレフィックスが不正な場合に401が返されることを検証します。
func TestAuthRequired_MissingBearerToken(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase", "bearer token123"},
		{"no space after Bearer", "Bearertoken123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runMiddleware(t, AuthRequired("test-secret", nil), tt.authHeader)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted(), "expected request to be aborted")
		})
	}
}

// TestAuthRequired_MissingJWTSecret はシークレット未設定の場合に500が返されることを検証します。
func TestAuthRequired_MissingJWTSecret(t *testing.T) {
	w, _ := runMiddleware(t, AuthRequired("", nil), "Bearer sometoken")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// TestAuthRequired_InvalidToken は不正なトークン（改ざん・期限切れ等）で401が返されることを検証します。
func TestAuthRequired_InvalidToken(t *testing.T) {
	const testSecret = "test-secret-key-for-invalid"

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", createTokenWithSecret("wrong-secret", 1, time.Hour)},
		{"expired token", createTokenWithSecret(testSecret, 1, -time.Hour)},
		{"missing subject", createTokenWithClaims(testSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"missing exp", createTokenWithClaims(testSecret, jwt.MapClaims{"sub": float64(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runMiddleware(t, AuthRequired(testSecret, nil), "Bearer "+tt.token)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

// TestAuthRequired_ValidToken は有効なトークンでリクエストが通過し、コンテキストにユーザーIDが設定されることを検証します。
func TestAuthRequired_ValidToken(t *testing.T) {
	const testSecret = "test-secret-key-for-valid"

	tests := []struct {
		name   string
		userID uint
	}{
		{"user id 1", 1},
		{"user id 42", 42},
		{"user id 999", 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := NewGenerator(testSecret, time.Hour).GenerateToken(tt.userID, "test@example.com")
			require.NoError(t, err)

			w, c := runMiddleware(t, AuthRequired(testSecret, nil), "Bearer "+token)
			require.False(t, c.IsAborted(), "response: %s", w.Body.String())

			userID, ok := UserID(c)
			require.True(t, ok, "expected userID to be set in context")
			assert.Equal(t, tt.userID, userID)

			tokenID, exp := TokenInfo(c)
			assert.NotEmpty(t, tokenID)
			assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
		})
	}
}

// TestAuthRequired_InvalidSigningMethod はnoneアルゴリズム（未署名）のトークンが拒否されることを検証します。
func TestAuthRequired_InvalidSigningMethod(t *testing.T) {
	const testSecret = "test-secret-key-for-signing"

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": float64(1),
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	tokenStr, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

	w, _ := runMiddleware(t, AuthRequired(testSecret, nil), "Bearer "+tokenStr)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthRequired_Revocation は失効済みトークンの拒否と、失効確認エラー時の500を検証します。
func TestAuthRequired_Revocation(t *testing.T) {
	const testSecret = "test-secret-key-for-revocation"
	token, err := NewGenerator(testSecret, time.Hour).GenerateToken(7, "r@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		checkFunc  func(ctx context.Context, tokenID string) (bool, error)
		wantStatus int
		wantAbort  bool
	}{
		{
			name:       "success: not revoked",
			checkFunc:  func(ctx context.Context, tokenID string) (bool, error) { return false, nil },
			wantStatus: http.StatusOK,
		},
		{
			name:       "failure: revoked",
			checkFunc:  func(ctx context.Context, tokenID string) (bool, error) { return true, nil },
			wantStatus: http.StatusUnauthorized,
			wantAbort:  true,
		},
		{
			name:       "failure: store unavailable",
			checkFunc:  func(ctx context.Context, tokenID string) (bool, error) { return false, errors.New("redis down") },
			wantStatus: http.StatusInternalServerError,
			wantAbort:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &mockRevocationChecker{IsRevokedFunc: tt.checkFunc}

			w, c := runMiddleware(t, AuthRequired(testSecret, checker), "Bearer "+token)

			assert.Equal(t, 1, checker.Calls)
			assert.Equal(t, tt.wantAbort, c.IsAborted())
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestUserID_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := UserID(c)
	assert.False(t, ok)

	_, err := CurrentUserID(c)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	c.Set(ContextUserID, uint(5))
	id, err := CurrentUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint(5), id)
}

// createTokenWithSecret はテスト用に指定されたシークレットとユーザーIDで署名済みJWTトークンを生成します。
func createTokenWithSecret(secret string, userID uint, expiration time.Duration) string {
	return createTokenWithClaims(secret, jwt.MapClaims{
		"sub":   float64(userID),
		"exp":   time.Now().Add(expiration).Unix(),
		"iat":   time.Now().Unix(),
		"email": "test@example.com",
	})
}

func createTokenWithClaims(secret string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(secret))
	return signed
}
