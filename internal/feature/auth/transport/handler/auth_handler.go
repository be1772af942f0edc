// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"classmate_backend/internal/feature/auth/transport/http/dto"
	"classmate_backend/internal/platform/http/response"
	jwtmw "classmate_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、そのIDを返します。
	Register(ctx context.Context, name, email, password string) (uint, error)
	// Login はユーザーを認証し、成功時にJWTトークンを返します。
	Login(ctx context.Context, email, password string) (string, error)
	// Logout はトークンを失効させます。
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400
// - メール重複時は409
// - 成功時は201とユーザーIDを返却（トークンは発行しない）
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	userID, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("user registered", "user_id", userID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.RegisterResponse{Message: "User registered successfully", UserID: userID})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400
// - 認証失敗時は401（ユーザー列挙を防ぐため理由は区別しない）
// - 成功時はJWTトークン付きで200
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("user login successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Logout は呼び出し元のトークンを失効させます。何度呼んでも200を返します。
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, expiresAt := jwtmw.TokenInfo(c)
	if err := h.auth.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "logged out"})
}
