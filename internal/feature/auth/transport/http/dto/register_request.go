// Package dto はauthフィーチャーのリクエスト/レスポンス型を定義します。
package dto

// RegisterRequest は POST /api/register の本文です。
type RegisterRequest struct {
	Name     string `json:"name" binding:"notblank,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// RegisterResponse は登録成功時のレスポンスです。
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}
