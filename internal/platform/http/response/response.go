// Package response はハンドラー共通のJSONエラーレスポンスを提供します。
package response

import (
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"classmate_backend/internal/platform/apperror"
	"classmate_backend/internal/platform/validation"
)

// ErrorResponse はすべてのエラーレスポンスの形式です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は本文を持たない成功レスポンスの形式です。
type MessageResponse struct {
	Message string `json:"message"`
}

// Error はエラーをHTTPステータスへ変換してJSONで返します。
// 5xxはslogでエラーログを出し、Sentryへ送信します（SENTRY_DSN未設定時は何もしません）。
func Error(c *gin.Context, err error) {
	status := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"status", status,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
		captureException(c, err)
	} else {
		slog.Warn("request rejected",
			"error", err,
			"status", status,
			"path", c.FullPath(),
			"remote_addr", c.ClientIP(),
		)
	}
	c.JSON(status, ErrorResponse{Error: apperror.PublicMessage(err)})
}

// BindError はShouldBindJSON等の失敗を400として返します。
func BindError(c *gin.Context, err error) {
	slog.Warn("request validation failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.FormatValidationError(err)})
}

func captureException(c *gin.Context, err error) {
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetRequest(c.Request)
	hub.CaptureException(err)
}
