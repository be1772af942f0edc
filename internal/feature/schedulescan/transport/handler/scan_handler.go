// Package handler はschedulescanフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"classmate_backend/internal/feature/schedulescan/transport/http/dto"
	"classmate_backend/internal/feature/schedulescan/usecase"
	"classmate_backend/internal/platform/apperror"
	"classmate_backend/internal/platform/http/response"
	jwtmw "classmate_backend/internal/platform/jwt"
)

// maxUploadBody はmultipart本文全体の上限です。画像の上限にヘッダー分の余裕を足します。
const maxUploadBody = usecase.MaxImageSize + 1<<20

var errImageRequired = apperror.Validation("image file is required")

// ScanUsecase は時間割スキャンのユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ScanUsecase interface {
	Scan(ctx context.Context, userID uint, image []byte, mimeType string) (*usecase.ScanResult, error)
}

// ScanHandler は時間割スキャンのHTTPリクエストを処理します。
type ScanHandler struct {
	uc ScanUsecase
}

// NewScanHandler はScanHandlerの新しいインスタンスを生成します。
func NewScanHandler(uc ScanUsecase) *ScanHandler {
	return &ScanHandler{uc: uc}
}

// Scan は時間割画像をアップロードし、抽出した科目に履修登録します。
//
// エンドポイント: POST /api/schedule/scan
// Content-Type: multipart/form-data
// フィールド: image（png/jpeg/webp、最大10MiB）
func (h *ScanHandler) Scan(c *gin.Context) {
	userID, err := jwtmw.CurrentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("failed to read image field", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, errImageRequired)
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close uploaded image", "error", err)
		}
	}()

	// 上限を1バイト超えて読めばサイズ超過をユースケースで判定できる
	image, err := io.ReadAll(io.LimitReader(f, usecase.MaxImageSize+1))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.uc.Scan(c.Request.Context(), userID, image, file.Header.Get("Content-Type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromScanResult(result))
}
