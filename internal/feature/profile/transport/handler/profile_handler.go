// Package handler はprofileフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/profile/transport/http/dto"
	"classmate_backend/internal/feature/profile/usecase"
	"classmate_backend/internal/platform/http/response"
	jwtmw "classmate_backend/internal/platform/jwt"
	shareddto "classmate_backend/internal/shared/dto"
)

// ProfileUsecase はプロフィールのユースケースインターフェースです。
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uint) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uint, in usecase.ProfileUpdate) (*entity.User, error)
}

// ProfileHandler はプロフィールのHTTPリクエストを処理します。
type ProfileHandler struct {
	uc ProfileUsecase
}

// NewProfileHandler はProfileHandlerの新しいインスタンスを生成します。
func NewProfileHandler(uc ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Get は認証ユーザーのプロフィールを返します。
//
// エンドポイント: GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := jwtmw.CurrentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.uc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, shareddto.FromUser(*user))
}

// Update は認証ユーザーのプロフィールを部分更新します。
//
// エンドポイント: PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := jwtmw.CurrentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	user, err := h.uc.UpdateProfile(c.Request.Context(), userID, req.ToProfileUpdate())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, shareddto.FromUser(*user))
}
