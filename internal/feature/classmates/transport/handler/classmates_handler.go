// Package handler はclassmatesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/platform/http/params"
	"classmate_backend/internal/platform/http/response"
	jwtmw "classmate_backend/internal/platform/jwt"
	shareddto "classmate_backend/internal/shared/dto"
)

// ClassmatesUsecase は同じセクションの履修者を取得するユースケースです。
type ClassmatesUsecase interface {
	ClassmatesOf(ctx context.Context, sectionID, requesterID uint) ([]entity.User, error)
}

// ClassmatesHandler は履修者一覧のHTTPリクエストを処理します。
type ClassmatesHandler struct {
	uc ClassmatesUsecase
}

// NewClassmatesHandler はClassmatesHandlerの新しいインスタンスを生成します。
func NewClassmatesHandler(uc ClassmatesUsecase) *ClassmatesHandler {
	return &ClassmatesHandler{uc: uc}
}

// List は認証ユーザー以外の履修者を返します。
//
// エンドポイント: GET /api/sections/:id/classmates
func (h *ClassmatesHandler) List(c *gin.Context) {
	userID, err := jwtmw.CurrentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sectionID, err := params.PathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	users, err := h.uc.ClassmatesOf(c.Request.Context(), sectionID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, shareddto.FromUsers(users))
}
