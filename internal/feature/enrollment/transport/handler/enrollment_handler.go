// Package handler はenrollmentフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/enrollment/transport/http/dto"
	"classmate_backend/internal/platform/http/params"
	"classmate_backend/internal/platform/http/response"
	jwtmw "classmate_backend/internal/platform/jwt"
	shareddto "classmate_backend/internal/shared/dto"
)

// EnrollmentUsecase は履修登録のユースケースインターフェースです。
type EnrollmentUsecase interface {
	Enroll(ctx context.Context, userID, sectionID uint) error
	Unenroll(ctx context.Context, userID, sectionID uint) error
	ListEnrolledSections(ctx context.Context, userID uint) ([]entity.Section, error)
	BatchUpsertAndReturnSections(ctx context.Context, inputs []entity.SectionInput) ([]entity.Section, error)
}

// EnrollmentHandler は履修登録のHTTPリクエストを処理します。
type EnrollmentHandler struct {
	uc EnrollmentUsecase
}

// NewEnrollmentHandler はEnrollmentHandlerの新しいインスタンスを生成します。
func NewEnrollmentHandler(uc EnrollmentUsecase) *EnrollmentHandler {
	return &EnrollmentHandler{uc: uc}
}

// Enroll は認証ユーザーをセクションに登録します。
//
// エンドポイント: POST /api/sections/:id/enroll
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	h.membership(c, h.uc.Enroll, "enrolled")
}

// Unenroll は認証ユーザーをセクションから外します。
//
// エンドポイント: POST /api/sections/:id/unenroll
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	h.membership(c, h.uc.Unenroll, "unenrolled")
}

func (h *EnrollmentHandler) membership(c *gin.Context, op func(ctx context.Context, userID, sectionID uint) error, message string) {
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
	if err := op(c.Request.Context(), userID, sectionID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: message})
}

// ListMySections は認証ユーザーの履修セクションを返します。
//
// エンドポイント: GET /api/profile/sections
func (h *EnrollmentHandler) ListMySections(c *gin.Context) {
	userID, err := jwtmw.CurrentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sections, err := h.uc.ListEnrolledSections(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, shareddto.FromSections(sections))
}

// UpsertBatch は科目・セクションを一括で冪等に作成し、対象セクションを返します。
//
// エンドポイント: POST /api/courses/upsert-batch
func (h *EnrollmentHandler) UpsertBatch(c *gin.Context) {
	var req []dto.BatchEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	sections, err := h.uc.BatchUpsertAndReturnSections(c.Request.Context(), dto.ToSectionInputs(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, shareddto.FromSections(sections))
}
