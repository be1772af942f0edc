// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/catalog/transport/http/dto"
	"classmate_backend/internal/platform/http/response"
	shareddto "classmate_backend/internal/shared/dto"
)

// CatalogUsecase は科目・セクション操作のユースケースインターフェースです。
type CatalogUsecase interface {
	ListCourses(ctx context.Context) ([]entity.Course, error)
	CreateSection(ctx context.Context, crn string, courseID uint) (*entity.Section, error)
}

// CatalogHandler は科目・セクションのHTTPリクエストを処理します。
type CatalogHandler struct {
	uc CatalogUsecase
}

// NewCatalogHandler はCatalogHandlerの新しいインスタンスを生成します。
func NewCatalogHandler(uc CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListCourses は全科目をセクション付きで返します。
//
// エンドポイント: GET /api/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.uc.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, shareddto.FromCourses(courses))
}

// CreateSection は既存の科目にセクションを追加します。
//
// エンドポイント: POST /api/sections
func (h *CatalogHandler) CreateSection(c *gin.Context) {
	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	section, err := h.uc.CreateSection(c.Request.Context(), req.CRN, req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("section created", "crn", section.CRN, "course_id", section.CourseID)
	c.JSON(http.StatusCreated, shareddto.FromSection(*section))
}
