// Package dto はcatalogフィーチャーのリクエスト型を定義します。
package dto

// CreateSectionRequest は POST /api/sections の本文です。
type CreateSectionRequest struct {
	CRN      string `json:"crn" binding:"required,crn"`
	CourseID uint   `json:"courseId" binding:"required,gt=0"`
}
