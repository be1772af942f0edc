// Package dto はenrollmentフィーチャーのリクエスト・レスポンス型を定義します。
package dto

import "classmate_backend/internal/domain/entity"

// BatchEntry は POST /api/courses/upsert-batch の配列要素です。
// 画像解析の出力形式に合わせ、courseCodeの別名としてidも受け付けます。
type BatchEntry struct {
	Name       string `json:"name" binding:"max=255"`
	CRN        string `json:"crn" binding:"required,crn"`
	CourseCode string `json:"courseCode" binding:"required_without=ID,max=32"`
	ID         string `json:"id" binding:"required_without=CourseCode,max=32"`
}

// ToSectionInputs はリクエスト本文をユースケースの入力に変換します。
func ToSectionInputs(entries []BatchEntry) []entity.SectionInput {
	out := make([]entity.SectionInput, 0, len(entries))
	for _, e := range entries {
		code := e.CourseCode
		if code == "" {
			code = e.ID
		}
		out = append(out, entity.SectionInput{CourseCode: code, CourseName: e.Name, CRN: e.CRN})
	}
	return out
}
