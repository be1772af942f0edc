package entity

import (
	"strings"
	"time"
	"unicode"
)

// Course は科目を表します。CourseCodeは正規化済み（例: "CS3500"）で一意です。
type Course struct {
	ID         uint      `gorm:"primaryKey"`
	CourseCode string    `gorm:"uniqueIndex;size:32;not null"`
	Name       string    `gorm:"size:255;not null"`
	Sections   []Section `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeCourseCode は科目コードから空白を除去して大文字に揃えます。
// "cs 3500" と "CS3500" は同じ科目として扱われます。
func NormalizeCourseCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
