package entity

import "time"

// Section は科目の開講枠を表します。CRNは全体で一意です。
type Section struct {
	ID        uint   `gorm:"primaryKey"`
	CRN       string `gorm:"column:crn;uniqueIndex;size:16;not null"`
	CourseID  uint   `gorm:"index;not null"`
	Course    Course
	Users     []User `gorm:"many2many:user_sections;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SectionInput は一括登録の1件分です。
// スケジュール画像の解析結果やクライアントからのリクエストがこの形に変換されます。
type SectionInput struct {
	CourseCode string
	CourseName string
	CRN        string
}

// EnrollSummary は逐次履修登録ループの集計結果です。
// 途中で失敗しても、それ以前に成功した登録は取り消されません。
type EnrollSummary struct {
	Enrolled        int
	AlreadyEnrolled int
	Failed          int
}
