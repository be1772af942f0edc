// Package dto はフィーチャー間で共通のJSONレスポンス型とエンティティからの変換を定義します。
// パスワードハッシュを含むフィールドはここに出てきません。
package dto

import "classmate_backend/internal/domain/entity"

// CourseSummary はセクションにぶら下げる親科目です。
type CourseSummary struct {
	ID         uint   `json:"id"`
	CourseCode string `json:"courseCode"`
	Name       string `json:"name"`
}

// SectionResponse はセクションと親科目です。
type SectionResponse struct {
	ID       uint           `json:"id"`
	CRN      string         `json:"crn"`
	CourseID uint           `json:"courseId"`
	Course   *CourseSummary `json:"course,omitempty"`
}

// SectionSummary は科目一覧に入れ子で含めるセクションです。
type SectionSummary struct {
	ID       uint   `json:"id"`
	CRN      string `json:"crn"`
	CourseID uint   `json:"courseId"`
}

// CourseResponse は科目とそのセクション一覧です。Sectionsは空でも[]で返します。
type CourseResponse struct {
	ID         uint             `json:"id"`
	CourseCode string           `json:"courseCode"`
	Name       string           `json:"name"`
	Sections   []SectionSummary `json:"sections"`
}

// SocialsResponse はSNSリンクです。
type SocialsResponse struct {
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	GitHub    string `json:"github"`
}

// UserResponse は公開可能なユーザー情報です。
type UserResponse struct {
	ID      uint            `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Bio     string          `json:"bio"`
	Socials SocialsResponse `json:"socials"`
}

func FromSection(s entity.Section) SectionResponse {
	out := SectionResponse{ID: s.ID, CRN: s.CRN, CourseID: s.CourseID}
	if s.Course.ID != 0 {
		out.Course = &CourseSummary{ID: s.Course.ID, CourseCode: s.Course.CourseCode, Name: s.Course.Name}
	}
	return out
}

func FromSections(sections []entity.Section) []SectionResponse {
	out := make([]SectionResponse, 0, len(sections))
	for _, s := range sections {
		out = append(out, FromSection(s))
	}
	return out
}

func FromCourses(courses []entity.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		sections := make([]SectionSummary, 0, len(c.Sections))
		for _, s := range c.Sections {
			sections = append(sections, SectionSummary{ID: s.ID, CRN: s.CRN, CourseID: s.CourseID})
		}
		out = append(out, CourseResponse{ID: c.ID, CourseCode: c.CourseCode, Name: c.Name, Sections: sections})
	}
	return out
}

func FromUser(u entity.User) UserResponse {
	s := u.Socials.Data()
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Bio:   u.Bio,
		Socials: SocialsResponse{
			LinkedIn:  s.LinkedIn,
			Instagram: s.Instagram,
			GitHub:    s.GitHub,
		},
	}
}

func FromUsers(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
