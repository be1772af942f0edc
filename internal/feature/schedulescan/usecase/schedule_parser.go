package usecase

import (
	"bytes"
	"encoding/json"
	"strings"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/platform/validation"
)

// SchedulePrompt は時間割画像から科目を抽出させる指示文です。
const SchedulePrompt = "Analyze this image of a student's class schedule. " +
	"For each course, extract the course name (from the 'Title' column), " +
	"the CRN (from the 'CRN' column), and the course ID (from the 'Details' column, e.g., 'CS 2500'). " +
	"Return the data as a valid JSON object with a single key 'courses' which holds an array of objects. " +
	"Each object should have three keys: 'name', 'crn', and 'id'. " +
	`For example: {"courses": [{"name": "Fundamentals of Computer Science 1", "crn": "10786", "id": "CS 2500"}]}`

// flexString はモデルが数値で返したCRNも文字列として受け取ります。
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
		return nil
	}
}

type scannedCourse struct {
	Name       string     `json:"name"`
	CRN        flexString `json:"crn"`
	ID         flexString `json:"id"`
	CourseCode flexString `json:"courseCode"`
}

type scanPayload struct {
	Courses []scannedCourse `json:"courses"`
}

// ParseSchedule はモデルの出力から科目一覧を取り出します。
// コードフェンスや前後の説明文は取り除き、CRNが5桁でない項目や科目コードのない項目は捨てます。
// 1件も残らなければErrNoCoursesFoundを返します。
func ParseSchedule(text string) ([]entity.SectionInput, error) {
	payload, ok := decodePayload(stripCodeFence(text))
	if !ok {
		return nil, ErrNoCoursesFound
	}

	out := make([]entity.SectionInput, 0, len(payload.Courses))
	for _, c := range payload.Courses {
		code := string(c.ID)
		if strings.TrimSpace(code) == "" {
			code = string(c.CourseCode)
		}
		code = entity.NormalizeCourseCode(code)
		crn := strings.TrimSpace(string(c.CRN))
		if code == "" || !validation.IsCRN(crn) {
			continue
		}
		out = append(out, entity.SectionInput{
			CourseCode: code,
			CourseName: strings.TrimSpace(c.Name),
			CRN:        crn,
		})
	}
	if len(out) == 0 {
		return nil, ErrNoCoursesFound
	}
	return out, nil
}

func decodePayload(text string) (scanPayload, bool) {
	var p scanPayload
	if err := json.Unmarshal([]byte(text), &p); err == nil {
		return p, true
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return p, false
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &p); err != nil {
		return p, false
	}
	return p, true
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// 言語指定（```json）を読み飛ばす
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
