package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"classmate_backend/internal/domain/entity"
)

func TestToSectionInputs(t *testing.T) {
	got := ToSectionInputs([]BatchEntry{
		{Name: "OOD", CRN: "10001", CourseCode: "CS3500"},
		{Name: "Algo", CRN: "20002", ID: "CS3000"},
		{CRN: "30003", CourseCode: "MATH1341", ID: "ignored"},
	})

	assert.Equal(t, []entity.SectionInput{
		{CourseCode: "CS3500", CourseName: "OOD", CRN: "10001"},
		{CourseCode: "CS3000", CourseName: "Algo", CRN: "20002"},
		{CourseCode: "MATH1341", CRN: "30003"},
	}, got)
}
