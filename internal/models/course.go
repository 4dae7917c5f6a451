package models

import "time"

// ExamType identifies a centrally scheduled examination.
type ExamType string

const (
	ExamTypeCompre ExamType = "compre"
	ExamTypeMidsem ExamType = "midsem"
)

// Valid reports whether the exam type is one the registry tracks dates for.
func (t ExamType) Valid() bool {
	return t == ExamTypeCompre || t == ExamTypeMidsem
}

// Course is reference data imported by administrators. Exam dates are civil dates without a zone.
type Course struct {
	CourseCode string     `db:"course_code" json:"courseCode"`
	ICEmail    string     `db:"ic_email" json:"icEmail"`
	CompreDate *time.Time `db:"compre_date" json:"compreDate,omitempty"`
	MidsemDate *time.Time `db:"midsem_date" json:"midsemDate,omitempty"`
}

// ExamDate returns the scheduled date for the exam type, or nil when it is not set.
func (c Course) ExamDate(t ExamType) *time.Time {
	switch t {
	case ExamTypeCompre:
		return c.CompreDate
	case ExamTypeMidsem:
		return c.MidsemDate
	default:
		return nil
	}
}
