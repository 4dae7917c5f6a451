package dto

import (
	"time"

	"github.com/noah-isme/makeup-api/internal/models"
)

// ExtensionRequest names the (course, exam type) key of an extension.
type ExtensionRequest struct {
	CourseCode string          `json:"courseCode" form:"courseCode" validate:"required"`
	ExamType   models.ExamType `json:"examType" form:"examType" validate:"required,oneof=compre midsem"`
}

// ExtensionStatusResponse reports whether submissions are currently reopened.
type ExtensionStatusResponse struct {
	CourseCode    string          `json:"courseCode"`
	ExamType      models.ExamType `json:"examType"`
	Active        bool            `json:"active"`
	ExtendedUntil *time.Time      `json:"extendedUntil,omitempty"`
}

// SweepResponse reports how many extensions a sweep deactivated.
type SweepResponse struct {
	Closed  int64     `json:"closed"`
	SweptAt time.Time `json:"sweptAt"`
}
