package dto

import "github.com/noah-isme/makeup-api/internal/models"

// AccountResponse describes the caller and their resolved role.
type AccountResponse struct {
	Email       string             `json:"email"`
	Name        string             `json:"name"`
	AccountType models.AccountType `json:"accountType"`
	CourseCodes []string           `json:"courseCodes,omitempty"`
}

// MailingListStatus reports whether the caller has opted out of status emails.
type MailingListStatus struct {
	Email    string `json:"email"`
	Excluded bool   `json:"excluded"`
}

// CourseCodesQuery selects the open-for-application listing.
type CourseCodesQuery struct {
	ExamType models.ExamType `form:"examType"`
	Open     bool            `form:"open"`
}
