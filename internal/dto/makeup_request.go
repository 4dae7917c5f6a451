package dto

import (
	"time"

	"github.com/noah-isme/makeup-api/internal/models"
)

// SubmitMakeupRequest holds the text fields of the multipart submission form.
type SubmitMakeupRequest struct {
	Name          string `form:"name"`
	IDNumber      string `form:"idNumber"`
	CourseCode    string `form:"courseCode"`
	EvalComponent string `form:"evalComponent"`
	Reason        string `form:"reason"`

	Attachments []models.Attachment `form:"-"`
}

// FacultyDecisionRequest is the instructor's verdict on a pending request.
type FacultyDecisionRequest struct {
	Status  models.RequestStatus `json:"status" validate:"required,oneof=Accepted Denied"`
	Remarks string               `json:"remarks"`
}

// AdminDecisionRequest is the timetable division's final verdict.
type AdminDecisionRequest struct {
	Status models.RequestStatus `json:"status" validate:"required,oneof=Accepted Denied"`
}

// TransitionResult reports the outcome of a workflow action. Applied is false when
// the request needed no action from the caller.
type TransitionResult struct {
	ID      string               `json:"id"`
	Applied bool                 `json:"applied"`
	Status  models.RequestStatus `json:"status"`
	Message string               `json:"message"`
}

// ListRequestsQuery mirrors the listing and export query string.
type ListRequestsQuery struct {
	Status     []string `form:"status"`
	CourseCode []string `form:"courseCode"`
	From       string   `form:"from"`
	To         string   `form:"to"`
	Search     string   `form:"q"`
	Page       int      `form:"page"`
	PageSize   int      `form:"page_size"`
	Format     string   `form:"format"`
}

// RequestSummary is a listing row; attachments are never included.
type RequestSummary struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	IDNumber      string               `json:"idNumber"`
	Email         string               `json:"email"`
	CourseCode    string               `json:"courseCode"`
	EvalComponent models.EvalComponent `json:"evalComponent"`
	Reason        string               `json:"reason"`
	SubmittedAt   time.Time            `json:"submittedAt"`
	Status        models.RequestStatus `json:"status"`
	FacRemarks    string               `json:"facRemarks,omitempty"`
	ExtensionUsed bool                 `json:"extensionUsed"`
}

// NewRequestSummary projects a stored request into a listing row.
func NewRequestSummary(r models.MakeupRequest) RequestSummary {
	summary := RequestSummary{
		ID:            r.ID,
		Name:          r.Name,
		IDNumber:      r.IDNumber,
		Email:         r.Email,
		CourseCode:    r.CourseCode,
		EvalComponent: r.EvalComponent,
		Reason:        r.Reason,
		SubmittedAt:   r.SubmittedAt,
		Status:        r.Status,
		ExtensionUsed: r.ExtensionID != nil,
	}
	if r.FacRemarks != nil {
		summary.FacRemarks = *r.FacRemarks
	}
	return summary
}

// AttachmentResponse is one stored file; Content is base64 encoded in JSON.
type AttachmentResponse struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
	Content  []byte `json:"content"`
}

// ExportFile is a rendered listing export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
