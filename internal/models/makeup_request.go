package models

import (
	"strings"
	"time"
)

// RequestStatus enumerates the makeup request workflow states.
type RequestStatus string

const (
	StatusPending         RequestStatus = "Pending"
	StatusFacultyApproved RequestStatus = "faculty approved"
	StatusAccepted        RequestStatus = "Accepted"
	StatusDenied          RequestStatus = "Denied"
)

// Valid reports whether s is a known workflow state.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusFacultyApproved, StatusAccepted, StatusDenied:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDenied
}

// EvalComponent is the evaluative component a makeup is requested for.
type EvalComponent string

const (
	ComponentMidsem EvalComponent = "Mid Semester Exam"
	ComponentCompre EvalComponent = "Comprehensive Exam"
	ComponentEndsem EvalComponent = "End Semester Exam"
)

// ComponentKind groups evaluative components by approval path.
type ComponentKind int

const (
	KindOther ComponentKind = iota
	KindMidsem
	KindCompre
)

// NormalizeComponent trims the label and folds known components onto their canonical spelling.
// End semester exams are the same sitting as the comprehensive exam.
func NormalizeComponent(raw string) EvalComponent {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(trimmed, string(ComponentMidsem)):
		return ComponentMidsem
	case strings.EqualFold(trimmed, string(ComponentCompre)), strings.EqualFold(trimmed, string(ComponentEndsem)):
		return ComponentCompre
	default:
		return EvalComponent(trimmed)
	}
}

// Kind classifies the component.
func (c EvalComponent) Kind() ComponentKind {
	switch c {
	case ComponentMidsem:
		return KindMidsem
	case ComponentCompre, ComponentEndsem:
		return KindCompre
	default:
		return KindOther
	}
}

// ExamType maps the component onto a scheduled exam; ok is false for other components.
func (c EvalComponent) ExamType() (ExamType, bool) {
	switch c.Kind() {
	case KindMidsem:
		return ExamTypeMidsem, true
	case KindCompre:
		return ExamTypeCompre, true
	default:
		return "", false
	}
}

// Attachment is an opaque supporting document stored verbatim.
type Attachment struct {
	RequestID string `db:"request_id" json:"-"`
	Name      string `db:"name" json:"name"`
	MimeType  string `db:"mime_type" json:"mimeType"`
	Content   []byte `db:"content" json:"content"`
}

// MakeupRequest is a student's application for a makeup evaluation.
type MakeupRequest struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	IDNumber      string        `db:"id_number" json:"idNumber"`
	Email         string        `db:"email" json:"email"`
	CourseCode    string        `db:"course_code" json:"courseCode"`
	EvalComponent EvalComponent `db:"eval_component" json:"evalComponent"`
	Reason        string        `db:"reason" json:"reason"`
	SubmittedAt   time.Time     `db:"submitted_at" json:"submittedAt"`
	Status        RequestStatus `db:"status" json:"status"`
	FacRemarks    *string       `db:"fac_remarks" json:"facRemarks,omitempty"`
	ExtensionID   *string       `db:"extension_id" json:"extensionId,omitempty"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`

	Attachments []Attachment `db:"-" json:"-"`
}

// RequestFilter constrains request listings. Empty fields do not filter.
type RequestFilter struct {
	Statuses      []RequestStatus
	CourseCodes   []string
	Email         string
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	Search        string
	Page          int
	PageSize      int
}

// StatusUpdate describes a conditional status write.
type StatusUpdate struct {
	ID         string
	From       RequestStatus
	To         RequestStatus
	FacRemarks *string
}
