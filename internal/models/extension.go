package models

import "time"

// Extension temporarily reopens submissions for a (course, exam type) pair.
type Extension struct {
	ID               string     `db:"id" json:"id"`
	CourseCode       string     `db:"course_code" json:"courseCode"`
	ExamType         ExamType   `db:"exam_type" json:"examType"`
	AdminEmail       string     `db:"admin_email" json:"adminEmail"`
	ExtendedUntil    time.Time  `db:"extended_until" json:"extendedUntil"`
	IsActive         bool       `db:"is_active" json:"isActive"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	ClosedAt         *time.Time `db:"closed_at" json:"closedAt,omitempty"`
	ClosedBy         *string    `db:"closed_by" json:"closedBy,omitempty"`
	AutoClosedAt     *time.Time `db:"auto_closed_at" json:"autoClosedAt,omitempty"`
	AutoClosedReason *string    `db:"auto_closed_reason" json:"autoClosedReason,omitempty"`
}

// Covers reports whether the extension admits a submission at now.
func (e Extension) Covers(now time.Time) bool {
	return e.IsActive && e.ExtendedUntil.After(now)
}
