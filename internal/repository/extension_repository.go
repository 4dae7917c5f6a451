package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/makeup-api/internal/models"
)

// ExtensionRepository persists deadline extensions keyed by (course_code, exam_type).
type ExtensionRepository struct {
	db *sqlx.DB
}

// NewExtensionRepository constructs the repository.
func NewExtensionRepository(db *sqlx.DB) *ExtensionRepository {
	return &ExtensionRepository{db: db}
}

const extensionColumns = `id, course_code, exam_type, admin_email, extended_until, is_active, created_at,
       closed_at, closed_by, auto_closed_at, auto_closed_reason`

// Upsert replaces whatever record exists for the key with a fresh active extension.
func (r *ExtensionRepository) Upsert(ctx context.Context, ext *models.Extension) error {
	if ext.ID == "" {
		ext.ID = uuid.NewString()
	}
	if ext.CreatedAt.IsZero() {
		ext.CreatedAt = time.Now().UTC()
	}
	ext.IsActive = true
	ext.ClosedAt, ext.ClosedBy, ext.AutoClosedAt, ext.AutoClosedReason = nil, nil, nil, nil

	const query = `INSERT INTO extensions (id, course_code, exam_type, admin_email, extended_until, is_active, created_at)
	VALUES (:id, :course_code, :exam_type, :admin_email, :extended_until, TRUE, :created_at)
	ON CONFLICT (course_code, exam_type) DO UPDATE SET
		id = EXCLUDED.id,
		admin_email = EXCLUDED.admin_email,
		extended_until = EXCLUDED.extended_until,
		is_active = TRUE,
		created_at = EXCLUDED.created_at,
		closed_at = NULL,
		closed_by = NULL,
		auto_closed_at = NULL,
		auto_closed_reason = NULL`
	if _, err := r.db.NamedExecContext(ctx, query, ext); err != nil {
		return fmt.Errorf("upsert extension: %w", err)
	}
	return nil
}

// Close deactivates the active extension for the key. It reports whether a record changed.
func (r *ExtensionRepository) Close(ctx context.Context, courseCode string, examType models.ExamType, closedBy string, at time.Time) (bool, error) {
	const query = `UPDATE extensions SET is_active = FALSE, closed_at = $1, closed_by = $2
	WHERE course_code = $3 AND exam_type = $4 AND is_active`
	result, err := r.db.ExecContext(ctx, query, at, closedBy, courseCode, examType)
	if err != nil {
		return false, fmt.Errorf("close extension: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check extension close rows: %w", err)
	}
	return rows > 0, nil
}

// Find returns the record for the key or sql.ErrNoRows. The record may be inactive or expired.
func (r *ExtensionRepository) Find(ctx context.Context, courseCode string, examType models.ExamType) (*models.Extension, error) {
	const query = `SELECT ` + extensionColumns + ` FROM extensions WHERE course_code = $1 AND exam_type = $2`
	var ext models.Extension
	if err := r.db.GetContext(ctx, &ext, query, courseCode, examType); err != nil {
		return nil, err
	}
	return &ext, nil
}

// ListActive returns extensions that still cover now.
func (r *ExtensionRepository) ListActive(ctx context.Context, now time.Time) ([]models.Extension, error) {
	const query = `SELECT ` + extensionColumns + ` FROM extensions
	WHERE is_active AND extended_until > $1 ORDER BY extended_until`
	var exts []models.Extension
	if err := r.db.SelectContext(ctx, &exts, query, now); err != nil {
		return nil, fmt.Errorf("list active extensions: %w", err)
	}
	return exts, nil
}

// SweepExpired deactivates every active extension whose expiry is at or before now.
func (r *ExtensionRepository) SweepExpired(ctx context.Context, now time.Time, reason string) (int64, error) {
	const query = `UPDATE extensions SET is_active = FALSE, auto_closed_at = $1, auto_closed_reason = $2
	WHERE is_active AND extended_until <= $1`
	result, err := r.db.ExecContext(ctx, query, now, reason)
	if err != nil {
		return 0, fmt.Errorf("sweep extensions: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check sweep rows: %w", err)
	}
	return rows, nil
}
