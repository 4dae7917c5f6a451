package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/makeup-api/internal/models"
)

// MakeupRequestRepository persists makeup requests and their attachments.
type MakeupRequestRepository struct {
	db *sqlx.DB
}

// NewMakeupRequestRepository constructs the repository.
func NewMakeupRequestRepository(db *sqlx.DB) *MakeupRequestRepository {
	return &MakeupRequestRepository{db: db}
}

const requestColumns = `id, name, id_number, email, course_code, eval_component, reason, submitted_at,
       status, fac_remarks, extension_id, updated_at`

// Create inserts the request and its attachments in one transaction.
func (r *MakeupRequestRepository) Create(ctx context.Context, req *models.MakeupRequest) (err error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now().UTC()
	}
	req.UpdatedAt = req.SubmittedAt

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create request: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertRequest = `INSERT INTO makeup_requests
	(id, name, id_number, email, course_code, eval_component, reason, submitted_at, status, fac_remarks, extension_id, updated_at)
	VALUES (:id, :name, :id_number, :email, :course_code, :eval_component, :reason, :submitted_at, :status, :fac_remarks, :extension_id, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertRequest, req); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	const insertAttachment = `INSERT INTO makeup_request_attachments (request_id, name, mime_type, content)
	VALUES ($1, $2, $3, $4)`
	for i := range req.Attachments {
		att := &req.Attachments[i]
		att.RequestID = req.ID
		if _, err = tx.ExecContext(ctx, insertAttachment, att.RequestID, att.Name, att.MimeType, att.Content); err != nil {
			return fmt.Errorf("insert attachment %s: %w", att.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create request: %w", err)
	}
	return nil
}

// GetByID fetches a request without attachments.
func (r *MakeupRequestRepository) GetByID(ctx context.Context, id string) (*models.MakeupRequest, error) {
	const query = `SELECT ` + requestColumns + ` FROM makeup_requests WHERE id = $1`
	var req models.MakeupRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateStatus applies the transition only if the stored status still equals update.From.
// sql.ErrNoRows signals that the row is missing or was moved by a concurrent writer.
func (r *MakeupRequestRepository) UpdateStatus(ctx context.Context, update models.StatusUpdate) error {
	const query = `UPDATE makeup_requests
	SET status = $1, fac_remarks = COALESCE($2, fac_remarks), updated_at = NOW()
	WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, update.To, update.FacRemarks, update.ID, update.From)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check request update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func buildRequestConditions(filter models.RequestFilter) (string, []interface{}) {
	args := make([]interface{}, 0, 6)
	conditions := make([]string, 0, 6)

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(filter.CourseCodes) > 0 {
		args = append(args, pq.Array(filter.CourseCodes))
		conditions = append(conditions, fmt.Sprintf("course_code = ANY($%d)", len(args)))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		conditions = append(conditions, fmt.Sprintf("LOWER(email) = LOWER($%d)", len(args)))
	}
	if filter.SubmittedFrom != nil {
		args = append(args, *filter.SubmittedFrom)
		conditions = append(conditions, fmt.Sprintf("submitted_at >= $%d", len(args)))
	}
	if filter.SubmittedTo != nil {
		args = append(args, *filter.SubmittedTo)
		conditions = append(conditions, fmt.Sprintf("submitted_at < $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR id_number ILIKE $%d OR email ILIKE $%d OR reason ILIKE $%d)", idx, idx, idx, idx))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns requests matching the filter, newest first, with the unpaged total.
// A zero PageSize returns every match.
func (r *MakeupRequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]models.MakeupRequest, int, error) {
	where, args := buildRequestConditions(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM makeup_requests"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	query := "SELECT " + requestColumns + " FROM makeup_requests" + where + " ORDER BY submitted_at DESC, id"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, (page-1)*filter.PageSize)
	}

	var requests []models.MakeupRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	return requests, total, nil
}

// ListAttachments returns the stored files of a request ordered by name.
func (r *MakeupRequestRepository) ListAttachments(ctx context.Context, requestID string) ([]models.Attachment, error) {
	const query = `SELECT request_id, name, mime_type, content FROM makeup_request_attachments
	WHERE request_id = $1 ORDER BY name`
	var attachments []models.Attachment
	if err := r.db.SelectContext(ctx, &attachments, query, requestID); err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return attachments, nil
}
