package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/makeup-api/internal/models"
)

var requestRowColumns = []string{"id", "name", "id_number", "email", "course_code", "eval_component", "reason",
	"submitted_at", "status", "fac_remarks", "extension_id", "updated_at"}

func TestMakeupRequestRepositoryCreateWritesAttachments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMakeupRequestRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO makeup_requests")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO makeup_request_attachments")).
		WithArgs(sqlmock.AnyArg(), "medical.pdf", "application/pdf", []byte("%PDF")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	req := &models.MakeupRequest{
		Name:          "Asha",
		IDNumber:      "2021A7PS0001",
		Email:         "asha@example.edu",
		CourseCode:    "CS101",
		EvalComponent: models.ComponentCompre,
		Reason:        "fever",
		Attachments:   []models.Attachment{{Name: "medical.pdf", MimeType: "application/pdf", Content: []byte("%PDF")}},
	}
	require.NoError(t, repo.Create(context.Background(), req))
	require.NotEmpty(t, req.ID)
	require.Equal(t, models.StatusPending, req.Status)
	require.Equal(t, req.ID, req.Attachments[0].RequestID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeupRequestRepositoryCreateRollsBackOnAttachmentFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMakeupRequestRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO makeup_requests")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO makeup_request_attachments")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.MakeupRequest{
		CourseCode:  "CS101",
		Attachments: []models.Attachment{{Name: "a.png", MimeType: "image/png", Content: []byte{1}}},
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeupRequestRepositoryUpdateStatusIsConditional(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMakeupRequestRepository(db)
	remarks := "ok"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE makeup_requests")).
		WithArgs("faculty approved", &remarks, "req-1", "Pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE makeup_requests")).
		WithArgs("Accepted", nil, "req-1", "Pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), models.StatusUpdate{
		ID: "req-1", From: models.StatusPending, To: models.StatusFacultyApproved, FacRemarks: &remarks,
	}))
	err := repo.UpdateStatus(context.Background(), models.StatusUpdate{
		ID: "req-1", From: models.StatusPending, To: models.StatusAccepted,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeupRequestRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMakeupRequestRepository(db)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM makeup_requests WHERE status = ANY($1) AND course_code = ANY($2) AND submitted_at >= $3")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY submitted_at DESC, id LIMIT 2 OFFSET 2")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), from).
		WillReturnRows(sqlmock.NewRows(requestRowColumns).
			AddRow("req-3", "Ravi", "2021A7PS0002", "ravi@example.edu", "CS101", "Mid Semester Exam", "travel",
				from, "Denied", "late", nil, from))

	list, total, err := repo.List(context.Background(), models.RequestFilter{
		Statuses:      []models.RequestStatus{models.StatusDenied},
		CourseCodes:   []string{"CS101"},
		SubmittedFrom: &from,
		Page:          2,
		PageSize:      2,
	})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, list, 1)
	require.Equal(t, models.StatusDenied, list[0].Status)
	require.NotNil(t, list[0].FacRemarks)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildRequestConditionsSearch(t *testing.T) {
	where, args := buildRequestConditions(models.RequestFilter{Email: "a@example.edu", Search: " fever "})
	require.Equal(t, " WHERE LOWER(email) = LOWER($1) AND (name ILIKE $2 OR id_number ILIKE $2 OR email ILIKE $2 OR reason ILIKE $2)", where)
	require.Equal(t, []interface{}{"a@example.edu", "%fever%"}, args)

	where, args = buildRequestConditions(models.RequestFilter{})
	require.Empty(t, where)
	require.Empty(t, args)
}

func TestMakeupRequestRepositoryListAttachments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMakeupRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT request_id, name, mime_type, content FROM makeup_request_attachments")).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"request_id", "name", "mime_type", "content"}).
			AddRow("req-1", "medical.pdf", "application/pdf", []byte("%PDF")))

	files, err := repo.ListAttachments(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, []byte("%PDF"), files[0].Content)
	require.NoError(t, mock.ExpectationsWereMet())
}
