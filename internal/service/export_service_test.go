package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

type listerStub struct {
	requests []models.MakeupRequest
	query    dto.ListRequestsQuery
}

func (l *listerStub) ListAll(ctx context.Context, caller models.Principal, query dto.ListRequestsQuery) ([]models.MakeupRequest, error) {
	l.query = query
	return l.requests, nil
}

func TestExportServiceCSV(t *testing.T) {
	remarks := "ok"
	lister := &listerStub{requests: []models.MakeupRequest{{
		Name: "Asha", IDNumber: "2021A7PS0001", Email: "asha@example.edu", CourseCode: "CS101",
		EvalComponent: models.ComponentCompre, Reason: "fever", Status: models.StatusDenied, FacRemarks: &remarks,
		SubmittedAt: time.Date(2024, 4, 20, 5, 30, 0, 0, time.UTC),
	}}}
	svc := NewExportService(lister, mustIST(t), nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), adminPrincipal, dto.ListRequestsQuery{Status: []string{"Denied"}})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "makeup-requests-20240501-0530.csv", file.Filename)
	assert.Contains(t, string(file.Body), "Name,ID Number,Email,Course Code,Evaluative Component,Reason,Submitted At,Status,Faculty Remarks\n")
	assert.Contains(t, string(file.Body), "Asha,2021A7PS0001,asha@example.edu,CS101,Comprehensive Exam,fever,2024-04-20 11:00,Denied,ok\n")
	assert.Equal(t, []string{"Denied"}, lister.query.Status)
}

func TestExportServicePDFAndFormatValidation(t *testing.T) {
	svc := NewExportService(&listerStub{}, nil, nil, nil, nil)

	file, err := svc.Export(context.Background(), adminPrincipal, dto.ListRequestsQuery{Format: "PDF"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF-")))

	_, err = svc.Export(context.Background(), adminPrincipal, dto.ListRequestsQuery{Format: "xlsx"})
	require.True(t, errors.Is(err, appErrors.ErrValidation))
}
