package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
	"github.com/noah-isme/makeup-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type requestLister interface {
	ListAll(ctx context.Context, caller models.Principal, query dto.ListRequestsQuery) ([]models.MakeupRequest, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

var requestExportColumns = []export.Column{
	{Key: "name", Title: "Name", Weight: 1.2},
	{Key: "idNumber", Title: "ID Number", Weight: 1.1},
	{Key: "email", Title: "Email", Weight: 1.6},
	{Key: "courseCode", Title: "Course Code", Weight: 0.8},
	{Key: "evalComponent", Title: "Evaluative Component", Weight: 1.2},
	{Key: "reason", Title: "Reason", Weight: 2},
	{Key: "submittedAt", Title: "Submitted At", Weight: 1.1},
	{Key: "status", Title: "Status", Weight: 0.9},
	{Key: "facRemarks", Title: "Faculty Remarks", Weight: 1.6},
}

// ExportService renders the caller's visible requests as CSV or PDF.
type ExportService struct {
	requests requestLister
	csv      csvRenderer
	pdf      pdfRenderer
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. location formats submission times.
func NewExportService(requests requestLister, location *time.Location, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{requests: requests, csv: csv, pdf: pdf, location: location, logger: logger, now: time.Now}
}

// Export renders the listing selected by query in the requested format (csv by default).
func (s *ExportService) Export(ctx context.Context, caller models.Principal, query dto.ListRequestsQuery) (*dto.ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.WithDetail(appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"), "format", format)
	}

	requests, err := s.requests.ListAll(ctx, caller, query)
	if err != nil {
		return nil, err
	}
	dataset := s.buildDataset(requests)

	var body []byte
	contentType := "text/csv"
	if format == ExportFormatPDF {
		contentType = "application/pdf"
		body, err = s.pdf.Render(dataset, "Makeup Requests")
	} else {
		body, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Info("requests exported",
		zap.String("actor", caller.Email),
		zap.String("format", format),
		zap.Int("rows", len(requests)),
	)
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("makeup-requests-%s.%s", s.now().In(s.location).Format("20060102-1504"), format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (s *ExportService) buildDataset(requests []models.MakeupRequest) export.Dataset {
	rows := make([]map[string]string, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, map[string]string{
			"name":          r.Name,
			"idNumber":      r.IDNumber,
			"email":         r.Email,
			"courseCode":    r.CourseCode,
			"evalComponent": string(r.EvalComponent),
			"reason":        r.Reason,
			"submittedAt":   r.SubmittedAt.In(s.location).Format("2006-01-02 15:04"),
			"status":        string(r.Status),
			"facRemarks":    derefString(r.FacRemarks),
		})
	}
	return export.Dataset{Columns: requestExportColumns, Rows: rows}
}
