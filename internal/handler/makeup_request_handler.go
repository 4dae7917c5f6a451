package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
	"github.com/noah-isme/makeup-api/pkg/response"
)

type makeupRequestService interface {
	Submit(ctx context.Context, student models.Principal, form dto.SubmitMakeupRequest) (*models.MakeupRequest, error)
	FacultyDecide(ctx context.Context, faculty models.Principal, id string, decision dto.FacultyDecisionRequest) (*dto.TransitionResult, error)
	AdminDecide(ctx context.Context, admin models.Principal, id string, decision dto.AdminDecisionRequest) (*dto.TransitionResult, error)
	List(ctx context.Context, caller models.Principal, query dto.ListRequestsQuery) ([]dto.RequestSummary, *models.Pagination, error)
	Attachments(ctx context.Context, caller models.Principal, id string) ([]dto.AttachmentResponse, error)
}

type requestExporter interface {
	Export(ctx context.Context, caller models.Principal, query dto.ListRequestsQuery) (*dto.ExportFile, error)
}

// MakeupRequestHandler exposes submission, review and listing endpoints.
type MakeupRequestHandler struct {
	requests makeupRequestService
	exporter requestExporter
}

// NewMakeupRequestHandler constructs the handler.
func NewMakeupRequestHandler(requests makeupRequestService, exporter requestExporter) *MakeupRequestHandler {
	return &MakeupRequestHandler{requests: requests, exporter: exporter}
}

// Submit godoc
// @Summary Submit a makeup request
// @Tags Requests
// @Accept multipart/form-data
// @Produce json
// @Param name formData string false "Student name"
// @Param idNumber formData string true "Student ID number"
// @Param courseCode formData string true "Course code"
// @Param evalComponent formData string true "Evaluative component"
// @Param reason formData string true "Reason"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /requests [post]
func (h *MakeupRequestHandler) Submit(c *gin.Context) {
	student, ok := principalFromContext(c)
	if !ok {
		return
	}
	var form dto.SubmitMakeupRequest
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission form"))
		return
	}
	attachments, err := readAttachments(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	form.Attachments = attachments

	created, err := h.requests.Submit(c.Request.Context(), student, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewRequestSummary(*created))
}

// readAttachments collects every uploaded file. Attachments are named after their form
// field; repeated fields get a numeric suffix.
func readAttachments(c *gin.Context) ([]models.Attachment, error) {
	if c.ContentType() != "multipart/form-data" {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid multipart body")
	}
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []models.Attachment
	for _, field := range fields {
		files := form.File[field]
		for i, fh := range files {
			name := field
			if len(files) > 1 {
				name = fmt.Sprintf("%s-%d", field, i+1)
			}
			content, err := readFile(fh)
			if err != nil {
				return nil, appErrors.Internal(err, "failed to read attachment")
			}
			out = append(out, models.Attachment{
				Name:     name,
				MimeType: fh.Header.Get("Content-Type"),
				Content:  content,
			})
		}
	}
	return out, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// List godoc
// @Summary List makeup requests visible to the caller
// @Tags Requests
// @Produce json
// @Param status query []string false "Status filter"
// @Param courseCode query []string false "Course code filter"
// @Param from query string false "Submitted from (YYYY-MM-DD)"
// @Param to query string false "Submitted to (YYYY-MM-DD), inclusive"
// @Param q query string false "Search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *MakeupRequestHandler) List(c *gin.Context) {
	caller, ok := principalFromContext(c)
	if !ok {
		return
	}
	var query dto.ListRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	rows, pagination, err := h.requests.List(c.Request.Context(), caller, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Export godoc
// @Summary Export makeup requests
// @Tags Requests
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /requests/export [get]
func (h *MakeupRequestHandler) Export(c *gin.Context) {
	caller, ok := principalFromContext(c)
	if !ok {
		return
	}
	var query dto.ListRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), caller, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// FacultyDecide godoc
// @Summary Faculty decision on a request
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.FacultyDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/faculty-decision [post]
func (h *MakeupRequestHandler) FacultyDecide(c *gin.Context) {
	faculty, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req dto.FacultyDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	result, err := h.requests.FacultyDecide(c.Request.Context(), faculty, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AdminDecide godoc
// @Summary Timetable division decision on a comprehensive exam request
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.AdminDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/admin-decision [post]
func (h *MakeupRequestHandler) AdminDecide(c *gin.Context) {
	admin, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req dto.AdminDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	result, err := h.requests.AdminDecide(c.Request.Context(), admin, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Attachments godoc
// @Summary Retrieve a request's attachments
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/attachments [get]
func (h *MakeupRequestHandler) Attachments(c *gin.Context) {
	caller, ok := principalFromContext(c)
	if !ok {
		return
	}
	files, err := h.requests.Attachments(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, files, nil)
}
