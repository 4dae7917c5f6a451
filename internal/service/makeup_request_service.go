package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

const (
	maxRemarksLength = 500
	defaultPageSize  = 20
	maxPageSize      = 100
	queryDateLayout  = "2006-01-02"
)

type requestStore interface {
	Create(ctx context.Context, req *models.MakeupRequest) error
	GetByID(ctx context.Context, id string) (*models.MakeupRequest, error)
	UpdateStatus(ctx context.Context, update models.StatusUpdate) error
	List(ctx context.Context, filter models.RequestFilter) ([]models.MakeupRequest, int, error)
	ListAttachments(ctx context.Context, requestID string) ([]models.Attachment, error)
}

type admissionChecker interface {
	Evaluate(ctx context.Context, courseCode string, component models.EvalComponent) (*Admission, error)
}

type workflowNotifier interface {
	FacultyDecision(ctx context.Context, req models.MakeupRequest)
	AdminDecision(ctx context.Context, req models.MakeupRequest)
}

// MakeupRequestService runs intake and the approval workflow.
type MakeupRequestService struct {
	repo      requestStore
	deadlines admissionChecker
	notifier  workflowNotifier
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewMakeupRequestService constructs the service. location interprets date-only listing filters.
func NewMakeupRequestService(repo requestStore, deadlines admissionChecker, notifier workflowNotifier, validate *validator.Validate, metrics *MetricsService, location *time.Location, logger *zap.Logger) *MakeupRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MakeupRequestService{
		repo:      repo,
		deadlines: deadlines,
		notifier:  notifier,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		location:  location,
		now:       time.Now,
	}
}

func missingField(field string) error {
	return appErrors.WithDetail(appErrors.Clone(appErrors.ErrMissingField, field+" is required"), "field", field)
}

// Submit validates and admits a new request in Pending status. The student's email is
// taken from the authenticated principal, never from the form.
func (s *MakeupRequestService) Submit(ctx context.Context, student models.Principal, form dto.SubmitMakeupRequest) (*models.MakeupRequest, error) {
	req := &models.MakeupRequest{
		Name:          strings.TrimSpace(form.Name),
		IDNumber:      strings.TrimSpace(form.IDNumber),
		Email:         student.Email,
		CourseCode:    strings.TrimSpace(form.CourseCode),
		EvalComponent: models.NormalizeComponent(form.EvalComponent),
		Reason:        strings.TrimSpace(form.Reason),
		Status:        models.StatusPending,
	}
	if req.Name == "" {
		req.Name = student.Name
	}
	for _, f := range []struct{ name, value string }{
		{"idNumber", req.IDNumber},
		{"courseCode", req.CourseCode},
		{"evalComponent", string(req.EvalComponent)},
		{"reason", req.Reason},
	} {
		if f.value == "" {
			s.metrics.RecordSubmission(appErrors.ErrMissingField.Code)
			return nil, missingField(f.name)
		}
	}

	admission, err := s.deadlines.Evaluate(ctx, req.CourseCode, req.EvalComponent)
	if err != nil {
		s.metrics.RecordSubmission(appErrors.FromError(err).Code)
		return nil, err
	}
	if admission.Extension != nil {
		id := admission.Extension.ID
		req.ExtensionID = &id
	}

	req.Attachments = make([]models.Attachment, 0, len(form.Attachments))
	for _, att := range form.Attachments {
		req.Attachments = append(req.Attachments, normalizeAttachment(att))
	}
	req.SubmittedAt = s.now().UTC()

	if err := s.repo.Create(ctx, req); err != nil {
		s.metrics.RecordSubmission(appErrors.ErrInternal.Code)
		return nil, appErrors.Internal(err, "failed to save makeup request")
	}
	s.metrics.RecordSubmission("accepted")
	s.logger.Info("makeup request submitted",
		zap.String("request_id", req.ID),
		zap.String("course_code", req.CourseCode),
		zap.String("eval_component", string(req.EvalComponent)),
		zap.Bool("extension_used", req.ExtensionID != nil),
		zap.Int("attachments", len(req.Attachments)),
	)
	return req, nil
}

// normalizeAttachment keeps bytes verbatim and sniffs a MIME type when the client sent none.
func normalizeAttachment(att models.Attachment) models.Attachment {
	mt := strings.TrimSpace(att.MimeType)
	if mt == "" || mt == "application/octet-stream" {
		mt = mimetype.Detect(att.Content).String()
	}
	att.MimeType = mt
	return att
}

func (s *MakeupRequestService) load(ctx context.Context, id string) (*models.MakeupRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Request not found")
		}
		return nil, appErrors.Internal(err, "failed to load makeup request")
	}
	return req, nil
}

func sanitizeRemarks(raw string) string {
	remarks := strings.TrimSpace(raw)
	if utf8.RuneCountInString(remarks) > maxRemarksLength {
		remarks = strings.TrimSpace(string([]rune(remarks)[:maxRemarksLength]))
	}
	return remarks
}

// FacultyDecide applies an instructor's verdict to a pending request of one of their courses.
func (s *MakeupRequestService) FacultyDecide(ctx context.Context, faculty models.Principal, id string, decision dto.FacultyDecisionRequest) (*dto.TransitionResult, error) {
	if err := s.validator.Struct(decision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status must be Accepted or Denied")
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !faculty.OwnsCourse(req.CourseCode) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Not authorized to modify this request")
	}

	next, err := FacultyTransition(req.Status, req.EvalComponent, decision.Status)
	if err != nil {
		return nil, err
	}

	var remarks *string
	if r := sanitizeRemarks(decision.Remarks); r != "" {
		remarks = &r
	}
	err = s.repo.UpdateStatus(ctx, models.StatusUpdate{ID: req.ID, From: req.Status, To: next, FacRemarks: remarks})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.raced(ctx, req.ID)
		}
		return nil, appErrors.Internal(err, "failed to update request status")
	}

	req.Status = next
	if remarks != nil {
		req.FacRemarks = remarks
	}
	s.metrics.RecordTransition(string(models.AccountFaculty), string(next))
	s.logger.Info("faculty decision applied",
		zap.String("request_id", req.ID),
		zap.String("faculty", faculty.Email),
		zap.String("status", string(next)),
	)
	s.notifier.FacultyDecision(ctx, *req)

	return &dto.TransitionResult{ID: req.ID, Applied: true, Status: next, Message: msgFacultyStatusUpdate}, nil
}

// raced reports the state a concurrent writer left the request in.
func (s *MakeupRequestService) raced(ctx context.Context, id string) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return alreadyFinalized(current.Status)
}

// AdminDecide applies the timetable division's verdict. Requests outside its authority
// produce an unapplied result rather than an error.
func (s *MakeupRequestService) AdminDecide(ctx context.Context, admin models.Principal, id string, decision dto.AdminDecisionRequest) (*dto.TransitionResult, error) {
	if err := s.validator.Struct(decision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status must be Accepted or Denied")
	}
	if admin.AccountType != models.AccountAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Admin not found")
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok, message, err := AdminTransition(req.Status, req.EvalComponent, decision.Status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &dto.TransitionResult{ID: req.ID, Applied: false, Status: req.Status, Message: message}, nil
	}

	err = s.repo.UpdateStatus(ctx, models.StatusUpdate{ID: req.ID, From: models.StatusFacultyApproved, To: next})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			current, loadErr := s.load(ctx, req.ID)
			if loadErr != nil {
				return nil, loadErr
			}
			return &dto.TransitionResult{ID: req.ID, Applied: false, Status: current.Status, Message: msgAdminNeedsApproval}, nil
		}
		return nil, appErrors.Internal(err, "failed to update request status")
	}

	req.Status = next
	s.metrics.RecordTransition(string(models.AccountAdmin), string(next))
	s.logger.Info("admin decision applied",
		zap.String("request_id", req.ID),
		zap.String("admin", admin.Email),
		zap.String("status", string(next)),
	)
	s.notifier.AdminDecision(ctx, *req)

	return &dto.TransitionResult{ID: req.ID, Applied: true, Status: next, Message: message}, nil
}

// buildFilter translates the query and scopes it to what the caller may see.
// ok is false when the scope is provably empty.
func (s *MakeupRequestService) buildFilter(caller models.Principal, query dto.ListRequestsQuery, paged bool) (filter models.RequestFilter, ok bool, err error) {
	for _, raw := range splitMulti(query.Status) {
		status := models.RequestStatus(raw)
		if !status.Valid() {
			return filter, false, appErrors.WithDetail(appErrors.Clone(appErrors.ErrValidation, "unknown status filter"), "status", raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	filter.CourseCodes = splitMulti(query.CourseCode)
	filter.Search = strings.TrimSpace(query.Search)

	if query.From != "" {
		from, err := time.ParseInLocation(queryDateLayout, query.From, s.location)
		if err != nil {
			return filter, false, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
		}
		filter.SubmittedFrom = &from
	}
	if query.To != "" {
		to, err := time.ParseInLocation(queryDateLayout, query.To, s.location)
		if err != nil {
			return filter, false, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
		}
		end := to.AddDate(0, 0, 1)
		filter.SubmittedTo = &end
	}

	if paged {
		filter.Page = query.Page
		if filter.Page < 1 {
			filter.Page = 1
		}
		filter.PageSize = query.PageSize
		if filter.PageSize <= 0 {
			filter.PageSize = defaultPageSize
		}
		if filter.PageSize > maxPageSize {
			filter.PageSize = maxPageSize
		}
	}

	switch caller.AccountType {
	case models.AccountAdmin:
	case models.AccountFaculty:
		if len(filter.CourseCodes) == 0 {
			filter.CourseCodes = caller.CourseCodes
		} else {
			filter.CourseCodes = intersect(filter.CourseCodes, caller.CourseCodes)
		}
		if len(filter.CourseCodes) == 0 {
			return filter, false, nil
		}
	default:
		filter.Email = caller.Email
	}
	return filter, true, nil
}

// List returns the caller's visible requests without attachments.
func (s *MakeupRequestService) List(ctx context.Context, caller models.Principal, query dto.ListRequestsQuery) ([]dto.RequestSummary, *models.Pagination, error) {
	filter, ok, err := s.buildFilter(caller, query, true)
	if err != nil {
		return nil, nil, err
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}
	if !ok {
		return []dto.RequestSummary{}, pagination, nil
	}
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list makeup requests")
	}
	pagination.TotalCount = total
	summaries := make([]dto.RequestSummary, 0, len(requests))
	for _, r := range requests {
		summaries = append(summaries, dto.NewRequestSummary(r))
	}
	return summaries, pagination, nil
}

// ListAll returns every visible request matching the query, unpaged.
func (s *MakeupRequestService) ListAll(ctx context.Context, caller models.Principal, query dto.ListRequestsQuery) ([]models.MakeupRequest, error) {
	filter, ok, err := s.buildFilter(caller, query, false)
	if err != nil || !ok {
		return nil, err
	}
	requests, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list makeup requests")
	}
	return requests, nil
}

// Attachments returns the stored files to an admin, the course's faculty or the owning student.
func (s *MakeupRequestService) Attachments(ctx context.Context, caller models.Principal, id string) ([]dto.AttachmentResponse, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := caller.AccountType == models.AccountAdmin ||
		caller.OwnsCourse(req.CourseCode) ||
		strings.EqualFold(req.Email, caller.Email)
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Not authorized to view these attachments")
	}
	files, err := s.repo.ListAttachments(ctx, req.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attachments")
	}
	resp := make([]dto.AttachmentResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, dto.AttachmentResponse{Name: f.Name, MimeType: f.MimeType, Size: len(f.Content), Content: f.Content})
	}
	return resp, nil
}

// splitMulti accepts both repeated parameters and comma separated values.
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
