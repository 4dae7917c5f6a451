package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/makeup-api/internal/models"
	"github.com/noah-isme/makeup-api/pkg/mailer"
)

type courseRepoStub struct {
	courses map[string]models.Course
	gets    int
}

func newCourseRepoStub(courses ...models.Course) *courseRepoStub {
	s := &courseRepoStub{courses: make(map[string]models.Course)}
	for _, c := range courses {
		s.courses[c.CourseCode] = c
	}
	return s
}

func (s *courseRepoStub) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	s.gets++
	c, ok := s.courses[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (s *courseRepoStub) ListByInstructor(ctx context.Context, email string) ([]string, error) {
	var codes []string
	for code, c := range s.courses {
		if strings.EqualFold(c.ICEmail, email) {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *courseRepoStub) ListCodes(ctx context.Context) ([]string, error) {
	codes := make([]string, 0, len(s.courses))
	for code := range s.courses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *courseRepoStub) ListAll(ctx context.Context) ([]models.Course, error) {
	codes, _ := s.ListCodes(ctx)
	out := make([]models.Course, 0, len(codes))
	for _, code := range codes {
		out = append(out, s.courses[code])
	}
	return out, nil
}

type extKey struct {
	course   string
	examType models.ExamType
}

type extensionRepoStub struct {
	records map[extKey]*models.Extension
}

func newExtensionRepoStub() *extensionRepoStub {
	return &extensionRepoStub{records: make(map[extKey]*models.Extension)}
}

func (s *extensionRepoStub) Upsert(ctx context.Context, ext *models.Extension) error {
	if ext.ID == "" {
		ext.ID = uuid.NewString()
	}
	ext.IsActive = true
	copy := *ext
	s.records[extKey{ext.CourseCode, ext.ExamType}] = &copy
	return nil
}

func (s *extensionRepoStub) Close(ctx context.Context, courseCode string, examType models.ExamType, closedBy string, at time.Time) (bool, error) {
	ext, ok := s.records[extKey{courseCode, examType}]
	if !ok || !ext.IsActive {
		return false, nil
	}
	ext.IsActive = false
	ext.ClosedAt = &at
	ext.ClosedBy = &closedBy
	return true, nil
}

func (s *extensionRepoStub) Find(ctx context.Context, courseCode string, examType models.ExamType) (*models.Extension, error) {
	ext, ok := s.records[extKey{courseCode, examType}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *ext
	return &copy, nil
}

func (s *extensionRepoStub) ListActive(ctx context.Context, now time.Time) ([]models.Extension, error) {
	var out []models.Extension
	for _, ext := range s.records {
		if ext.Covers(now) {
			out = append(out, *ext)
		}
	}
	return out, nil
}

func (s *extensionRepoStub) SweepExpired(ctx context.Context, now time.Time, reason string) (int64, error) {
	var n int64
	for _, ext := range s.records {
		if ext.IsActive && !ext.ExtendedUntil.After(now) {
			ext.IsActive = false
			at, r := now, reason
			ext.AutoClosedAt = &at
			ext.AutoClosedReason = &r
			n++
		}
	}
	return n, nil
}

type requestRepoStub struct {
	requests  map[string]*models.MakeupRequest
	filter    models.RequestFilter
	updateErr error
}

func newRequestRepoStub() *requestRepoStub {
	return &requestRepoStub{requests: make(map[string]*models.MakeupRequest)}
}

func (s *requestRepoStub) Create(ctx context.Context, req *models.MakeupRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	copy := *req
	s.requests[req.ID] = &copy
	return nil
}

func (s *requestRepoStub) GetByID(ctx context.Context, id string) (*models.MakeupRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *req
	copy.Attachments = nil
	return &copy, nil
}

func (s *requestRepoStub) UpdateStatus(ctx context.Context, update models.StatusUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	req, ok := s.requests[update.ID]
	if !ok || req.Status != update.From {
		return sql.ErrNoRows
	}
	req.Status = update.To
	if update.FacRemarks != nil {
		req.FacRemarks = update.FacRemarks
	}
	return nil
}

func (s *requestRepoStub) List(ctx context.Context, filter models.RequestFilter) ([]models.MakeupRequest, int, error) {
	s.filter = filter
	out := make([]models.MakeupRequest, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *requestRepoStub) ListAttachments(ctx context.Context, requestID string) ([]models.Attachment, error) {
	req, ok := s.requests[requestID]
	if !ok {
		return nil, nil
	}
	return req.Attachments, nil
}

type notifierStub struct {
	faculty []models.MakeupRequest
	admin   []models.MakeupRequest
}

func (n *notifierStub) FacultyDecision(ctx context.Context, req models.MakeupRequest) {
	n.faculty = append(n.faculty, req)
}

func (n *notifierStub) AdminDecision(ctx context.Context, req models.MakeupRequest) {
	n.admin = append(n.admin, req)
}

type mailerStub struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *mailerStub) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mailerStub) Close() error { return nil }

func (m *mailerStub) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type emailSetStub struct {
	emails map[string]bool
	err    error
}

func newEmailSetStub(emails ...string) *emailSetStub {
	s := &emailSetStub{emails: make(map[string]bool)}
	for _, e := range emails {
		s.emails[strings.ToLower(e)] = true
	}
	return s
}

func (s *emailSetStub) IsExcluded(ctx context.Context, email string) (bool, error) {
	return s.emails[strings.ToLower(email)], s.err
}

func (s *emailSetStub) IsAdmin(ctx context.Context, email string) (bool, error) {
	return s.emails[strings.ToLower(email)], s.err
}

func (s *emailSetStub) Exclude(ctx context.Context, email string) error {
	s.emails[strings.ToLower(email)] = true
	return s.err
}

func (s *emailSetStub) Include(ctx context.Context, email string) error {
	delete(s.emails, strings.ToLower(email))
	return s.err
}

var errStub = errors.New("stub failure")

// civilDate mimics how the driver returns DATE columns: midnight UTC of the civil day.
func civilDate(t time.Time, loc *time.Location, offsetDays int) *time.Time {
	y, m, d := t.In(loc).AddDate(0, 0, offsetDays).Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &date
}
