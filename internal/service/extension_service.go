package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

// ExtensionValidity is how long a granted extension reopens submissions.
const ExtensionValidity = 10 * time.Minute

const extensionExpiredReason = "Extension period expired"

type extensionStore interface {
	Upsert(ctx context.Context, ext *models.Extension) error
	Close(ctx context.Context, courseCode string, examType models.ExamType, closedBy string, at time.Time) (bool, error)
	Find(ctx context.Context, courseCode string, examType models.ExamType) (*models.Extension, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Extension, error)
	SweepExpired(ctx context.Context, now time.Time, reason string) (int64, error)
}

type courseGetter interface {
	GetCourse(ctx context.Context, code string) (*models.Course, error)
}

// ExtensionService manages temporary deadline overrides.
type ExtensionService struct {
	repo      extensionStore
	courses   courseGetter
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExtensionService constructs the service.
func NewExtensionService(repo extensionStore, courses courseGetter, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ExtensionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtensionService{repo: repo, courses: courses, validator: validate, metrics: metrics, logger: logger, now: time.Now}
}

func (s *ExtensionService) validate(req *dto.ExtensionRequest) error {
	req.CourseCode = strings.TrimSpace(req.CourseCode)
	req.ExamType = models.ExamType(strings.ToLower(strings.TrimSpace(string(req.ExamType))))
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "courseCode and examType (compre or midsem) are required")
	}
	return nil
}

// Grant opens or reopens submissions for the key for ExtensionValidity. Last writer wins.
func (s *ExtensionService) Grant(ctx context.Context, admin models.Principal, req dto.ExtensionRequest) (*models.Extension, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetCourse(ctx, req.CourseCode); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	ext := &models.Extension{
		CourseCode:    req.CourseCode,
		ExamType:      req.ExamType,
		AdminEmail:    admin.Email,
		ExtendedUntil: now.Add(ExtensionValidity),
		CreatedAt:     now,
	}
	if err := s.repo.Upsert(ctx, ext); err != nil {
		return nil, appErrors.Internal(err, "failed to grant extension")
	}
	s.logger.Info("extension granted",
		zap.String("course_code", ext.CourseCode),
		zap.String("exam_type", string(ext.ExamType)),
		zap.String("admin", admin.Email),
		zap.Time("extended_until", ext.ExtendedUntil),
	)
	return ext, nil
}

// Close deactivates the key's extension. A missing or inactive extension is not an error.
func (s *ExtensionService) Close(ctx context.Context, admin models.Principal, req dto.ExtensionRequest) (bool, error) {
	if err := s.validate(&req); err != nil {
		return false, err
	}
	closed, err := s.repo.Close(ctx, req.CourseCode, req.ExamType, admin.Email, s.now().UTC())
	if err != nil {
		return false, appErrors.Internal(err, "failed to close extension")
	}
	if closed {
		s.logger.Info("extension closed",
			zap.String("course_code", req.CourseCode),
			zap.String("exam_type", string(req.ExamType)),
			zap.String("admin", admin.Email),
		)
	}
	return closed, nil
}

// Status reports whether an active, unexpired extension exists for the key.
func (s *ExtensionService) Status(ctx context.Context, req dto.ExtensionRequest) (*dto.ExtensionStatusResponse, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	resp := &dto.ExtensionStatusResponse{CourseCode: req.CourseCode, ExamType: req.ExamType}
	ext, err := s.repo.Find(ctx, req.CourseCode, req.ExamType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, nil
		}
		return nil, appErrors.Internal(err, "failed to load extension")
	}
	if ext.Covers(s.now()) {
		resp.Active = true
		until := ext.ExtendedUntil
		resp.ExtendedUntil = &until
	}
	return resp, nil
}

// ListActive returns every extension currently reopening submissions.
func (s *ExtensionService) ListActive(ctx context.Context) ([]models.Extension, error) {
	exts, err := s.repo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list extensions")
	}
	if exts == nil {
		exts = []models.Extension{}
	}
	return exts, nil
}

// SweepExpired deactivates every active extension past its expiry. Safe to call repeatedly.
func (s *ExtensionService) SweepExpired(ctx context.Context) (*dto.SweepResponse, error) {
	now := s.now().UTC()
	closed, err := s.repo.SweepExpired(ctx, now, extensionExpiredReason)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sweep extensions")
	}
	s.metrics.RecordSweep(closed)
	if closed > 0 {
		s.logger.Info("expired extensions closed", zap.Int64("count", closed))
	}
	return &dto.SweepResponse{Closed: closed, SweptAt: now}, nil
}
