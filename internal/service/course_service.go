package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

type courseStore interface {
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	ListByInstructor(ctx context.Context, email string) ([]string, error)
	ListCodes(ctx context.Context) ([]string, error)
	ListAll(ctx context.Context) ([]models.Course, error)
}

const courseCachePrefix = "course:"

// CourseService reads the course registry through the optional course cache.
type CourseService struct {
	repo     courseStore
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCourseService constructs the service. cache may be nil.
func NewCourseService(repo courseStore, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// GetCourse resolves a course code, returning ErrInvalidCourse when it is not registered.
func (s *CourseService) GetCourse(ctx context.Context, code string) (*models.Course, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.WithDetail(appErrors.ErrMissingField, "field", "courseCode")
	}

	var cached models.Course
	if s.cache.Get(ctx, courseCachePrefix+code, &cached) {
		return &cached, nil
	}

	course, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithDetail(appErrors.ErrInvalidCourse, "courseCode", code)
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}
	s.cache.Set(ctx, courseCachePrefix+code, course, s.cacheTTL)
	return course, nil
}

// InstructorCourses returns the course codes owned by an instructor in charge.
func (s *CourseService) InstructorCourses(ctx context.Context, email string) ([]string, error) {
	codes, err := s.repo.ListByInstructor(ctx, email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load instructor courses")
	}
	return codes, nil
}

// ListCodes returns every registered course code.
func (s *CourseService) ListCodes(ctx context.Context) ([]string, error) {
	codes, err := s.repo.ListCodes(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list course codes")
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// ListCourses returns the full registry.
func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return courses, nil
}

// InvalidateCache drops every cached course, used after registry imports.
func (s *CourseService) InvalidateCache(ctx context.Context) error {
	return s.cache.Invalidate(ctx, courseCachePrefix+"*")
}
