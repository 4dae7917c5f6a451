package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

type courseRegistry interface {
	GetCourse(ctx context.Context, code string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
}

type extensionFinder interface {
	Find(ctx context.Context, courseCode string, examType models.ExamType) (*models.Extension, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Extension, error)
}

// DeadlineConfig fixes the civil calendar used for date-only comparisons.
type DeadlineConfig struct {
	Location *time.Location
	LeadDays int
}

// Admission is a positive submission decision. Extension is set only when the
// baseline window had closed and an extension reopened it.
type Admission struct {
	ExamType  models.ExamType
	Extension *models.Extension
}

// DeadlineEvaluator decides whether a submission is inside its window.
type DeadlineEvaluator struct {
	courses    courseRegistry
	extensions extensionFinder
	cfg        DeadlineConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewDeadlineEvaluator constructs the evaluator.
func NewDeadlineEvaluator(courses courseRegistry, extensions extensionFinder, cfg DeadlineConfig, logger *zap.Logger) *DeadlineEvaluator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LeadDays < 0 {
		cfg.LeadDays = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeadlineEvaluator{courses: courses, extensions: extensions, cfg: cfg, logger: logger, now: time.Now}
}

// WithinSubmissionWindow reports whether today, in loc, is at least leadDays before examDate.
// examDate is a civil date; only its year, month and day are used.
func WithinSubmissionWindow(examDate, now time.Time, loc *time.Location, leadDays int) bool {
	y, m, d := examDate.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, -leadDays)
	ty, tm, td := now.In(loc).Date()
	today := time.Date(ty, tm, td, 0, 0, 0, 0, loc)
	return !today.After(cutoff)
}

// Evaluate admits or rejects a submission for courseCode and component at the current instant.
// Components other than the scheduled exams are admitted once the course resolves.
func (e *DeadlineEvaluator) Evaluate(ctx context.Context, courseCode string, component models.EvalComponent) (*Admission, error) {
	course, err := e.courses.GetCourse(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	examType, scheduled := component.ExamType()
	if !scheduled {
		return &Admission{}, nil
	}

	examDate := course.ExamDate(examType)
	if examDate == nil {
		return nil, appErrors.WithDetail(
			appErrors.Clone(appErrors.ErrMissingExamDate, fmt.Sprintf("No %s date is scheduled for %s", component, course.CourseCode)),
			"examType", string(examType),
		)
	}

	now := e.now()
	if WithinSubmissionWindow(*examDate, now, e.cfg.Location, e.cfg.LeadDays) {
		return &Admission{ExamType: examType}, nil
	}

	ext, err := e.extensions.Find(ctx, course.CourseCode, examType)
	switch {
	case err == nil && ext.Covers(now):
		e.logger.Info("submission admitted by extension",
			zap.String("course_code", course.CourseCode),
			zap.String("exam_type", string(examType)),
			zap.String("extension_id", ext.ID),
		)
		return &Admission{ExamType: examType, Extension: ext}, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Internal(err, "failed to check extension")
	}

	return nil, appErrors.WithDetail(
		appErrors.Clone(appErrors.ErrDeadlinePassed, fmt.Sprintf("The deadline for submitting %s makeup requests has passed", component)),
		"evalComponent", string(component),
	)
}

// OpenCourseCodes lists courses currently accepting submissions for examType.
func (e *DeadlineEvaluator) OpenCourseCodes(ctx context.Context, examType models.ExamType) ([]string, error) {
	if !examType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "examType must be compre or midsem")
	}
	now := e.now()
	courses, err := e.courses.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	active, err := e.extensions.ListActive(ctx, now)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list extensions")
	}
	extended := make(map[string]struct{}, len(active))
	for _, ext := range active {
		if ext.ExamType == examType && ext.Covers(now) {
			extended[ext.CourseCode] = struct{}{}
		}
	}

	codes := make([]string, 0, len(courses))
	for _, course := range courses {
		date := course.ExamDate(examType)
		if date == nil {
			continue
		}
		if _, ok := extended[course.CourseCode]; ok || WithinSubmissionWindow(*date, now, e.cfg.Location, e.cfg.LeadDays) {
			codes = append(codes, course.CourseCode)
		}
	}
	return codes, nil
}
