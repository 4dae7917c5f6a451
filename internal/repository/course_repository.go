package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/makeup-api/internal/models"
)

// CourseRepository reads the course registry.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `course_code, ic_email, compre_date, midsem_date`

// GetByCode returns the course or sql.ErrNoRows.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE course_code = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListByInstructor returns the codes of courses whose instructor in charge is email.
func (r *CourseRepository) ListByInstructor(ctx context.Context, email string) ([]string, error) {
	const query = `SELECT course_code FROM courses WHERE LOWER(ic_email) = LOWER($1) ORDER BY course_code`
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, email); err != nil {
		return nil, fmt.Errorf("list instructor courses: %w", err)
	}
	return codes, nil
}

// ListCodes returns every registered course code.
func (r *CourseRepository) ListCodes(ctx context.Context) ([]string, error) {
	const query = `SELECT course_code FROM courses ORDER BY course_code`
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query); err != nil {
		return nil, fmt.Errorf("list course codes: %w", err)
	}
	return codes, nil
}

// ListAll returns the full registry.
func (r *CourseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses ORDER BY course_code`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
