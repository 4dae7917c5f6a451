package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

type adminStore interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

type instructorLookup interface {
	InstructorCourses(ctx context.Context, email string) ([]string, error)
}

// AccountService resolves a caller's account type from registry membership.
type AccountService struct {
	admins  adminStore
	courses instructorLookup
	logger  *zap.Logger
}

// NewAccountService constructs the service.
func NewAccountService(admins adminStore, courses instructorLookup, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{admins: admins, courses: courses, logger: logger}
}

// Resolve classifies email as admin, faculty (instructor in charge of any course) or student.
// Admins who also teach keep their course codes.
func (s *AccountService) Resolve(ctx context.Context, email, name string) (*models.Principal, error) {
	principal := &models.Principal{Email: email, Name: name, AccountType: models.AccountStudent}

	isAdmin, err := s.admins.IsAdmin(ctx, email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to resolve account")
	}
	codes, err := s.courses.InstructorCourses(ctx, email)
	if err != nil {
		return nil, err
	}
	principal.CourseCodes = codes

	switch {
	case isAdmin:
		principal.AccountType = models.AccountAdmin
	case len(codes) > 0:
		principal.AccountType = models.AccountFaculty
	}
	return principal, nil
}
