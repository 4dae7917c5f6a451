package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/dto"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

type mailingListStore interface {
	IsExcluded(ctx context.Context, email string) (bool, error)
	Exclude(ctx context.Context, email string) error
	Include(ctx context.Context, email string) error
}

// MailingListService manages status email opt-outs for the caller.
type MailingListService struct {
	repo   mailingListStore
	logger *zap.Logger
}

// NewMailingListService constructs the service.
func NewMailingListService(repo mailingListStore, logger *zap.Logger) *MailingListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailingListService{repo: repo, logger: logger}
}

// Status reports whether email opted out.
func (s *MailingListService) Status(ctx context.Context, email string) (*dto.MailingListStatus, error) {
	excluded, err := s.repo.IsExcluded(ctx, email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check mailing list")
	}
	return &dto.MailingListStatus{Email: email, Excluded: excluded}, nil
}

// OptOut stops status emails to email.
func (s *MailingListService) OptOut(ctx context.Context, email string) (*dto.MailingListStatus, error) {
	if err := s.repo.Exclude(ctx, email); err != nil {
		return nil, appErrors.Internal(err, "failed to unsubscribe")
	}
	s.logger.Info("mailing list opt-out", zap.String("email", email))
	return &dto.MailingListStatus{Email: email, Excluded: true}, nil
}

// OptIn resumes status emails to email.
func (s *MailingListService) OptIn(ctx context.Context, email string) (*dto.MailingListStatus, error) {
	if err := s.repo.Include(ctx, email); err != nil {
		return nil, appErrors.Internal(err, "failed to subscribe")
	}
	s.logger.Info("mailing list opt-in", zap.String("email", email))
	return &dto.MailingListStatus{Email: email, Excluded: false}, nil
}
