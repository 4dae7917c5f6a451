package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/models"
	"github.com/noah-isme/makeup-api/pkg/jobs"
	"github.com/noah-isme/makeup-api/pkg/mailer"
)

const notificationJobType = "notification"

type optOutChecker interface {
	IsExcluded(ctx context.Context, email string) (bool, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// notification is the queued payload. Student-facing messages honour mailing list opt-outs.
type notification struct {
	Message       mailer.Message
	RespectOptOut bool
}

// NotificationService turns workflow transitions into best-effort emails.
// Nothing it does is reported back to the caller of the transition.
type NotificationService struct {
	mailer   mailer.Mailer
	optOut   optOutChecker
	queue    jobEnqueuer
	ttdEmail string
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewNotificationService constructs the service. Without an attached queue, messages are
// delivered inline and failures are only logged.
func NewNotificationService(m mailer.Mailer, optOut optOutChecker, ttdEmail string, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{mailer: m, optOut: optOut, ttdEmail: ttdEmail, metrics: metrics, logger: logger}
}

// AttachQueue routes future messages through q.
func (s *NotificationService) AttachQueue(q jobEnqueuer) {
	s.queue = q
}

// FacultyDecision notifies the student, and the timetable division when a comprehensive
// exam request awaits its review.
func (s *NotificationService) FacultyDecision(ctx context.Context, req models.MakeupRequest) {
	remarks := derefString(req.FacRemarks)
	switch {
	case req.EvalComponent.Kind() == models.KindCompre && req.Status == models.StatusFacultyApproved:
		s.dispatch(ctx, mailer.Message{
			To:      req.Email,
			Subject: "End Semester Exam Makeup Request Status Update",
			Body: withRemarks("Your End Semester Exam Makeup Request has been approved by faculty and is now pending TimeTable Division approval.",
				"Faculty remarks", remarks),
		}, true)
		if s.ttdEmail != "" {
			s.dispatch(ctx, mailer.Message{
				To:      s.ttdEmail,
				Subject: "End Semester Exam Makeup Request Needs Review",
				Body: fmt.Sprintf("A makeup request for End Semester Exam has been approved by faculty and requires your review. Student: %s, ID: %s, Course: %s",
					req.Name, req.IDNumber, req.CourseCode),
			}, false)
		}
	case req.EvalComponent.Kind() == models.KindCompre:
		s.dispatch(ctx, mailer.Message{
			To:      req.Email,
			Subject: "End Semester Exam Makeup Request Status",
			Body:    withRemarks(fmt.Sprintf("Your End Semester Exam Makeup Request has been %s by the faculty.", req.Status), "Remarks", remarks),
		}, true)
	default:
		s.dispatch(ctx, mailer.Message{
			To:      req.Email,
			Subject: fmt.Sprintf("%s Makeup Request Status", req.EvalComponent),
			Body:    withRemarks(fmt.Sprintf("Your %s Makeup Request has been %s by the faculty.", req.EvalComponent, req.Status), "Remarks", remarks),
		}, true)
	}
}

// AdminDecision notifies the student of the timetable division's verdict.
func (s *NotificationService) AdminDecision(ctx context.Context, req models.MakeupRequest) {
	remarks := derefString(req.FacRemarks)
	if remarks == "" {
		remarks = "None"
	}
	s.dispatch(ctx, mailer.Message{
		To:      req.Email,
		Subject: "Comprehensive Exam Makeup Request Status",
		Body:    fmt.Sprintf("Your Comprehensive Exam Makeup Request has been %s. Faculty Remarks: %s", req.Status, remarks),
	}, true)
}

func (s *NotificationService) dispatch(ctx context.Context, msg mailer.Message, respectOptOut bool) {
	if s == nil || msg.To == "" {
		return
	}
	n := notification{Message: msg, RespectOptOut: respectOptOut}
	if s.queue == nil {
		if err := s.deliver(ctx, n); err != nil {
			s.logger.Warn("notification failed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		}
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:       uuid.NewString(),
		Type:     notificationJobType,
		Payload:  n,
		Enqueued: time.Now().UTC(),
	})
	if err != nil {
		s.metrics.RecordNotification("dropped")
		s.logger.Warn("notification not queued", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
	}
}

// Handle is the queue handler; returned errors are retried by the queue.
func (s *NotificationService) Handle(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(notification)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	return s.deliver(ctx, n)
}

func (s *NotificationService) deliver(ctx context.Context, n notification) error {
	if s.mailer == nil {
		return nil
	}
	if n.RespectOptOut && s.optOut != nil {
		excluded, err := s.optOut.IsExcluded(ctx, n.Message.To)
		if err != nil {
			return fmt.Errorf("check opt-out: %w", err)
		}
		if excluded {
			s.metrics.RecordNotification("suppressed")
			s.logger.Debug("notification suppressed by opt-out", zap.String("to", n.Message.To))
			return nil
		}
	}
	if err := s.mailer.Send(ctx, n.Message); err != nil {
		s.metrics.RecordNotification("failed")
		return err
	}
	s.metrics.RecordNotification("sent")
	return nil
}

func withRemarks(body, label, remarks string) string {
	if remarks == "" {
		return body
	}
	return body + " " + label + ": " + remarks
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
