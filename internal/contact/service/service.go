package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"storefront/internal/contact/metrics"
	"storefront/internal/contact/models"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/requestcontext"
)

// Store persists contact submissions.
type Store interface {
	Save(ctx context.Context, sub *models.Submission) error
}

// Notifier delivers a notification for a stored submission.
type Notifier interface {
	Notify(ctx context.Context, sub *models.Submission) error
}

// Service records contact submissions and notifies the site owner.
type Service struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service. A nil notifier disables notifications.
func New(store Store, notifier Notifier, opts ...Option) *Service {
	s := &Service{store: store, notifier: notifier, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record validates and persists a submission. Nothing is written when
// validation fails.
func (s *Service) Record(ctx context.Context, name, email, message string) (*models.Submission, error) {
	sub, err := models.NewSubmission(uuid.New(), name, email, message, requestcontext.Now(ctx))
	if err != nil {
		s.metrics.IncSubmission(metrics.OutcomeInvalid)
		return nil, err
	}

	if err := s.store.Save(ctx, sub); err != nil {
		s.metrics.IncSubmission(metrics.OutcomeFailed)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contact message")
	}
	s.metrics.IncSubmission(metrics.OutcomeSaved)
	return sub, nil
}

// Submit records the submission, then sends the notification. A failed
// notification is logged and does not fail the call.
func (s *Service) Submit(ctx context.Context, name, email, message string) (*models.Submission, error) {
	sub, err := s.Record(ctx, name, email, message)
	if err != nil {
		return nil, err
	}

	if s.notifier == nil {
		return sub, nil
	}
	// The submission is already stored; a client disconnect must not abort the send.
	if err := s.notifier.Notify(context.WithoutCancel(ctx), sub); err != nil {
		s.metrics.IncNotificationFailure()
		s.logger.WarnContext(ctx, "contact saved but notification failed",
			"request_id", requestcontext.RequestID(ctx),
			"submission_id", sub.ID,
			"error", err,
		)
	}
	return sub, nil
}
