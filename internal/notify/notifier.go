// Package notify emails the site owner when a contact submission arrives.
//
// The Transport is chosen once at startup by NewTransport: real SMTP when
// sender credentials are configured, otherwise a disposable Ethereal test
// account whose messages can be inspected through a preview URL.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/contact/models"
	"storefront/internal/notify/metrics"
	"storefront/internal/platform/config"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/requestcontext"
)

var tracer = otel.Tracer("storefront/internal/notify")

// Notifier sends one email per submission through its Transport.
type Notifier struct {
	transport Transport
	from      string
	to        string
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Notifier)

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Notifier) {
		n.metrics = m
	}
}

// New returns a Notifier addressing mail according to cfg.
func New(transport Transport, cfg config.EmailConfig, opts ...Option) *Notifier {
	n := &Notifier{
		transport: transport,
		from:      Sender(cfg),
		to:        Recipient(cfg),
		timeout:   cfg.Timeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends the owner notification for sub. Errors carry CodeNotification.
func (n *Notifier) Notify(ctx context.Context, sub *models.Submission) (err error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	ctx, span := tracer.Start(ctx, "notify.Send")
	span.SetAttributes(
		attribute.String("notify.transport", n.transport.Name()),
		attribute.String("contact.submission_id", sub.ID.String()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	receipt, err := n.transport.Send(ctx, BuildMessage(sub, n.from, n.to))
	n.metrics.ObserveSend(n.transport.Name(), err, start)
	if err != nil {
		return dErrors.Wrap(fmt.Errorf("%s transport: %w", n.transport.Name(), err),
			dErrors.CodeNotification, "failed to send contact notification")
	}

	if receipt.Test {
		if receipt.PreviewURL == "" {
			n.logger.WarnContext(ctx, "mock email sent without preview url",
				"request_id", requestcontext.RequestID(ctx),
				"submission_id", sub.ID,
				"message_id", receipt.MessageID,
				"server_response", receipt.ServerResponse,
			)
			return nil
		}
		n.logger.InfoContext(ctx, "mock email preview",
			"request_id", requestcontext.RequestID(ctx),
			"submission_id", sub.ID,
			"preview_url", receipt.PreviewURL,
		)
		return nil
	}
	n.logger.InfoContext(ctx, "email sent",
		"request_id", requestcontext.RequestID(ctx),
		"submission_id", sub.ID,
		"transport", n.transport.Name(),
		"message_id", receipt.MessageID,
	)
	return nil
}

// NewTransport selects the delivery strategy for the process. Credentials
// select SMTP for cfg.Service; without them, or when cfg.Service names no
// known provider, mail goes to an Ethereal test account provisioned through
// etherealEndpoint on first send.
func NewTransport(cfg config.EmailConfig, etherealEndpoint string, logger *slog.Logger) Transport {
	if cfg.HasCredentials() {
		provider, err := ResolveProvider(cfg.Service)
		if err == nil {
			logger.Info("email transport configured",
				"transport", "smtp",
				"provider", provider.String(),
			)
			return NewSMTPTransport(provider, Credentials{Username: cfg.User, Password: cfg.Pass}, cfg.Timeout)
		}
		logger.Error("invalid EMAIL_SERVICE, falling back to ethereal test account",
			"service", cfg.Service,
			"error", err,
		)
	} else {
		logger.Warn("email credentials not set, using ethereal test account; messages will not be delivered")
	}
	return NewEtherealTransport(NewEtherealProvisioner(etherealEndpoint, cfg.Timeout), cfg.Timeout)
}
