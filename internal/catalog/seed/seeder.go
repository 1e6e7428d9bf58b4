// Package seed populates an empty catalog with the fixed seed set.
//
// Seeding runs once at startup, before the HTTP server accepts traffic.
// Inserts are insert-if-absent per identifier, so two instances booting
// against the same store cannot double-insert. When a Barrier is configured
// only the instance holding it seeds; the others skip.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/catalog/metrics"
	"storefront/internal/catalog/models"
)

var tracer = otel.Tracer("storefront/internal/catalog/seed")

// Store is the catalog persistence the seeder needs.
type Store interface {
	Count(ctx context.Context) (int64, error)
	InsertIfAbsent(ctx context.Context, items []*models.Item) (int, error)
}

// Barrier serialises seeding across instances.
type Barrier interface {
	Acquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}

// Seeder inserts the seed set into an empty store.
type Seeder struct {
	store   Store
	items   []*models.Item
	barrier Barrier
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Seeder)

func WithBarrier(b Barrier) Option {
	return func(s *Seeder) {
		s.barrier = b
	}
}

// WithItems replaces the default seed set.
func WithItems(items []*models.Item) Option {
	return func(s *Seeder) {
		s.items = items
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Seeder) {
		s.metrics = m
	}
}

// New constructs a Seeder over store using the default seed set.
func New(store Store, opts ...Option) *Seeder {
	s := &Seeder{
		store:  store,
		items:  models.SeedItems(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSeeded inserts the seed set if and only if the store is empty and
// returns the number of items inserted.
func (s *Seeder) EnsureSeeded(ctx context.Context) (inserted int, err error) {
	ctx, span := tracer.Start(ctx, "catalog.EnsureSeeded")
	defer func() {
		span.SetAttributes(attribute.Int("catalog.seed.inserted", inserted))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	for _, item := range s.items {
		if err := item.Validate(); err != nil {
			s.metrics.ObserveSeed(metrics.OutcomeFailed, 0)
			return 0, fmt.Errorf("invalid seed item %q: %w", item.ID, err)
		}
	}

	if s.barrier != nil {
		release, acquired, err := s.barrier.Acquire(ctx)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "seed barrier unavailable, seeding without it",
				"error", err,
			)
		case !acquired:
			s.logger.InfoContext(ctx, "seed barrier held by another instance, skipping seed")
			s.metrics.ObserveSeed(metrics.OutcomeLocked, 0)
			return 0, nil
		default:
			defer func() {
				if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
					s.logger.WarnContext(ctx, "failed to release seed barrier", "error", rerr)
				}
			}()
		}
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		s.metrics.ObserveSeed(metrics.OutcomeFailed, 0)
		return 0, fmt.Errorf("count catalog items: %w", err)
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "catalog already populated, skipping seed",
			"count", count,
		)
		s.metrics.ObserveSeed(metrics.OutcomePopulated, 0)
		return 0, nil
	}

	inserted, err = s.store.InsertIfAbsent(ctx, s.items)
	if err != nil {
		s.metrics.ObserveSeed(metrics.OutcomeFailed, inserted)
		return inserted, fmt.Errorf("insert seed items: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog seeded",
		"inserted", inserted,
	)
	s.metrics.ObserveSeed(metrics.OutcomeSeeded, inserted)
	return inserted, nil
}

// Run seeds and logs any failure. Startup continues either way.
func (s *Seeder) Run(ctx context.Context) {
	if _, err := s.EnsureSeeded(ctx); err != nil {
		s.logger.ErrorContext(ctx, "catalog seeding failed",
			"error", err,
		)
	}
}
