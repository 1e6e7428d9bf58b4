package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/catalog/metrics"
	"storefront/internal/catalog/models"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/sentinel"
)

// Store is the read side of the catalog.
type Store interface {
	List(ctx context.Context) ([]*models.Item, error)
	ListFeatured(ctx context.Context) ([]*models.Item, error)
	FindByID(ctx context.Context, id string) (*models.Item, error)
}

// Service serves read-only catalog lookups.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
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

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every item in insertion order.
func (s *Service) List(ctx context.Context) ([]*models.Item, error) {
	defer s.metrics.ObserveLookup("list", time.Now())

	items, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catalog")
	}
	return items, nil
}

// Featured returns the items flagged for the landing page.
func (s *Service) Featured(ctx context.Context) ([]*models.Item, error) {
	defer s.metrics.ObserveLookup("featured", time.Now())

	items, err := s.store.ListFeatured(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load featured items")
	}
	return items, nil
}

// Get fetches a single item by its identifier.
func (s *Service) Get(ctx context.Context, id string) (*models.Item, error) {
	defer s.metrics.ObserveLookup("get", time.Now())

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "item id is required")
	}

	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load item")
	}
	return item, nil
}
