package seed

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"storefront/internal/catalog/metrics"
	"storefront/internal/catalog/models"
	"storefront/internal/catalog/store"
)

type fakeBarrier struct {
	acquired bool
	err      error
	calls    int
	released int
}

func (b *fakeBarrier) Acquire(context.Context) (func(context.Context) error, bool, error) {
	b.calls++
	if b.err != nil || !b.acquired {
		return nil, false, b.err
	}
	return func(context.Context) error {
		b.released++
		return nil
	}, true, nil
}

type failingStore struct {
	countErr  error
	insertErr error
	inserts   int
}

func (f *failingStore) Count(context.Context) (int64, error) { return 0, f.countErr }

func (f *failingStore) InsertIfAbsent(context.Context, []*models.Item) (int, error) {
	f.inserts++
	return 0, f.insertErr
}

type SeederSuite struct {
	suite.Suite
	store   *store.InMemory
	metrics *metrics.Metrics
	logs    *bytes.Buffer
	logger  *slog.Logger
}

func TestSeederSuite(t *testing.T) {
	suite.Run(t, new(SeederSuite))
}

func (s *SeederSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	s.logger = slog.New(slog.NewTextHandler(s.logs, nil))
}

func (s *SeederSuite) newSeeder(opts ...Option) *Seeder {
	opts = append([]Option{WithLogger(s.logger), WithMetrics(s.metrics)}, opts...)
	return New(s.store, opts...)
}

func (s *SeederSuite) TestEmptyStoreReceivesSeedSetInOrder() {
	ctx := context.Background()

	inserted, err := s.newSeeder().EnsureSeeded(ctx)
	s.Require().NoError(err)
	s.Equal(6, inserted)

	items, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 6)
	for i, want := range models.SeedItems() {
		s.Equal(want.ID, items[i].ID)
	}
	s.Contains(s.logs.String(), "catalog seeded")
	s.Equal(6.0, promtest.ToFloat64(s.metrics.SeededItems))
}

func (s *SeederSuite) TestSecondRunIsNoOp() {
	ctx := context.Background()
	seeder := s.newSeeder()

	_, err := seeder.EnsureSeeded(ctx)
	s.Require().NoError(err)

	inserted, err := seeder.EnsureSeeded(ctx)
	s.Require().NoError(err)
	s.Zero(inserted)

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(6, count)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.SeedRuns.WithLabelValues(metrics.OutcomePopulated)))
}

func (s *SeederSuite) TestPrePopulatedStoreIsLeftAlone() {
	ctx := context.Background()
	existing := models.SeedItems()[:3]
	_, err := s.store.InsertIfAbsent(ctx, []*models.Item{existing[2], existing[0], existing[1]})
	s.Require().NoError(err)

	inserted, err := s.newSeeder().EnsureSeeded(ctx)
	s.Require().NoError(err)
	s.Zero(inserted)

	items, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 3)
	s.Equal([]string{existing[2].ID, existing[0].ID, existing[1].ID},
		[]string{items[0].ID, items[1].ID, items[2].ID})
}

func (s *SeederSuite) TestBarrierHeldElsewhereSkips() {
	barrier := &fakeBarrier{acquired: false}

	inserted, err := s.newSeeder(WithBarrier(barrier)).EnsureSeeded(context.Background())
	s.Require().NoError(err)
	s.Zero(inserted)
	s.Equal(1, barrier.calls)

	count, _ := s.store.Count(context.Background())
	s.Zero(count)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.SeedRuns.WithLabelValues(metrics.OutcomeLocked)))
}

func (s *SeederSuite) TestBarrierAcquiredIsReleased() {
	barrier := &fakeBarrier{acquired: true}

	inserted, err := s.newSeeder(WithBarrier(barrier)).EnsureSeeded(context.Background())
	s.Require().NoError(err)
	s.Equal(6, inserted)
	s.Equal(1, barrier.released)
}

func (s *SeederSuite) TestBarrierErrorProceedsWithoutIt() {
	barrier := &fakeBarrier{err: errors.New("connection refused")}

	inserted, err := s.newSeeder(WithBarrier(barrier)).EnsureSeeded(context.Background())
	s.Require().NoError(err)
	s.Equal(6, inserted)
	s.Contains(s.logs.String(), "seed barrier unavailable")
}

func (s *SeederSuite) TestInvalidSeedItemRejectedBeforeWrite() {
	bad := &models.Item{ID: "no-title", Category: "x", Description: "x", Image: "x"}

	_, err := s.newSeeder(WithItems([]*models.Item{bad})).EnsureSeeded(context.Background())
	s.Require().Error(err)

	count, _ := s.store.Count(context.Background())
	s.Zero(count)
}

func TestRunSwallowsStoreFailures(t *testing.T) {
	logs := &bytes.Buffer{}
	st := &failingStore{countErr: errors.New("store unreachable")}
	seeder := New(st, WithLogger(slog.New(slog.NewTextHandler(logs, nil))))

	require.NotPanics(t, func() { seeder.Run(context.Background()) })
	assert.Contains(t, logs.String(), "catalog seeding failed")
	assert.Contains(t, logs.String(), "store unreachable")
	assert.Zero(t, st.inserts)
}

func TestEnsureSeededReportsInsertFailure(t *testing.T) {
	st := &failingStore{insertErr: errors.New("write conflict")}
	seeder := New(st, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, err := seeder.EnsureSeeded(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "insert seed items")
	assert.Equal(t, 1, st.inserts)
}
