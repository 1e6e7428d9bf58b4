//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/platform/migrations"
	"storefront/pkg/testutil/containers"
)

func TestPostgresStoreSavesEverySubmission(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	pg := containers.NewPostgresContainer(t)
	require.NoError(t, migrations.Apply(ctx, pg.DB))

	s := NewPostgres(pg.DB)
	require.NoError(t, s.Save(ctx, newSubmission(t)))
	require.NoError(t, s.Save(ctx, newSubmission(t)))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMongoStoreSavesEverySubmission(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	mc := containers.NewMongoContainer(t)

	s := NewMongo(mc.Database(t, "contact_store_test"))
	sub := newSubmission(t)
	require.NoError(t, s.Save(ctx, sub))
	require.NoError(t, s.Save(ctx, newSubmission(t)))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
