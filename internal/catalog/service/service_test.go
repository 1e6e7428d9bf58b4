package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog/models"
	"storefront/internal/catalog/store"
	dErrors "storefront/pkg/domain-errors"
)

type brokenStore struct{}

func (brokenStore) List(context.Context) ([]*models.Item, error) {
	return nil, errors.New("socket closed")
}

func (brokenStore) ListFeatured(context.Context) ([]*models.Item, error) {
	return nil, errors.New("socket closed")
}

func (brokenStore) FindByID(context.Context, string) (*models.Item, error) {
	return nil, errors.New("socket closed")
}

func seededService(t *testing.T) *Service {
	t.Helper()
	st := store.NewInMemory()
	_, err := st.InsertIfAbsent(context.Background(), models.SeedItems())
	require.NoError(t, err)
	return New(st)
}

func TestList(t *testing.T) {
	items, err := seededService(t).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 6)
	assert.Equal(t, "luxury-suit", items[0].ID)
	assert.Equal(t, "trench-coat", items[5].ID)
}

func TestFeatured(t *testing.T) {
	items, err := seededService(t).Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 5)
	for _, item := range items {
		assert.True(t, item.IsFeatured, item.ID)
	}
}

func TestGet(t *testing.T) {
	svc := seededService(t)

	t.Run("known id", func(t *testing.T) {
		item, err := svc.Get(context.Background(), "silk-dress")
		require.NoError(t, err)
		assert.Equal(t, "silk-dress", item.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "does-not-exist")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("blank id", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "  ")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestStoreFailuresAreInternal(t *testing.T) {
	svc := New(brokenStore{})
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = svc.Featured(ctx)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = svc.Get(ctx, "luxury-suit")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.False(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
