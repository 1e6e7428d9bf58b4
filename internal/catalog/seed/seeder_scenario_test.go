package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog/store"
	"storefront/pkg/testutil"
)

func TestSeedingAcrossRestarts(t *testing.T) {
	ctx := context.Background()

	testutil.Given(t, "an empty catalog", func(t *testing.T) {
		catalog := store.NewInMemory()

		testutil.When(t, "two instances boot one after the other", func(t *testing.T) {
			first, err := New(catalog).EnsureSeeded(ctx)
			require.NoError(t, err)
			second, err := New(catalog).EnsureSeeded(ctx)
			require.NoError(t, err)

			testutil.Then(t, "only the first one inserts", func(t *testing.T) {
				assert.Equal(t, 6, first)
				assert.Equal(t, 0, second)

				count, err := catalog.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(6), count)
			})
		})
	})
}
