package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "storefront/pkg/domain-errors"
)

func TestSeedItemsAreValidAndUnique(t *testing.T) {
	items := SeedItems()
	require.Len(t, items, 6)

	seen := map[string]bool{}
	featured := 0
	for _, item := range items {
		require.NoError(t, item.Validate(), item.ID)
		assert.False(t, seen[item.ID], "duplicate seed id %s", item.ID)
		seen[item.ID] = true
		if item.IsFeatured {
			featured++
		}
	}
	assert.Equal(t, 5, featured)
	assert.Equal(t, "luxury-suit", items[0].ID)
	assert.Equal(t, "trench-coat", items[5].ID)
}

func TestSeedItemsReturnsFreshValues(t *testing.T) {
	a := SeedItems()
	a[0].Highlights[0] = "mutated"
	*a[0].Price = 1

	b := SeedItems()
	assert.Equal(t, "100% Virgin Wool", b[0].Highlights[0])
	assert.Equal(t, 1200.0, *b[0].Price)
}

func TestValidate(t *testing.T) {
	t.Run("reports every missing field", func(t *testing.T) {
		item := &Item{ID: "x", Title: "X"}
		err := item.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "catalog item missing category, description, image", err.Error())
	})

	t.Run("price is optional", func(t *testing.T) {
		item := &Item{ID: "portfolio", Category: "Web", Title: "Site", Description: "d", Image: "https://example.com/a.png"}
		assert.NoError(t, item.Validate())
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		item := &Item{ID: "x", Category: "c", Title: "t", Description: "d", Image: "i", Price: Price(-1)}
		assert.Error(t, item.Validate())
	})
}

func TestClone(t *testing.T) {
	orig := SeedItems()[0]
	c := orig.Clone()
	c.Highlights[0] = "changed"
	*c.Price = 5

	assert.Equal(t, "100% Virgin Wool", orig.Highlights[0])
	assert.Equal(t, 1200.0, *orig.Price)
}
