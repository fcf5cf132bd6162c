package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/siherrmann/graphrag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractQueryEntities(t *testing.T) {
	store := newFakeGraphStore()
	brand := store.addEntity(t, model.BrandProperties{Name: "Kit Kat"}, nil)
	product := store.addEntity(t, model.ProductProperties{Name: "Kit Kat Chunky", Brand: "Kit Kat"}, nil)
	store.addEntity(t, model.TopicProperties{Name: "Coffee Pairings", Category: "beverages"}, nil)

	analyzer := NewAnalyzer(store, 100, testLogger())

	t.Run("Matches entity names case-insensitively", func(t *testing.T) {
		entities, err := analyzer.ExtractQueryEntities(context.Background(), "Where to buy KIT KAT CHUNKY bars")
		require.NoError(t, err)
		require.Len(t, entities, 2)

		ids := []string{entities[0].ID, entities[1].ID}
		assert.Contains(t, ids, brand.ID)
		assert.Contains(t, ids, product.ID)
	})

	t.Run("Only full name occurrences match", func(t *testing.T) {
		entities, err := analyzer.ExtractQueryEntities(context.Background(), "kit kat promotions")
		require.NoError(t, err)
		require.Len(t, entities, 1, "Expected the product name to not match on its brand prefix alone")
		assert.Equal(t, brand.ID, entities[0].ID)
	})

	t.Run("No match is not an error", func(t *testing.T) {
		entities, err := analyzer.ExtractQueryEntities(context.Background(), "quantum computing")
		require.NoError(t, err)
		assert.Empty(t, entities)
	})

	t.Run("Store failure propagates", func(t *testing.T) {
		failing := newFakeGraphStore()
		failing.findByTypeErr = fmt.Errorf("connection refused")
		analyzer := NewAnalyzer(failing, 100, testLogger())

		_, err := analyzer.ExtractQueryEntities(context.Background(), "kit kat")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
