package database

import (
	"context"
	"testing"

	"github.com/siherrmann/graphrag/core/pipeline"
	"github.com/siherrmann/graphrag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEmbedder returns fixed vectors per known term so similarity ordering is
// deterministic without a real embedding model.
func testEmbedder() pipeline.EmbedFunc {
	vectors := map[string][]float32{
		"chocolate": {1, 0, 0},
		"coffee":    {0, 1, 0},
	}
	return func(text string) ([]float32, error) {
		if vector, ok := vectors[text]; ok {
			return vector, nil
		}
		return []float32{0, 0, 1}, nil
	}
}

func TestSearchNewSearchDBHandler(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	t.Run("Valid call NewSearchDBHandler", func(t *testing.T) {
		searchDbHandler, err := NewSearchDBHandler(chunksDbHandler, testEmbedder())
		assert.NoError(t, err)
		assert.NotNil(t, searchDbHandler)
	})

	t.Run("Invalid call NewSearchDBHandler with nil chunks handler", func(t *testing.T) {
		_, err := NewSearchDBHandler(nil, testEmbedder())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "chunks handler is nil")
	})

	t.Run("Invalid call NewSearchDBHandler with nil embedder", func(t *testing.T) {
		_, err := NewSearchDBHandler(chunksDbHandler, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "embedder is nil")
	})
}

func TestSearchSearch(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	searchDbHandler, err := NewSearchDBHandler(chunksDbHandler, testEmbedder())
	require.NoError(t, err)

	chocolate := &model.Chunk{
		URL:     "https://example.com/search/chocolate",
		Content: "Chocolate treats for every occasion.",
	}
	coffee := &model.Chunk{
		URL:     "https://example.com/search/coffee",
		Content: "Morning coffee rituals.",
	}
	require.NoError(t, chunksDbHandler.InsertChunk(chocolate, []float32{1, 0, 0}))
	require.NoError(t, chunksDbHandler.InsertChunk(coffee, []float32{0, 1, 0}))

	t.Run("Search embeds the query and ranks by similarity", func(t *testing.T) {
		results, err := searchDbHandler.Search(context.Background(), "chocolate", model.SearchFilters{}, 10, 0)
		assert.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, chocolate.ID, results[0].ID)
	})

	t.Run("Search respects cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := searchDbHandler.Search(ctx, "chocolate", model.SearchFilters{}, 10, 0)
		assert.Error(t, err)
	})

	// Cleanup
	chunksDbHandler.DeleteChunk(chocolate.ID)
	chunksDbHandler.DeleteChunk(coffee.ID)
}
