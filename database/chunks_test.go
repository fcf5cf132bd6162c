package database

import (
	"testing"

	"github.com/siherrmann/graphrag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmbeddingDim = 3

func TestChunksNewChunksDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewChunksDBHandler", func(t *testing.T) {
		chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
		assert.NoError(t, err, "Expected NewChunksDBHandler to not return an error")
		require.NotNil(t, chunksDbHandler, "Expected NewChunksDBHandler to return a non-nil instance")
		require.NotNil(t, chunksDbHandler.db, "Expected NewChunksDBHandler to have a non-nil database instance")
	})

	t.Run("Invalid call NewChunksDBHandler with nil database", func(t *testing.T) {
		_, err := NewChunksDBHandler(nil, testEmbeddingDim, false)
		assert.Error(t, err, "Expected error when creating ChunksDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestChunksInsertAndSelect(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	t.Run("Insert chunk derives join key ID", func(t *testing.T) {
		chunk := &model.Chunk{
			URL:        "https://example.com/recipes",
			Content:    "Kit Kat brownie recipe with melted chocolate.",
			PageTitle:  "Kit Kat Brownies",
			DocIndex:   0,
			ChunkIndex: 1,
		}

		err := chunksDbHandler.InsertChunk(chunk, []float32{1, 0, 0})
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.Equal(t, "https:__example.com_recipes_0_1", chunk.ID, "Expected ID derived from url and indexes")

		retrieved, err := chunksDbHandler.SelectChunk(chunk.ID)
		assert.NoError(t, err)
		require.NotNil(t, retrieved)
		assert.Equal(t, chunk.Content, retrieved.Content)
		assert.Equal(t, chunk.PageTitle, retrieved.PageTitle)

		// Cleanup
		chunksDbHandler.DeleteChunk(chunk.ID)
	})

	t.Run("Select missing chunk returns nil", func(t *testing.T) {
		retrieved, err := chunksDbHandler.SelectChunk("missing_chunk_0_0")
		assert.NoError(t, err)
		assert.Nil(t, retrieved)
	})
}

func TestChunksSelectBySimilarity(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	chocolate := &model.Chunk{
		URL:         "https://example.com/chocolate",
		Content:     "Chocolate treats for every occasion.",
		ContentType: "article",
		Brand:       "Kit Kat",
		Keywords:    []string{"chocolate", "treats"},
	}
	coffee := &model.Chunk{
		URL:         "https://example.com/coffee",
		Content:     "Morning coffee rituals.",
		ContentType: "article",
		Brand:       "Nescafe",
		Keywords:    []string{"coffee"},
	}

	require.NoError(t, chunksDbHandler.InsertChunk(chocolate, []float32{1, 0, 0}))
	require.NoError(t, chunksDbHandler.InsertChunk(coffee, []float32{0, 1, 0}))

	t.Run("Orders results by similarity", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity([]float32{1, 0, 0}, nil, 10, 0)
		assert.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, chocolate.ID, results[0].ID, "Expected closest chunk first")
		assert.Greater(t, results[0].Score, results[1].Score, "Expected descending similarity scores")
		assert.InDelta(t, 1.0, results[0].Score, 0.0001, "Expected identical vectors to score 1.0")
	})

	t.Run("Nil keyword slice matches every row", func(t *testing.T) {
		// A zero-value filter serializes its nil Keywords slice as SQL NULL;
		// the keyword predicate must not exclude rows in that case.
		results, err := chunksDbHandler.SelectChunksBySimilarity([]float32{1, 0, 0}, &model.SearchFilters{}, 10, 0)
		assert.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("Applies brand filter", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity([]float32{1, 0, 0}, &model.SearchFilters{Brand: "Nescafe"}, 10, 0)
		assert.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, coffee.ID, results[0].ID)
	})

	t.Run("Applies keyword filter", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity([]float32{0, 0, 1}, &model.SearchFilters{Keywords: []string{"treats"}}, 10, 0)
		assert.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, chocolate.ID, results[0].ID)
	})

	t.Run("Respects limit and offset", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity([]float32{1, 0, 0}, nil, 1, 0)
		assert.NoError(t, err)
		assert.Len(t, results, 1)

		results, err = chunksDbHandler.SelectChunksBySimilarity([]float32{1, 0, 0}, nil, 1, 1)
		assert.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, coffee.ID, results[0].ID)
	})

	// Cleanup
	chunksDbHandler.DeleteChunk(chocolate.ID)
	chunksDbHandler.DeleteChunk(coffee.ID)
}
