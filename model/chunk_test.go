package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkJoinKey(t *testing.T) {
	t.Run("Replaces slashes with underscores", func(t *testing.T) {
		key := ChunkJoinKey("https://example.com/recipes/brownies", 0, 2)
		assert.Equal(t, "https:__example.com_recipes_brownies_0_2", key)
	})

	t.Run("Includes both indexes", func(t *testing.T) {
		assert.NotEqual(t,
			ChunkJoinKey("page", 0, 1),
			ChunkJoinKey("page", 1, 0),
		)
	})

	t.Run("Chunk JoinKey matches package function", func(t *testing.T) {
		chunk := &Chunk{URL: "https://example.com/page", DocIndex: 3, ChunkIndex: 7}
		assert.Equal(t, ChunkJoinKey(chunk.URL, 3, 7), chunk.JoinKey())
	})
}
