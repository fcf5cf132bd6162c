package database

import (
	"context"
	"fmt"

	"github.com/siherrmann/graphrag/core/pipeline"
	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
)

// SearchDBHandler runs vector similarity search over the chunks table.
// Queries are embedded with the injected embedder before being handed to pgvector.
type SearchDBHandler struct {
	chunks   *ChunksDBHandler
	embedder pipeline.EmbedFunc
}

// NewSearchDBHandler creates a new search handler over an initialized chunks handler.
func NewSearchDBHandler(chunks *ChunksDBHandler, embedder pipeline.EmbedFunc) (*SearchDBHandler, error) {
	if chunks == nil {
		return nil, helper.NewError("chunks handler validation", fmt.Errorf("chunks handler is nil"))
	}
	if embedder == nil {
		return nil, helper.NewError("embedder validation", fmt.Errorf("embedder is nil"))
	}

	return &SearchDBHandler{
		chunks:   chunks,
		embedder: embedder,
	}, nil
}

// Search embeds the query and returns the most similar chunks ordered by
// descending cosine similarity.
func (h *SearchDBHandler) Search(ctx context.Context, query string, filters model.SearchFilters, top int, skip int) ([]*model.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embedding, err := h.embedder(query)
	if err != nil {
		return nil, helper.NewError("embed query", err)
	}

	chunks, err := h.chunks.SelectChunksBySimilarity(embedding, &filters, top, skip)
	if err != nil {
		return nil, helper.NewError("select chunks by similarity", err)
	}

	return chunks, nil
}
