package retrieval

import (
	"context"

	"github.com/siherrmann/graphrag/core/graph"
	"github.com/siherrmann/graphrag/model"
)

// SearchIndex defines the external vector/keyword search collaborator.
// Returned chunks carry a similarity score normalized to [0, 1].
type SearchIndex interface {
	Search(ctx context.Context, query string, filters model.SearchFilters, top int, skip int) ([]*model.Chunk, error)
}

// GraphStore defines the read path of the external graph store. The engine
// never writes to the graph.
type GraphStore interface {
	graph.Store
	FindEntitiesByType(ctx context.Context, entityType model.EntityType, limit int) ([]*model.Entity, error)
	FindEntitiesByChunkIDs(ctx context.Context, chunkIDs []string) ([]*model.Entity, error)
}
