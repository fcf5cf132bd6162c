package retrieval

import (
	"context"
	"log/slog"

	"github.com/siherrmann/graphrag/model"
)

// Linker finds graph entities that back-reference vector search results via
// the chunk join key stored in each entity's chunk_ids.
type Linker struct {
	store GraphStore
	log   *slog.Logger
}

// NewLinker creates a result entity linker
func NewLinker(store GraphStore, logger *slog.Logger) *Linker {
	return &Linker{
		store: store,
		log:   logger,
	}
}

// LinkEntities returns the deduplicated union of all entities referencing any
// of the given chunks. Chunks without any referencing entity contribute nothing.
func (l *Linker) LinkEntities(ctx context.Context, chunks []*model.Chunk) ([]*model.Entity, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	chunkIDs := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		chunkIDs = append(chunkIDs, chunk.JoinKey())
	}

	entities, err := l.store.FindEntitiesByChunkIDs(ctx, chunkIDs)
	if err != nil {
		return nil, err
	}

	var linked []*model.Entity
	seen := make(map[string]bool, len(entities))
	for _, entity := range entities {
		if seen[entity.ID] {
			continue
		}
		seen[entity.ID] = true
		linked = append(linked, entity)
		l.log.Debug("Found result entity", slog.String("entity_id", entity.ID), slog.String("entity_type", string(entity.Type)))
	}

	return linked, nil
}
