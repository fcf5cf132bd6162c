package database

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/siherrmann/graphrag/core/graph"
	"github.com/siherrmann/graphrag/model"
)

// MemoryGraphStore is an in-memory graph store for tests and small corpora.
// All methods are safe for concurrent use.
type MemoryGraphStore struct {
	mu            sync.RWMutex
	entities      map[string]*model.Entity
	relationships map[string]*model.Relationship
	// chunkIndex maps chunk IDs to the IDs of entities mentioning them.
	chunkIndex map[string][]string
}

// NewMemoryGraphStore creates an empty in-memory graph store.
func NewMemoryGraphStore() *MemoryGraphStore {
	return &MemoryGraphStore{
		entities:      map[string]*model.Entity{},
		relationships: map[string]*model.Relationship{},
		chunkIndex:    map[string][]string{},
	}
}

// AddEntity inserts or replaces an entity.
func (s *MemoryGraphStore) AddEntity(entity *model.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entities[entity.ID]; ok {
		for _, chunkID := range old.ChunkIDs {
			s.chunkIndex[chunkID] = removeString(s.chunkIndex[chunkID], entity.ID)
		}
	}

	s.entities[entity.ID] = entity
	for _, chunkID := range entity.ChunkIDs {
		s.chunkIndex[chunkID] = append(s.chunkIndex[chunkID], entity.ID)
	}
}

// AddRelationship inserts or replaces a relationship.
func (s *MemoryGraphStore) AddRelationship(relationship *model.Relationship) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships[relationship.ID] = relationship
}

// GetEntity returns the entity with the given ID, or nil if none exists.
func (s *MemoryGraphStore) GetEntity(ctx context.Context, id string) (*model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities[id], nil
}

// GetEntityRelationships returns the relationships touching an entity in the given direction.
func (s *MemoryGraphStore) GetEntityRelationships(ctx context.Context, entityID string, direction graph.Direction) ([]*model.Relationship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var relationships []*model.Relationship
	for _, relationship := range s.relationships {
		switch direction {
		case graph.DirectionOut:
			if relationship.FromEntityID != entityID {
				continue
			}
		case graph.DirectionIn:
			if relationship.ToEntityID != entityID {
				continue
			}
		default:
			if !relationship.Touches(entityID) {
				continue
			}
		}
		relationships = append(relationships, relationship)
	}

	sort.Slice(relationships, func(i, j int) bool {
		return relationships[i].ID < relationships[j].ID
	})

	return relationships, nil
}

// FindEntitiesByType returns up to limit entities of the given type ordered by name.
func (s *MemoryGraphStore) FindEntitiesByType(ctx context.Context, entityType model.EntityType, limit int) ([]*model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entities []*model.Entity
	for _, entity := range s.entities {
		if entity.Type == entityType {
			entities = append(entities, entity)
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Name() < entities[j].Name()
	})

	if limit > 0 && len(entities) > limit {
		entities = entities[:limit]
	}

	return entities, nil
}

// FindEntitiesByChunkIDs returns all entities mentioning at least one of the given chunks.
func (s *MemoryGraphStore) FindEntitiesByChunkIDs(ctx context.Context, chunkIDs []string) ([]*model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	var entities []*model.Entity
	for _, chunkID := range chunkIDs {
		for _, entityID := range s.chunkIndex[chunkID] {
			if seen[entityID] {
				continue
			}
			seen[entityID] = true
			entities = append(entities, s.entities[entityID])
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ID < entities[j].ID
	})

	return entities, nil
}

// MemorySearchIndex is an in-memory search index for tests. It scores chunks
// by naive term overlap between the query and the chunk content, which is
// enough to exercise the retrieval flow without an embedding model.
type MemorySearchIndex struct {
	mu     sync.RWMutex
	chunks []*model.Chunk
}

// NewMemorySearchIndex creates an empty in-memory search index.
func NewMemorySearchIndex() *MemorySearchIndex {
	return &MemorySearchIndex{}
}

// AddChunk adds a chunk to the index.
func (s *MemorySearchIndex) AddChunk(chunk *model.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunk)
}

// Search returns chunks matching the filters ordered by descending term overlap score.
func (s *MemorySearchIndex) Search(ctx context.Context, query string, filters model.SearchFilters, top int, skip int) ([]*model.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))

	var results []*model.Chunk
	for _, chunk := range s.chunks {
		if !matchesFilters(chunk, filters) {
			continue
		}

		content := strings.ToLower(chunk.Content)
		matched := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		scored := *chunk
		scored.Score = float64(matched) / float64(len(terms))
		results = append(results, &scored)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if skip >= len(results) {
		return nil, nil
	}
	results = results[skip:]
	if top > 0 && len(results) > top {
		results = results[:top]
	}

	return results, nil
}

func matchesFilters(chunk *model.Chunk, filters model.SearchFilters) bool {
	if filters.ContentType != "" && chunk.ContentType != filters.ContentType {
		return false
	}
	if filters.Brand != "" && chunk.Brand != filters.Brand {
		return false
	}
	if len(filters.Keywords) > 0 {
		found := false
		for _, want := range filters.Keywords {
			for _, have := range chunk.Keywords {
				if strings.EqualFold(want, have) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func removeString(values []string, value string) []string {
	filtered := values[:0]
	for _, v := range values {
		if v != value {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
