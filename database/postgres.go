package database

import (
	"context"
	"fmt"

	"github.com/siherrmann/graphrag/core/graph"
	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
)

// PostgresGraphStore exposes the entities and relationships handlers as a
// graph store for retrieval and traversal.
type PostgresGraphStore struct {
	entities      *EntitiesDBHandler
	relationships *RelationshipsDBHandler
}

// NewPostgresGraphStore creates a graph store over initialized handlers.
func NewPostgresGraphStore(entities *EntitiesDBHandler, relationships *RelationshipsDBHandler) (*PostgresGraphStore, error) {
	if entities == nil || relationships == nil {
		return nil, helper.NewError("handler validation", fmt.Errorf("entities and relationships handlers are required"))
	}

	return &PostgresGraphStore{
		entities:      entities,
		relationships: relationships,
	}, nil
}

// GetEntity returns the entity with the given ID, or nil if none exists.
func (s *PostgresGraphStore) GetEntity(ctx context.Context, id string) (*model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.entities.SelectEntity(id)
}

// GetEntityRelationships returns the relationships touching an entity in the given direction.
func (s *PostgresGraphStore) GetEntityRelationships(ctx context.Context, entityID string, direction graph.Direction) ([]*model.Relationship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch direction {
	case graph.DirectionOut:
		return s.relationships.SelectRelationshipsFromEntity(entityID)
	case graph.DirectionIn:
		return s.relationships.SelectRelationshipsToEntity(entityID)
	case graph.DirectionBoth:
		return s.relationships.SelectRelationshipsConnectedToEntity(entityID)
	default:
		return nil, helper.NewError("direction validation", fmt.Errorf("unknown direction %v", direction))
	}
}

// FindEntitiesByType returns up to limit entities of the given type ordered by name.
func (s *PostgresGraphStore) FindEntitiesByType(ctx context.Context, entityType model.EntityType, limit int) ([]*model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.entities.SelectEntitiesByType(entityType, limit)
}

// FindEntitiesByChunkIDs returns all entities mentioning at least one of the given chunks.
func (s *PostgresGraphStore) FindEntitiesByChunkIDs(ctx context.Context, chunkIDs []string) ([]*model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(chunkIDs) == 0 {
		return nil, nil
	}
	return s.entities.SelectEntitiesByChunkIDs(chunkIDs)
}
