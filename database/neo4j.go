package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/siherrmann/graphrag/core/graph"
	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
)

// Neo4jGraphStore is an alternative graph store backed by a Neo4j database.
// Entities are stored as nodes labelled `Entity` and relationships as typed
// edges carrying a weight property. It serves deployments where the knowledge
// graph already lives in Neo4j instead of the Postgres tables.
type Neo4jGraphStore struct {
	driver neo4j.DriverWithContext
	log    *slog.Logger
}

// NewNeo4jGraphStore creates a graph store over a Neo4j connection.
func NewNeo4jGraphStore(url, username, password string, logger *slog.Logger) (*Neo4jGraphStore, error) {
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, helper.NewError("create neo4j driver", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Neo4jGraphStore{
		driver: driver,
		log:    logger,
	}, nil
}

// Close closes the underlying driver.
func (s *Neo4jGraphStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// InsertEntity upserts an entity node keyed by its ID.
func (s *Neo4jGraphStore) InsertEntity(ctx context.Context, entity *model.Entity) error {
	properties, err := json.Marshal(entity.Properties)
	if err != nil {
		return helper.NewError("marshal properties", err)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (e:Entity {id: $id})
			SET e.entity_type = $entityType,
				e.name = $name,
				e.properties = $properties,
				e.chunk_ids = $chunkIDs,
				e.is_user_created = $isUserCreated,
				e.updated_at = datetime()
			ON CREATE SET e.created_at = datetime()
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"id":            entity.ID,
			"entityType":    string(entity.Type),
			"name":          entity.Name(),
			"properties":    string(properties),
			"chunkIDs":      entity.ChunkIDs,
			"isUserCreated": entity.IsUserCreated,
		})
		return nil, err
	})
	if err != nil {
		return helper.NewError("upsert entity", err)
	}

	return nil
}

// InsertRelationship upserts a weighted relationship between two existing entity nodes.
func (s *Neo4jGraphStore) InsertRelationship(ctx context.Context, relationship *model.Relationship) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (from:Entity {id: $fromID})
			MATCH (to:Entity {id: $toID})
			MERGE (from)-[r:RELATES {id: $id}]->(to)
			SET r.relationship_type = $relType,
				r.weight = $weight,
				r.is_user_created = $isUserCreated
		`
		result, err := tx.Run(ctx, query, map[string]any{
			"id":            relationship.ID,
			"fromID":        relationship.FromEntityID,
			"toID":          relationship.ToEntityID,
			"relType":       string(relationship.Type),
			"weight":        relationship.Weight,
			"isUserCreated": relationship.IsUserCreated,
		})
		if err != nil {
			return nil, err
		}
		return nil, result.Err()
	})
	if err != nil {
		return helper.NewError("upsert relationship", err)
	}

	return nil
}

// GetEntity returns the entity with the given ID, or nil if none exists.
func (s *Neo4jGraphStore) GetEntity(ctx context.Context, id string) (*model.Entity, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, `MATCH (e:Entity {id: $id}) RETURN e`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return nil, helper.NewError("query entity", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		return nil, nil
	}

	return entityFromRecord(records[0], "e")
}

// GetEntityRelationships returns the relationships touching an entity in the given direction.
func (s *Neo4jGraphStore) GetEntityRelationships(ctx context.Context, entityID string, direction graph.Direction) ([]*model.Relationship, error) {
	var pattern string
	switch direction {
	case graph.DirectionOut:
		pattern = `MATCH (e:Entity {id: $id})-[r:RELATES]->(other:Entity)`
	case graph.DirectionIn:
		pattern = `MATCH (e:Entity {id: $id})<-[r:RELATES]-(other:Entity)`
	case graph.DirectionBoth:
		pattern = `MATCH (e:Entity {id: $id})-[r:RELATES]-(other:Entity)`
	default:
		return nil, helper.NewError("direction validation", fmt.Errorf("unknown direction %v", direction))
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := pattern + ` RETURN r, startNode(r).id AS fromID, endNode(r).id AS toID ORDER BY r.id`
		records, err := tx.Run(ctx, query, map[string]any{"id": entityID})
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return nil, helper.NewError("query relationships", err)
	}

	var relationships []*model.Relationship
	for _, record := range result.([]*neo4j.Record) {
		relationship, err := relationshipFromRecord(record)
		if err != nil {
			return nil, err
		}
		relationships = append(relationships, relationship)
	}

	return relationships, nil
}

// FindEntitiesByType returns up to limit entities of the given type ordered by name.
func (s *Neo4jGraphStore) FindEntitiesByType(ctx context.Context, entityType model.EntityType, limit int) ([]*model.Entity, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity {entity_type: $entityType})
			RETURN e ORDER BY e.name LIMIT $limit
		`
		records, err := tx.Run(ctx, query, map[string]any{
			"entityType": string(entityType),
			"limit":      limit,
		})
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return nil, helper.NewError("query entities by type", err)
	}

	return entitiesFromRecords(result.([]*neo4j.Record))
}

// FindEntitiesByChunkIDs returns all entities mentioning at least one of the given chunks.
func (s *Neo4jGraphStore) FindEntitiesByChunkIDs(ctx context.Context, chunkIDs []string) ([]*model.Entity, error) {
	if len(chunkIDs) == 0 {
		return nil, nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity)
			WHERE any(chunkID IN e.chunk_ids WHERE chunkID IN $chunkIDs)
			RETURN e ORDER BY e.id
		`
		records, err := tx.Run(ctx, query, map[string]any{"chunkIDs": chunkIDs})
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return nil, helper.NewError("query entities by chunk ids", err)
	}

	return entitiesFromRecords(result.([]*neo4j.Record))
}

func entitiesFromRecords(records []*neo4j.Record) ([]*model.Entity, error) {
	var entities []*model.Entity
	for _, record := range records {
		entity, err := entityFromRecord(record, "e")
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func entityFromRecord(record *neo4j.Record, key string) (*model.Entity, error) {
	value, ok := record.Get(key)
	if !ok {
		return nil, helper.NewError("read record", fmt.Errorf("missing node %v", key))
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return nil, helper.NewError("read record", fmt.Errorf("unexpected value for node %v", key))
	}

	entityType := model.EntityType(stringProp(node.Props, "entity_type"))
	properties, err := model.UnmarshalEntityProperties(entityType, []byte(stringProp(node.Props, "properties")))
	if err != nil {
		return nil, helper.NewError("unmarshal properties", err)
	}

	entity := &model.Entity{
		ID:            stringProp(node.Props, "id"),
		Type:          entityType,
		Properties:    properties,
		IsUserCreated: boolProp(node.Props, "is_user_created"),
	}
	if chunkIDs, ok := node.Props["chunk_ids"].([]any); ok {
		for _, chunkID := range chunkIDs {
			if id, ok := chunkID.(string); ok {
				entity.ChunkIDs = append(entity.ChunkIDs, id)
			}
		}
	}
	if createdAt, ok := node.Props["created_at"].(time.Time); ok {
		entity.CreatedAt = createdAt
	}
	if updatedAt, ok := node.Props["updated_at"].(time.Time); ok {
		entity.UpdatedAt = updatedAt
	}

	return entity, nil
}

func relationshipFromRecord(record *neo4j.Record) (*model.Relationship, error) {
	value, ok := record.Get("r")
	if !ok {
		return nil, helper.NewError("read record", fmt.Errorf("missing relationship"))
	}
	edge, ok := value.(neo4j.Relationship)
	if !ok {
		return nil, helper.NewError("read record", fmt.Errorf("unexpected value for relationship"))
	}

	fromID, _ := record.Get("fromID")
	toID, _ := record.Get("toID")

	relationship := &model.Relationship{
		ID:            stringProp(edge.Props, "id"),
		Type:          model.RelationshipType(stringProp(edge.Props, "relationship_type")),
		Weight:        floatProp(edge.Props, "weight"),
		IsUserCreated: boolProp(edge.Props, "is_user_created"),
	}
	if id, ok := fromID.(string); ok {
		relationship.FromEntityID = id
	}
	if id, ok := toID.(string); ok {
		relationship.ToEntityID = id
	}

	return relationship, nil
}

func stringProp(props map[string]any, key string) string {
	if value, ok := props[key].(string); ok {
		return value
	}
	return ""
}

func boolProp(props map[string]any, key string) bool {
	if value, ok := props[key].(bool); ok {
		return value
	}
	return false
}

func floatProp(props map[string]any, key string) float64 {
	if value, ok := props[key].(float64); ok {
		return value
	}
	return 0
}
