package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RelationshipType represents the type of a directed edge between entities
type RelationshipType string

const (
	RelationshipBelongsTo  RelationshipType = "BELONGS_TO"  // Product -> Brand
	RelationshipMentions   RelationshipType = "MENTIONS"    // Topic/Recipe -> Brand/Product
	RelationshipContains   RelationshipType = "CONTAINS"    // Recipe -> Product
	RelationshipRelatedTo  RelationshipType = "RELATED_TO"  // Generic
	RelationshipFeaturedIn RelationshipType = "FEATURED_IN" // Brand/Product -> Topic
)

// AllRelationshipTypes lists every supported relationship type
var AllRelationshipTypes = []RelationshipType{
	RelationshipBelongsTo,
	RelationshipMentions,
	RelationshipContains,
	RelationshipRelatedTo,
	RelationshipFeaturedIn,
}

// Relationship represents a typed, weighted directed edge between two entities
type Relationship struct {
	ID            string           `json:"id"`
	Type          RelationshipType `json:"relationship_type"`
	FromEntityID  string           `json:"from_entity_id"`
	ToEntityID    string           `json:"to_entity_id"`
	Weight        float64          `json:"weight"`
	Properties    Metadata         `json:"properties,omitempty"`
	IsUserCreated bool             `json:"is_user_created"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewRelationship creates a relationship with a generated ID and clamped weight
func NewRelationship(fromEntityID, toEntityID string, relType RelationshipType, weight float64) *Relationship {
	now := time.Now().UTC()
	return &Relationship{
		ID:           fmt.Sprintf("rel_%v", strings.ReplaceAll(uuid.New().String(), "-", "")[:8]),
		Type:         relType,
		FromEntityID: fromEntityID,
		ToEntityID:   toEntityID,
		Weight:       ClampWeight(weight),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ClampWeight clamps a relationship weight to [0, 1]
func ClampWeight(weight float64) float64 {
	if weight < 0 {
		return 0
	}
	if weight > 1 {
		return 1
	}
	return weight
}

// Touches reports whether the relationship has the given entity at either end
func (r *Relationship) Touches(entityID string) bool {
	return r.FromEntityID == entityID || r.ToEntityID == entityID
}

// ConnectedEntityID returns the endpoint opposite to the given entity.
// If the relationship does not touch the entity it returns an empty string.
func (r *Relationship) ConnectedEntityID(entityID string) string {
	switch entityID {
	case r.FromEntityID:
		return r.ToEntityID
	case r.ToEntityID:
		return r.FromEntityID
	default:
		return ""
	}
}
