package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EntityType represents the type of a graph entity
type EntityType string

const (
	EntityTypeBrand   EntityType = "Brand"
	EntityTypeTopic   EntityType = "Topic"
	EntityTypeProduct EntityType = "Product"
	EntityTypeRecipe  EntityType = "Recipe"
)

// AllEntityTypes lists every supported entity type
var AllEntityTypes = []EntityType{
	EntityTypeBrand,
	EntityTypeTopic,
	EntityTypeProduct,
	EntityTypeRecipe,
}

// EntityProperties is the typed property set of an entity.
// Each entity type has its own variant with a fixed field schema.
type EntityProperties interface {
	Type() EntityType
	EntityName() string
	Validate(isUserCreated bool) error
}

// BrandProperties holds the properties of a Brand entity
type BrandProperties struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	ContentTypes []string `json:"content_types,omitempty"`
}

func (p BrandProperties) Type() EntityType   { return EntityTypeBrand }
func (p BrandProperties) EntityName() string { return p.Name }

func (p BrandProperties) Validate(isUserCreated bool) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("brand requires a non-empty name")
	}
	return nil
}

// TopicProperties holds the properties of a Topic entity
type TopicProperties struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

func (p TopicProperties) Type() EntityType   { return EntityTypeTopic }
func (p TopicProperties) EntityName() string { return p.Name }

func (p TopicProperties) Validate(isUserCreated bool) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("topic requires a non-empty name")
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("topic requires a non-empty category")
	}
	return nil
}

// ProductProperties holds the properties of a Product entity
type ProductProperties struct {
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

func (p ProductProperties) Type() EntityType   { return EntityTypeProduct }
func (p ProductProperties) EntityName() string { return p.Name }

func (p ProductProperties) Validate(isUserCreated bool) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product requires a non-empty name")
	}
	return nil
}

// RecipeProperties holds the properties of a Recipe entity
type RecipeProperties struct {
	Title                string   `json:"title"`
	RecipeType           string   `json:"recipe_type,omitempty"`
	Keywords             []string `json:"keywords,omitempty"`
	IngredientsMentioned []string `json:"ingredients_mentioned,omitempty"`
}

func (p RecipeProperties) Type() EntityType   { return EntityTypeRecipe }
func (p RecipeProperties) EntityName() string { return p.Title }

func (p RecipeProperties) Validate(isUserCreated bool) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("recipe requires a non-empty title")
	}
	return nil
}

// Entity represents a typed, named node in the knowledge graph.
// ChunkIDs back-reference the content chunks that mention the entity;
// this is an index, not an ownership relation.
type Entity struct {
	ID            string           `json:"id"`
	Type          EntityType       `json:"entity_type"`
	Properties    EntityProperties `json:"properties"`
	ChunkIDs      []string         `json:"chunk_ids,omitempty"`
	IsUserCreated bool             `json:"is_user_created"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewEntity creates a system-created entity with a deterministic ID derived
// from the entity type and normalized name, so re-extraction is idempotent.
func NewEntity(properties EntityProperties, chunkIDs []string) (*Entity, error) {
	if err := properties.Validate(false); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Entity{
		ID:         NewEntityID(properties.Type(), properties.EntityName()),
		Type:       properties.Type(),
		Properties: properties,
		ChunkIDs:   chunkIDs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewUserEntity creates a user-created entity. User-created entities carry no
// chunk back-references.
func NewUserEntity(properties EntityProperties) (*Entity, error) {
	if err := properties.Validate(true); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Entity{
		ID:            NewEntityID(properties.Type(), properties.EntityName()),
		Type:          properties.Type(),
		Properties:    properties,
		IsUserCreated: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewEntityID derives the stable entity ID from type and normalized name.
// Recipe slugs are truncated because recipe titles can be arbitrarily long.
func NewEntityID(entityType EntityType, name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = strings.ReplaceAll(slug, "-", "_")

	if entityType == EntityTypeRecipe && len(slug) > 50 {
		slug = slug[:50]
	}

	return fmt.Sprintf("%v_%v", strings.ToLower(string(entityType)), slug)
}

// Name returns the entity's display name
func (e *Entity) Name() string {
	if e.Properties == nil {
		return ""
	}
	return e.Properties.EntityName()
}

// MentionsChunk reports whether the entity back-references the given chunk ID
func (e *Entity) MentionsChunk(chunkID string) bool {
	for _, id := range e.ChunkIDs {
		if id == chunkID {
			return true
		}
	}
	return false
}

// entityJSON is the wire form of Entity with raw properties for decoding
type entityJSON struct {
	ID            string          `json:"id"`
	Type          EntityType      `json:"entity_type"`
	Properties    json.RawMessage `json:"properties"`
	ChunkIDs      []string        `json:"chunk_ids,omitempty"`
	IsUserCreated bool            `json:"is_user_created"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UnmarshalJSON decodes an entity, selecting the property variant by entity_type
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw entityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	properties, err := UnmarshalEntityProperties(raw.Type, raw.Properties)
	if err != nil {
		return err
	}

	e.ID = raw.ID
	e.Type = raw.Type
	e.Properties = properties
	e.ChunkIDs = raw.ChunkIDs
	e.IsUserCreated = raw.IsUserCreated
	e.CreatedAt = raw.CreatedAt
	e.UpdatedAt = raw.UpdatedAt

	return nil
}

// UnmarshalEntityProperties decodes raw JSON properties into the typed variant
// for the given entity type.
func UnmarshalEntityProperties(entityType EntityType, data []byte) (EntityProperties, error) {
	switch entityType {
	case EntityTypeBrand:
		var p BrandProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EntityTypeTopic:
		var p TopicProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EntityTypeProduct:
		var p ProductProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EntityTypeRecipe:
		var p RecipeProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown entity type %v", entityType)
	}
}
