package model

import "fmt"

// entityRequiredProperties lists the required property fields per entity type
var entityRequiredProperties = map[EntityType][]string{
	EntityTypeBrand:   {"name"},
	EntityTypeTopic:   {"name", "category"},
	EntityTypeProduct: {"name"},
	EntityTypeRecipe:  {"title"},
}

// entityOptionalProperties lists the optional property fields per entity type
// for system-created entities.
var entityOptionalProperties = map[EntityType][]string{
	EntityTypeBrand:   {"description", "category", "content_types", "chunk_count", "chunk_ids"},
	EntityTypeTopic:   {"description", "keywords", "chunk_count", "chunk_ids"},
	EntityTypeProduct: {"brand", "category", "description", "chunk_count", "chunk_ids"},
	EntityTypeRecipe:  {"recipe_type", "keywords", "ingredients_mentioned", "chunk_count", "chunk_ids"},
}

// userEntityOptionalProperties lists the optional property fields for
// user-created entities, which never carry chunk back-references.
var userEntityOptionalProperties = map[EntityType][]string{
	EntityTypeBrand:   {"description", "category", "content_types"},
	EntityTypeTopic:   {"description", "keywords"},
	EntityTypeProduct: {"brand", "category", "description"},
	EntityTypeRecipe:  {"recipe_type", "keywords", "ingredients_mentioned"},
}

// validRelationshipCombinations is the fixed compatibility table of allowed
// (from-type, to-type) -> relationship-type combinations.
var validRelationshipCombinations = map[EntityType]map[EntityType][]RelationshipType{
	EntityTypeProduct: {
		EntityTypeBrand:  {RelationshipBelongsTo},
		EntityTypeTopic:  {RelationshipFeaturedIn},
		EntityTypeRecipe: {RelationshipRelatedTo},
	},
	EntityTypeBrand: {
		EntityTypeTopic: {RelationshipFeaturedIn},
		EntityTypeBrand: {RelationshipRelatedTo},
	},
	EntityTypeTopic: {
		EntityTypeBrand:   {RelationshipMentions},
		EntityTypeProduct: {RelationshipMentions},
		EntityTypeTopic:   {RelationshipRelatedTo},
	},
	EntityTypeRecipe: {
		EntityTypeProduct: {RelationshipContains},
		EntityTypeBrand:   {RelationshipMentions},
		EntityTypeRecipe:  {RelationshipRelatedTo},
	},
}

// IsValidEntityType reports whether the entity type is one of the closed enumeration
func IsValidEntityType(entityType EntityType) bool {
	for _, t := range AllEntityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}

// IsValidRelationshipType reports whether the relationship type is supported
func IsValidRelationshipType(relType RelationshipType) bool {
	for _, t := range AllRelationshipTypes {
		if t == relType {
			return true
		}
	}
	return false
}

// ValidateEntityProperties validates typed entity properties against the schema
func ValidateEntityProperties(properties EntityProperties, isUserCreated bool) error {
	if properties == nil {
		return fmt.Errorf("entity properties are nil")
	}
	if !IsValidEntityType(properties.Type()) {
		return fmt.Errorf("invalid entity type %v", properties.Type())
	}
	return properties.Validate(isUserCreated)
}

// ValidateRelationship validates a relationship between two entity types
// against the compatibility table.
func ValidateRelationship(fromType, toType EntityType, relType RelationshipType) error {
	if !IsValidEntityType(fromType) {
		return fmt.Errorf("invalid source entity type %v", fromType)
	}
	if !IsValidEntityType(toType) {
		return fmt.Errorf("invalid target entity type %v", toType)
	}
	if !IsValidRelationshipType(relType) {
		return fmt.Errorf("invalid relationship type %v", relType)
	}

	allowed := validRelationshipCombinations[fromType][toType]
	if len(allowed) == 0 {
		return fmt.Errorf("no relationships allowed from %v to %v", fromType, toType)
	}
	for _, t := range allowed {
		if t == relType {
			return nil
		}
	}
	return fmt.Errorf("invalid relationship %v between %v and %v", relType, fromType, toType)
}

// EntitySchema describes the property schema of an entity type
type EntitySchema struct {
	EntityType         EntityType `json:"entity_type"`
	IsUserCreated      bool       `json:"is_user_created"`
	RequiredProperties []string   `json:"required_properties"`
	OptionalProperties []string   `json:"optional_properties"`
}

// GetEntitySchema returns the property schema for an entity type
func GetEntitySchema(entityType EntityType, isUserCreated bool) (*EntitySchema, error) {
	if !IsValidEntityType(entityType) {
		return nil, fmt.Errorf("invalid entity type %v", entityType)
	}

	optional := entityOptionalProperties[entityType]
	if isUserCreated {
		optional = userEntityOptionalProperties[entityType]
	}

	return &EntitySchema{
		EntityType:         entityType,
		IsUserCreated:      isUserCreated,
		RequiredProperties: entityRequiredProperties[entityType],
		OptionalProperties: optional,
	}, nil
}
