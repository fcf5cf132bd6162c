package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEntityType(t *testing.T) {
	for _, entityType := range AllEntityTypes {
		assert.True(t, IsValidEntityType(entityType))
	}
	assert.False(t, IsValidEntityType("Person"))
	assert.False(t, IsValidEntityType(""))
}

func TestIsValidRelationshipType(t *testing.T) {
	for _, relType := range AllRelationshipTypes {
		assert.True(t, IsValidRelationshipType(relType))
	}
	assert.False(t, IsValidRelationshipType("KNOWS"))
}

func TestValidateEntityProperties(t *testing.T) {
	t.Run("Accepts valid properties", func(t *testing.T) {
		assert.NoError(t, ValidateEntityProperties(BrandProperties{Name: "Kit Kat"}, false))
		assert.NoError(t, ValidateEntityProperties(TopicProperties{Name: "Desserts", Category: "food"}, true))
	})

	t.Run("Rejects nil properties", func(t *testing.T) {
		assert.Error(t, ValidateEntityProperties(nil, false))
	})

	t.Run("Rejects missing required fields", func(t *testing.T) {
		assert.Error(t, ValidateEntityProperties(BrandProperties{}, false))
		assert.Error(t, ValidateEntityProperties(TopicProperties{Name: "Desserts"}, false))
		assert.Error(t, ValidateEntityProperties(RecipeProperties{}, false))
	})
}

func TestValidateRelationship(t *testing.T) {
	t.Run("Accepts allowed combinations", func(t *testing.T) {
		assert.NoError(t, ValidateRelationship(EntityTypeProduct, EntityTypeBrand, RelationshipBelongsTo))
		assert.NoError(t, ValidateRelationship(EntityTypeBrand, EntityTypeTopic, RelationshipFeaturedIn))
		assert.NoError(t, ValidateRelationship(EntityTypeRecipe, EntityTypeProduct, RelationshipContains))
		assert.NoError(t, ValidateRelationship(EntityTypeTopic, EntityTypeTopic, RelationshipRelatedTo))
	})

	t.Run("Rejects disallowed combinations", func(t *testing.T) {
		assert.Error(t, ValidateRelationship(EntityTypeBrand, EntityTypeProduct, RelationshipBelongsTo))
		assert.Error(t, ValidateRelationship(EntityTypeProduct, EntityTypeBrand, RelationshipContains))
		assert.Error(t, ValidateRelationship(EntityTypeBrand, EntityTypeRecipe, RelationshipMentions))
	})

	t.Run("Rejects invalid types", func(t *testing.T) {
		assert.Error(t, ValidateRelationship("Person", EntityTypeBrand, RelationshipMentions))
		assert.Error(t, ValidateRelationship(EntityTypeBrand, "Person", RelationshipMentions))
		assert.Error(t, ValidateRelationship(EntityTypeBrand, EntityTypeTopic, "KNOWS"))
	})
}

func TestGetEntitySchema(t *testing.T) {
	t.Run("Returns schema for system entities", func(t *testing.T) {
		schema, err := GetEntitySchema(EntityTypeTopic, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "category"}, schema.RequiredProperties)
		assert.Contains(t, schema.OptionalProperties, "chunk_ids")
	})

	t.Run("User entity schema excludes chunk back-references", func(t *testing.T) {
		schema, err := GetEntitySchema(EntityTypeTopic, true)
		require.NoError(t, err)
		assert.NotContains(t, schema.OptionalProperties, "chunk_ids")
		assert.NotContains(t, schema.OptionalProperties, "chunk_count")
	})

	t.Run("Rejects invalid entity type", func(t *testing.T) {
		_, err := GetEntitySchema("Person", false)
		assert.Error(t, err)
	})
}
