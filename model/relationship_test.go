package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRelationship(t *testing.T) {
	t.Run("Generates prefixed ID and clamps weight", func(t *testing.T) {
		relationship := NewRelationship("product_kit_kat", "brand_kit_kat", RelationshipBelongsTo, 0.9)
		assert.True(t, strings.HasPrefix(relationship.ID, "rel_"))
		assert.Len(t, relationship.ID, len("rel_")+8)
		assert.Equal(t, 0.9, relationship.Weight)

		clamped := NewRelationship("product_kit_kat", "brand_kit_kat", RelationshipBelongsTo, 1.5)
		assert.Equal(t, 1.0, clamped.Weight)
	})

	t.Run("Generates unique IDs", func(t *testing.T) {
		first := NewRelationship("a", "b", RelationshipRelatedTo, 0.5)
		second := NewRelationship("a", "b", RelationshipRelatedTo, 0.5)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestClampWeight(t *testing.T) {
	assert.Equal(t, 0.0, ClampWeight(-0.2))
	assert.Equal(t, 0.0, ClampWeight(0))
	assert.Equal(t, 0.5, ClampWeight(0.5))
	assert.Equal(t, 1.0, ClampWeight(1))
	assert.Equal(t, 1.0, ClampWeight(1.2))
}

func TestRelationshipTouches(t *testing.T) {
	relationship := NewRelationship("product_kit_kat", "brand_kit_kat", RelationshipBelongsTo, 0.9)

	assert.True(t, relationship.Touches("product_kit_kat"))
	assert.True(t, relationship.Touches("brand_kit_kat"))
	assert.False(t, relationship.Touches("topic_desserts"))
}

func TestRelationshipConnectedEntityID(t *testing.T) {
	relationship := NewRelationship("product_kit_kat", "brand_kit_kat", RelationshipBelongsTo, 0.9)

	assert.Equal(t, "brand_kit_kat", relationship.ConnectedEntityID("product_kit_kat"))
	assert.Equal(t, "product_kit_kat", relationship.ConnectedEntityID("brand_kit_kat"))
	assert.Equal(t, "", relationship.ConnectedEntityID("topic_desserts"))
}
