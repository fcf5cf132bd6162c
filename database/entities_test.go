package database

import (
	"testing"
	"time"

	"github.com/siherrmann/graphrag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitiesNewEntitiesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewEntitiesDBHandler", func(t *testing.T) {
		entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
		assert.NoError(t, err, "Expected NewEntitiesDBHandler to not return an error")
		require.NotNil(t, entitiesDbHandler, "Expected NewEntitiesDBHandler to return a non-nil instance")
		require.NotNil(t, entitiesDbHandler.db, "Expected NewEntitiesDBHandler to have a non-nil database instance")
		require.NotNil(t, entitiesDbHandler.db.Instance, "Expected NewEntitiesDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewEntitiesDBHandler with nil database", func(t *testing.T) {
		_, err := NewEntitiesDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating EntitiesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestEntitiesInsert(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err, "Expected NewEntitiesDBHandler to not return an error")

	t.Run("Insert entity", func(t *testing.T) {
		entity, err := model.NewEntity(model.BrandProperties{
			Name:     "Kit Kat",
			Category: "confectionery",
		}, []string{"example.com_recipes_0_1"})
		require.NoError(t, err)

		err = entitiesDbHandler.InsertEntity(entity)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.Equal(t, "brand_kit_kat", entity.ID, "Expected deterministic entity ID")
		assert.WithinDuration(t, entity.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")

		// Cleanup
		entitiesDbHandler.DeleteEntity(entity.ID)
	})

	t.Run("Insert duplicate entity (upsert)", func(t *testing.T) {
		entity, err := model.NewEntity(model.TopicProperties{
			Name:     "Chocolate Treats",
			Category: "desserts",
		}, []string{"example.com_treats_0_0"})
		require.NoError(t, err)

		err = entitiesDbHandler.InsertEntity(entity)
		require.NoError(t, err)

		// Insert again with same name and type but new chunk mentions
		entity2, err := model.NewEntity(model.TopicProperties{
			Name:     "Chocolate Treats",
			Category: "desserts",
		}, []string{"example.com_treats_0_0", "example.com_treats_0_1"})
		require.NoError(t, err)

		err = entitiesDbHandler.InsertEntity(entity2)
		assert.NoError(t, err, "Expected Insert to not return an error for duplicate")
		assert.Equal(t, entity.ID, entity2.ID, "Expected duplicate entity to resolve to the same ID")

		retrieved, err := entitiesDbHandler.SelectEntity(entity.ID)
		require.NoError(t, err)
		require.NotNil(t, retrieved)
		assert.Len(t, retrieved.ChunkIDs, 2, "Expected upsert to replace chunk mentions")

		// Cleanup
		entitiesDbHandler.DeleteEntity(entity.ID)
	})
}

func TestEntitiesSelect(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err)

	entity, err := model.NewEntity(model.ProductProperties{
		Name:  "Kit Kat Chunky",
		Brand: "Kit Kat",
	}, []string{"example.com_products_0_0"})
	require.NoError(t, err)
	err = entitiesDbHandler.InsertEntity(entity)
	require.NoError(t, err)

	t.Run("Select existing entity", func(t *testing.T) {
		retrievedEntity, err := entitiesDbHandler.SelectEntity(entity.ID)
		assert.NoError(t, err, "Expected Select to not return an error")
		require.NotNil(t, retrievedEntity, "Expected Select to return a non-nil entity")
		assert.Equal(t, entity.ID, retrievedEntity.ID, "Expected entity IDs to match")
		assert.Equal(t, model.EntityTypeProduct, retrievedEntity.Type, "Expected types to match")
		assert.Equal(t, "Kit Kat Chunky", retrievedEntity.Name(), "Expected names to match")

		properties, ok := retrievedEntity.Properties.(model.ProductProperties)
		require.True(t, ok, "Expected product properties variant")
		assert.Equal(t, "Kit Kat", properties.Brand)
	})

	t.Run("Select missing entity returns nil", func(t *testing.T) {
		retrievedEntity, err := entitiesDbHandler.SelectEntity("product_does_not_exist")
		assert.NoError(t, err, "Expected Select to not return an error for missing entity")
		assert.Nil(t, retrievedEntity, "Expected nil entity for missing ID")
	})

	// Cleanup
	entitiesDbHandler.DeleteEntity(entity.ID)
}

func TestEntitiesSelectByType(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err)

	brand, err := model.NewEntity(model.BrandProperties{Name: "Nescafe"}, nil)
	require.NoError(t, err)
	topic, err := model.NewEntity(model.TopicProperties{Name: "Breakfast Ideas", Category: "meals"}, nil)
	require.NoError(t, err)

	require.NoError(t, entitiesDbHandler.InsertEntity(brand))
	require.NoError(t, entitiesDbHandler.InsertEntity(topic))

	t.Run("Select entities by type", func(t *testing.T) {
		brands, err := entitiesDbHandler.SelectEntitiesByType(model.EntityTypeBrand, 100)
		assert.NoError(t, err)
		require.Len(t, brands, 1)
		assert.Equal(t, brand.ID, brands[0].ID)
	})

	t.Run("Select entities by type respects limit", func(t *testing.T) {
		second, err := model.NewEntity(model.BrandProperties{Name: "Aero"}, nil)
		require.NoError(t, err)
		require.NoError(t, entitiesDbHandler.InsertEntity(second))

		brands, err := entitiesDbHandler.SelectEntitiesByType(model.EntityTypeBrand, 1)
		assert.NoError(t, err)
		require.Len(t, brands, 1)
		assert.Equal(t, "Aero", brands[0].Name(), "Expected entities ordered by name")

		entitiesDbHandler.DeleteEntity(second.ID)
	})

	// Cleanup
	entitiesDbHandler.DeleteEntity(brand.ID)
	entitiesDbHandler.DeleteEntity(topic.ID)
}

func TestEntitiesSelectByChunkIDs(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err)

	chunkID := model.ChunkJoinKey("https://example.com/recipes", 0, 2)
	mentioned, err := model.NewEntity(model.BrandProperties{Name: "Smarties"}, []string{chunkID})
	require.NoError(t, err)
	unrelated, err := model.NewEntity(model.BrandProperties{Name: "Milo"}, []string{"other_chunk_0_0"})
	require.NoError(t, err)

	require.NoError(t, entitiesDbHandler.InsertEntity(mentioned))
	require.NoError(t, entitiesDbHandler.InsertEntity(unrelated))

	t.Run("Select entities mentioning chunks", func(t *testing.T) {
		entities, err := entitiesDbHandler.SelectEntitiesByChunkIDs([]string{chunkID})
		assert.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, mentioned.ID, entities[0].ID)
	})

	t.Run("Select entities with unknown chunk returns empty", func(t *testing.T) {
		entities, err := entitiesDbHandler.SelectEntitiesByChunkIDs([]string{"unknown_chunk_9_9"})
		assert.NoError(t, err)
		assert.Empty(t, entities)
	})

	// Cleanup
	entitiesDbHandler.DeleteEntity(mentioned.ID)
	entitiesDbHandler.DeleteEntity(unrelated.ID)
}
