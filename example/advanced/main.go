package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/siherrmann/graphrag"
	"github.com/siherrmann/graphrag/core/pipeline"
	"github.com/siherrmann/graphrag/database"
	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
)

// This example connects to an existing PostgreSQL instance configured via
// environment variables (or a .env file), builds a small product graph and
// demonstrates entity context traversal, filtered search and the optional
// Neo4j graph store backend.
func main() {
	// Load .env if present; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("Failed to load database configuration: %v", err)
	}

	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	g, err := graphrag.NewGraphRAG(dbConfig, embedder, pipeline.DefaultEmbeddingDim)
	if err != nil {
		log.Fatalf("Failed to create graphrag: %v", err)
	}
	defer g.Close()

	ctx := context.Background()

	// Index chunks for two brands so filtered search has something to narrow.
	chunks := []*model.Chunk{
		{
			URL:         "https://example.com/products/kitkat-chunky",
			PageTitle:   "Kit Kat Chunky",
			Content:     "Kit Kat Chunky is a thick wafer bar covered in milk chocolate.",
			ContentType: "product",
			Brand:       "Kit Kat",
			Keywords:    []string{"wafer", "chocolate"},
		},
		{
			URL:         "https://example.com/products/aero-mint",
			PageTitle:   "Aero Peppermint",
			Content:     "Aero Peppermint combines bubbly chocolate with a fresh mint flavour.",
			ContentType: "product",
			Brand:       "Aero",
			Keywords:    []string{"mint", "chocolate"},
		},
	}
	for _, chunk := range chunks {
		embedding, err := embedder(chunk.Content)
		if err != nil {
			log.Fatalf("Failed to embed chunk: %v", err)
		}
		if err := g.Chunks.InsertChunk(chunk, embedding); err != nil {
			log.Fatalf("Failed to insert chunk: %v", err)
		}
	}

	// Build the graph: two brands, one product, one shared topic.
	kitkat := mustEntity(model.BrandProperties{Name: "Kit Kat", Category: "confectionery"}, []string{chunks[0].JoinKey()})
	aero := mustEntity(model.BrandProperties{Name: "Aero", Category: "confectionery"}, []string{chunks[1].JoinKey()})
	chunky := mustEntity(model.ProductProperties{Name: "Kit Kat Chunky", Brand: "Kit Kat"}, []string{chunks[0].JoinKey()})
	topic := mustEntity(model.TopicProperties{Name: "Chocolate Bars", Category: "snacks"}, nil)

	for _, entity := range []*model.Entity{kitkat, aero, chunky, topic} {
		if err := g.Entities.InsertEntity(entity); err != nil {
			log.Fatalf("Failed to insert entity: %v", err)
		}
	}

	relationships := []*model.Relationship{
		model.NewRelationship(chunky.ID, kitkat.ID, model.RelationshipBelongsTo, 1.0),
		model.NewRelationship(kitkat.ID, topic.ID, model.RelationshipFeaturedIn, 0.9),
		model.NewRelationship(aero.ID, topic.ID, model.RelationshipFeaturedIn, 0.7),
	}
	for _, relationship := range relationships {
		if err := g.Relationships.InsertRelationship(relationship); err != nil {
			log.Fatalf("Failed to insert relationship: %v", err)
		}
	}

	// Hybrid search narrowed to a single brand.
	result, err := g.HybridSearch(ctx, "chocolate bar with mint", model.QueryConfig{
		TopResults:          5,
		GraphExpansionDepth: 2,
		Filters:             model.SearchFilters{Brand: "Aero"},
	})
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}
	fmt.Printf("Filtered search returned %d results\n", len(result.VectorResults))
	for _, scored := range result.VectorResults {
		fmt.Printf("  %s (score %.4f)\n", scored.Chunk.PageTitle, scored.GraphEnhancedScore)
	}

	// Entity context: the neighborhood of the Kit Kat brand two hops out
	// reaches both the product and the sibling brand via the shared topic.
	entityContext, err := g.EntityContext(ctx, kitkat.ID, 2)
	if err != nil {
		log.Fatalf("Failed to get entity context: %v", err)
	}
	fmt.Printf("\nEntity context for %s:\n", entityContext.Entity.Name())
	for _, connected := range entityContext.ConnectedEntities {
		fmt.Printf("  %s (%s)\n", connected.Name(), connected.Type)
	}
	fmt.Printf("Traversed %d relationships at depth %d\n",
		entityContext.Metadata.TotalRelationshipsFound, entityContext.Metadata.RequestedDepth)

	// Optionally mirror the graph into Neo4j and run the same retrieval
	// against it. Set NEO4J_URI, NEO4J_USERNAME and NEO4J_PASSWORD to enable.
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		if err := runWithNeo4j(ctx, g, uri); err != nil {
			log.Fatalf("Neo4j graph store failed: %v", err)
		}
	}

	fmt.Println("\nAdvanced example completed successfully!")
}

func mustEntity(properties model.EntityProperties, chunkIDs []string) *model.Entity {
	entity, err := model.NewEntity(properties, chunkIDs)
	if err != nil {
		log.Fatalf("Failed to create entity: %v", err)
	}
	return entity
}

// runWithNeo4j copies all entities and relationships into Neo4j and verifies
// the read path by fetching an entity neighborhood from it.
func runWithNeo4j(ctx context.Context, g *graphrag.GraphRAG, uri string) error {
	store, err := database.NewNeo4jGraphStore(uri, os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_PASSWORD"), nil)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	for _, entityType := range model.AllEntityTypes {
		entities, err := g.Entities.SelectEntitiesByType(entityType, 100)
		if err != nil {
			return err
		}
		for _, entity := range entities {
			if err := store.InsertEntity(ctx, entity); err != nil {
				return err
			}
			relationships, err := g.Relationships.SelectRelationshipsFromEntity(entity.ID)
			if err != nil {
				return err
			}
			for _, relationship := range relationships {
				if err := store.InsertRelationship(ctx, relationship); err != nil {
					return err
				}
			}
		}
	}

	entities, err := store.FindEntitiesByType(ctx, model.EntityTypeBrand, 10)
	if err != nil {
		return err
	}
	fmt.Printf("\nNeo4j mirror holds %d brand entities\n", len(entities))
	return nil
}
