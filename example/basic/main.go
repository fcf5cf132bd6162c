package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/graphrag"
	"github.com/siherrmann/graphrag/core/pipeline"
	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	// Create the embedder (downloads the sentence transformer model on first run)
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	g, err := graphrag.NewGraphRAG(dbConfig, embedder, pipeline.DefaultEmbeddingDim)
	if err != nil {
		log.Fatalf("Failed to create graphrag: %v", err)
	}
	defer g.Close()

	// Index some content
	chunks := []*model.Chunk{
		{
			URL:         "https://example.com/recipes/kitkat-brownies",
			PageTitle:   "Kit Kat Brownie Recipe",
			Content:     "These fudgy brownies are layered with chopped Kit Kat bars for extra crunch.",
			ContentType: "recipe",
			Brand:       "Kit Kat",
			Keywords:    []string{"brownies", "baking", "chocolate"},
			DocIndex:    0,
			ChunkIndex:  0,
		},
		{
			URL:         "https://example.com/articles/chocolate-history",
			PageTitle:   "A Short History of Chocolate",
			Content:     "Chocolate has been enjoyed for thousands of years, from Mesoamerican cacao drinks to modern confectionery.",
			ContentType: "article",
			DocIndex:    0,
			ChunkIndex:  0,
		},
	}

	fmt.Println("Indexing chunks...")
	for _, chunk := range chunks {
		embedding, err := embedder(chunk.Content)
		if err != nil {
			log.Fatalf("Failed to embed chunk: %v", err)
		}
		if err := g.Chunks.InsertChunk(chunk, embedding); err != nil {
			log.Fatalf("Failed to insert chunk: %v", err)
		}
	}

	// Build a small knowledge graph around the indexed content
	brand, err := model.NewEntity(model.BrandProperties{
		Name:     "Kit Kat",
		Category: "confectionery",
	}, []string{chunks[0].JoinKey()})
	if err != nil {
		log.Fatalf("Failed to create brand entity: %v", err)
	}

	topic, err := model.NewEntity(model.TopicProperties{
		Name:     "Chocolate Treats",
		Category: "desserts",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create topic entity: %v", err)
	}

	for _, entity := range []*model.Entity{brand, topic} {
		if err := g.Entities.InsertEntity(entity); err != nil {
			log.Fatalf("Failed to insert entity: %v", err)
		}
	}

	relationship := model.NewRelationship(brand.ID, topic.ID, model.RelationshipFeaturedIn, 0.8)
	if err := g.Relationships.InsertRelationship(relationship); err != nil {
		log.Fatalf("Failed to insert relationship: %v", err)
	}

	// Run a hybrid search: vector similarity plus graph augmentation
	query := "Kit Kat chocolate recipes"
	fmt.Printf("\nQuerying: %s\n", query)

	result, err := g.HybridSearch(context.Background(), query, model.QueryConfig{
		TopResults:          5,
		GraphExpansionDepth: 2,
	})
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	fmt.Printf("\nFound %d results (fallback: %v):\n", len(result.VectorResults), result.Metadata.FallbackToVectorOnly)
	for i, scored := range result.VectorResults {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Title: %s\n", scored.Chunk.PageTitle)
		fmt.Printf("Combined score: %.4f (vector %.4f, graph %.4f, boost %.4f)\n",
			scored.GraphEnhancedScore, scored.OriginalVectorScore, scored.GraphRelevanceScore, scored.QueryRelevanceBoost)
		if scored.GraphContext != nil && scored.GraphContext.EntityCount > 0 {
			fmt.Printf("Connected entities: %d\n", scored.GraphContext.EntityCount)
		}
	}

	fmt.Printf("\nEntities in context: %d, relationships: %d\n",
		len(result.RelatedEntities), len(result.ContextualRelationships))

	fmt.Println("\nBasic example completed successfully!")
}
