package graphrag

import (
	"context"
	"log/slog"
	"os"

	"github.com/siherrmann/graphrag/core/pipeline"
	"github.com/siherrmann/graphrag/core/retrieval"
	"github.com/siherrmann/graphrag/database"
	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
	loadSql "github.com/siherrmann/graphrag/sql"
)

// GraphRAG provides a unified interface to the knowledge graph handlers and
// the hybrid retrieval engine.
type GraphRAG struct {
	DB            *helper.Database
	Chunks        *database.ChunksDBHandler
	Entities      *database.EntitiesDBHandler
	Relationships *database.RelationshipsDBHandler
	Search        *database.SearchDBHandler
	Graph         *database.PostgresGraphStore
	Engine        *retrieval.Engine
	// Logging
	log *slog.Logger
}

// NewGraphRAG creates a new GraphRAG instance with all handlers initialized.
// The embedder is used to embed queries before vector search; pass
// pipeline.DefaultEmbedder() for the default sentence transformer model.
func NewGraphRAG(config *helper.DatabaseConfiguration, embedder pipeline.EmbedFunc, embeddingDim int) (*GraphRAG, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("graphrag", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers, force=false to not reload if functions already exist
	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	entities, err := database.NewEntitiesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create entities handler", err)
	}

	relationships, err := database.NewRelationshipsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create relationships handler", err)
	}

	search, err := database.NewSearchDBHandler(chunks, embedder)
	if err != nil {
		return nil, helper.NewError("create search handler", err)
	}

	graphStore, err := database.NewPostgresGraphStore(entities, relationships)
	if err != nil {
		return nil, helper.NewError("create graph store", err)
	}

	engine := retrieval.NewEngine(search, graphStore, model.DefaultEngineConfig(), logger)

	return &GraphRAG{
		DB:            db,
		Chunks:        chunks,
		Entities:      entities,
		Relationships: relationships,
		Search:        search,
		Graph:         graphStore,
		Engine:        engine,
		log:           logger,
	}, nil
}

// Close closes the database connection
func (g *GraphRAG) Close() error {
	if g.DB != nil && g.DB.Instance != nil {
		return g.DB.Instance.Close()
	}
	return nil
}

// HybridSearch runs the graph-augmented retrieval flow: vector search plus
// entity recognition, graph expansion and score fusion. It falls back to
// vector-only results when the graph side fails.
func (g *GraphRAG) HybridSearch(ctx context.Context, query string, queryConfig model.QueryConfig) (*model.RetrievalResult, error) {
	return g.Engine.HybridSearch(ctx, query, queryConfig)
}

// VectorSearch runs a plain vector similarity search without graph augmentation.
func (g *GraphRAG) VectorSearch(ctx context.Context, query string, filters model.SearchFilters, top int) ([]*model.Chunk, error) {
	return g.Search.Search(ctx, query, filters, top, 0)
}

// EntityContext returns the neighborhood of a single entity up to the given depth.
func (g *GraphRAG) EntityContext(ctx context.Context, entityID string, depth int) (*model.EntityContext, error) {
	return g.Engine.EntityContext(ctx, entityID, depth)
}
