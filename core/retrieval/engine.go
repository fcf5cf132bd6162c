package retrieval

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/siherrmann/graphrag/core/graph"
	"github.com/siherrmann/graphrag/model"
)

// Vector search over-fetches by this factor so graph re-ranking has room to
// promote results beyond the requested cut.
const overFetchFactor = 2

// Fallback result sets carry this sentinel combined score.
const fallbackCombinedScore = 0.5

// DefaultTopResults is used when a query does not specify a result count.
const DefaultTopResults = 10

// Engine is the hybrid retrieval orchestrator. It sequences query analysis,
// vector search, entity linking, graph expansion and score fusion, and
// degrades to vector-only results when the graph path fails. An Engine is
// stateless between calls and safe for concurrent use.
type Engine struct {
	search   SearchIndex
	graph    GraphStore
	analyzer *Analyzer
	linker   *Linker
	ranker   *Ranker
	config   model.EngineConfig
	log      *slog.Logger
}

// NewEngine creates a retrieval engine with explicitly injected collaborators
func NewEngine(search SearchIndex, graphStore GraphStore, config model.EngineConfig, logger *slog.Logger) *Engine {
	return &Engine{
		search:   search,
		graph:    graphStore,
		analyzer: NewAnalyzer(graphStore, config.EntityScanLimit, logger),
		linker:   NewLinker(graphStore, logger),
		ranker:   NewRanker(config),
		config:   config,
		log:      logger,
	}
}

// HybridSearch performs hybrid retrieval combining vector search with graph
// traversal. A search index failure is returned as *HardRetrievalError; any
// graph store failure degrades to vector-only results with the fallback flag
// set. Zero matches is a normal outcome, not an error.
func (e *Engine) HybridSearch(ctx context.Context, query string, queryConfig model.QueryConfig) (*model.RetrievalResult, error) {
	if queryConfig.TopResults <= 0 {
		queryConfig.TopResults = DefaultTopResults
	}
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	e.log.Info("Starting hybrid search", slog.String("query", query), slog.Int("top_results", queryConfig.TopResults))

	// Vector search and query entity extraction have no data dependency and
	// run concurrently. Only the search failure aborts the call.
	var (
		chunks        []*model.Chunk
		queryEntities []*model.Entity
		graphErr      error
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		chunks, err = e.search.Search(groupCtx, query, queryConfig.Filters, queryConfig.TopResults*overFetchFactor, 0)
		if err != nil {
			return &HardRetrievalError{Err: err}
		}
		return nil
	})
	group.Go(func() error {
		queryEntities, graphErr = e.analyzer.ExtractQueryEntities(groupCtx, query)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if graphErr != nil {
		return e.fallback(query, chunks, queryConfig, graphErr), nil
	}

	resultEntities, err := e.linker.LinkEntities(ctx, chunks)
	if err != nil {
		return e.fallback(query, chunks, queryConfig, err), nil
	}

	seeds := dedupeEntities(append(append([]*model.Entity{}, queryEntities...), resultEntities...))

	expansion, err := graph.Expand(ctx, e.graph, seeds, graph.ExpandOptions{
		MaxDepth:    queryConfig.GraphExpansionDepth,
		MinWeight:   e.config.MinRelationshipWeight,
		MaxEntities: e.config.MaxEntitiesVisited,
	})
	if err != nil {
		return e.fallback(query, chunks, queryConfig, err), nil
	}

	allEntities := append(append([]*model.Entity{}, seeds...), expansion.Entities...)

	ranked := e.ranker.Rank(query, chunks, allEntities, expansion.Relationships)
	if len(ranked) > queryConfig.TopResults {
		ranked = ranked[:queryConfig.TopResults]
	}

	result := &model.RetrievalResult{
		VectorResults:           ranked,
		RelatedEntities:         allEntities,
		ContextualRelationships: expansion.Relationships,
		CombinedScore:           meanCombinedScore(ranked),
		Metadata: model.RetrievalMetadata{
			VectorResultsCount:     len(chunks),
			GraphEntitiesFound:     len(seeds),
			GraphExpansionEntities: len(expansion.Entities),
			RelationshipsFound:     len(expansion.Relationships),
			FinalResultsCount:      len(ranked),
			ExpansionDepth:         queryConfig.GraphExpansionDepth,
		},
	}

	e.log.Info("Hybrid search completed",
		slog.Int("vector_results", result.Metadata.VectorResultsCount),
		slog.Int("entities_found", result.Metadata.GraphEntitiesFound),
		slog.Int("expansion_entities", result.Metadata.GraphExpansionEntities),
		slog.Int("relationships_found", result.Metadata.RelationshipsFound),
	)

	return result, nil
}

// EntityContext returns the neighborhood of a single entity up to the given
// traversal depth. If the entity does not exist, ErrEntityNotFound is returned.
func (e *Engine) EntityContext(ctx context.Context, entityID string, depth int) (*model.EntityContext, error) {
	root, err := e.graph.GetEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrEntityNotFound
	}

	if depth <= 0 {
		depth = e.config.MaxGraphDepth
	}

	expansion, err := graph.Expand(ctx, e.graph, []*model.Entity{root}, graph.ExpandOptions{
		MaxDepth:    depth,
		MinWeight:   0, // entity context reports all relationships regardless of weight
		MaxEntities: e.config.MaxEntitiesVisited,
	})
	if err != nil {
		return nil, err
	}

	return &model.EntityContext{
		Entity:            root,
		ConnectedEntities: expansion.Entities,
		Relationships:     expansion.Relationships,
		Metadata: model.TraversalMetadata{
			RequestedDepth:          depth,
			TotalEntitiesFound:      len(expansion.Entities) + 1,
			TotalRelationshipsFound: len(expansion.Relationships),
			ConnectedEntitiesCount:  len(expansion.Entities),
		},
	}, nil
}

// fallback builds the degraded vector-only envelope. The graph failure is
// logged as a warning and never surfaced to the caller.
func (e *Engine) fallback(query string, chunks []*model.Chunk, queryConfig model.QueryConfig, cause error) *model.RetrievalResult {
	e.log.Warn("Graph retrieval failed, falling back to vector-only results",
		slog.String("query", query),
		slog.String("error", cause.Error()),
	)

	if len(chunks) > queryConfig.TopResults {
		chunks = chunks[:queryConfig.TopResults]
	}

	results := make([]*model.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, &model.ScoredChunk{
			Chunk:               chunk,
			GraphEnhancedScore:  chunk.Score,
			OriginalVectorScore: chunk.Score,
		})
	}

	return &model.RetrievalResult{
		VectorResults:           results,
		RelatedEntities:         []*model.Entity{},
		ContextualRelationships: []*model.Relationship{},
		CombinedScore:           fallbackCombinedScore,
		Metadata: model.RetrievalMetadata{
			VectorResultsCount:   len(chunks),
			FinalResultsCount:    len(results),
			ExpansionDepth:       queryConfig.GraphExpansionDepth,
			FallbackToVectorOnly: true,
		},
	}
}

func dedupeEntities(entities []*model.Entity) []*model.Entity {
	deduped := make([]*model.Entity, 0, len(entities))
	seen := make(map[string]bool, len(entities))
	for _, entity := range entities {
		if seen[entity.ID] {
			continue
		}
		seen[entity.ID] = true
		deduped = append(deduped, entity)
	}
	return deduped
}

func meanCombinedScore(results []*model.ScoredChunk) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, result := range results {
		sum += result.GraphEnhancedScore
	}
	return sum / float64(len(results))
}
