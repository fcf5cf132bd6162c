package model

import "time"

// EngineConfig holds the tunables of the retrieval engine
type EngineConfig struct {
	// Fusion weights. They intentionally sum to more than 1: the query boost
	// is layered on top of the fused vector+graph base.
	VectorWeight     float64 `json:"vector_weight"`
	GraphWeight      float64 `json:"graph_weight"`
	QueryBoostWeight float64 `json:"query_boost_weight"`

	// Graph traversal parameters
	MinRelationshipWeight float64 `json:"min_relationship_weight"`
	MaxGraphDepth         int     `json:"max_graph_depth"`
	MaxEntitiesVisited    int     `json:"max_entities_visited"`

	// Scoring boost factors
	EntityBoostFactor       float64 `json:"entity_boost_factor"`
	RelationshipBoostFactor float64 `json:"relationship_boost_factor"`

	// Per-type fetch limit for query entity extraction
	EntityScanLimit int `json:"entity_scan_limit"`

	// Timeout for a whole hybrid search call
	Timeout time.Duration `json:"timeout"`
}

// DefaultEngineConfig returns a sensible default configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		VectorWeight:            0.7,
		GraphWeight:             0.3,
		QueryBoostWeight:        0.1,
		MinRelationshipWeight:   0.1,
		MaxGraphDepth:           2,
		MaxEntitiesVisited:      1000,
		EntityBoostFactor:       1.2,
		RelationshipBoostFactor: 1.1,
		EntityScanLimit:         100,
		Timeout:                 10 * time.Second,
	}
}

// QueryConfig holds the per-query parameters of a hybrid search
type QueryConfig struct {
	TopResults          int           `json:"top_results"`
	GraphExpansionDepth int           `json:"graph_expansion_depth"`
	Filters             SearchFilters `json:"filters"`
}

// DefaultQueryConfig returns the default per-query configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopResults:          10,
		GraphExpansionDepth: 1,
	}
}
