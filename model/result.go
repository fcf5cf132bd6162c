package model

// GraphContext is the per-result explanation payload listing the entities and
// relationships connected to a chunk.
type GraphContext struct {
	RelatedEntities      []*Entity       `json:"related_entities"`
	RelatedRelationships []*Relationship `json:"related_relationships"`
	EntityCount          int             `json:"entity_count"`
	RelationshipCount    int             `json:"relationship_count"`
}

// ScoredChunk is a vector search result annotated with the fused score and
// its components.
type ScoredChunk struct {
	Chunk               *Chunk        `json:"chunk"`
	GraphEnhancedScore  float64       `json:"graph_enhanced_score"`
	OriginalVectorScore float64       `json:"original_vector_score"`
	GraphRelevanceScore float64       `json:"graph_relevance_score"`
	QueryRelevanceBoost float64       `json:"query_relevance_boost"`
	GraphContext        *GraphContext `json:"graph_context,omitempty"`
}

// RetrievalMetadata describes how a retrieval was performed
type RetrievalMetadata struct {
	VectorResultsCount     int  `json:"vector_results_count"`
	GraphEntitiesFound     int  `json:"graph_entities_found"`
	GraphExpansionEntities int  `json:"graph_expansion_entities"`
	RelationshipsFound     int  `json:"relationships_found"`
	FinalResultsCount      int  `json:"final_results_count"`
	ExpansionDepth         int  `json:"expansion_depth"`
	FallbackToVectorOnly   bool `json:"fallback_to_vector_only"`
}

// RetrievalResult is the combined result envelope of a hybrid search
type RetrievalResult struct {
	VectorResults           []*ScoredChunk    `json:"vector_results"`
	RelatedEntities         []*Entity         `json:"related_entities"`
	ContextualRelationships []*Relationship   `json:"contextual_relationships"`
	CombinedScore           float64           `json:"combined_score"`
	Metadata                RetrievalMetadata `json:"retrieval_metadata"`
}

// EntityContext is the neighborhood report for a single entity
type EntityContext struct {
	Entity            *Entity           `json:"entity"`
	ConnectedEntities []*Entity         `json:"connected_entities"`
	Relationships     []*Relationship   `json:"relationships"`
	Metadata          TraversalMetadata `json:"traversal_metadata"`
}

// TraversalMetadata describes an entity context traversal
type TraversalMetadata struct {
	RequestedDepth          int `json:"requested_depth"`
	TotalEntitiesFound      int `json:"total_entities_found"`
	TotalRelationshipsFound int `json:"total_relationships_found"`
	ConnectedEntitiesCount  int `json:"connected_entities_count"`
}
