package retrieval

import (
	"sort"
	"strings"

	"github.com/siherrmann/graphrag/model"
)

// Fixed score contributions, applied on top of the configurable boost factors.
const (
	entityContribution       = 0.5
	relationshipContribution = 0.3
	exactNameBoost           = 0.5
	partialNameBoost         = 0.2
	contentMatchBoost        = 0.3
	titleMatchBoost          = 0.4
)

// Ranker fuses vector similarity, graph relevance and query-term boosts into
// one ordering key per result and attaches the graph context explanation.
type Ranker struct {
	config model.EngineConfig
}

// NewRanker creates a score fusion ranker
func NewRanker(config model.EngineConfig) *Ranker {
	return &Ranker{config: config}
}

// Rank scores every chunk against the discovered entities and relationships
// and returns the results ordered by combined score, descending. The sort is
// stable: equal scores keep their original vector search order.
func (r *Ranker) Rank(query string, chunks []*model.Chunk, entities []*model.Entity, relationships []*model.Relationship) []*model.ScoredChunk {
	queryLower := strings.ToLower(query)

	results := make([]*model.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		graphContext := r.graphContext(chunk, entities, relationships)
		graphScore := r.graphRelevance(graphContext)
		queryBoost := r.queryRelevanceBoost(chunk, graphContext.RelatedEntities, queryLower)

		combined := chunk.Score*r.config.VectorWeight +
			graphScore*r.config.GraphWeight +
			queryBoost*r.config.QueryBoostWeight

		results = append(results, &model.ScoredChunk{
			Chunk:               chunk,
			GraphEnhancedScore:  combined,
			OriginalVectorScore: chunk.Score,
			GraphRelevanceScore: graphScore,
			QueryRelevanceBoost: queryBoost,
			GraphContext:        graphContext,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].GraphEnhancedScore > results[j].GraphEnhancedScore
	})

	return results
}

// graphContext collects the entities back-referencing a chunk and the
// relationships touching those entities.
func (r *Ranker) graphContext(chunk *model.Chunk, entities []*model.Entity, relationships []*model.Relationship) *model.GraphContext {
	joinKey := chunk.JoinKey()

	related := []*model.Entity{}
	relatedIDs := make(map[string]bool)
	for _, entity := range entities {
		if entity.MentionsChunk(joinKey) {
			related = append(related, entity)
			relatedIDs[entity.ID] = true
		}
	}

	touching := []*model.Relationship{}
	for _, rel := range relationships {
		if relatedIDs[rel.FromEntityID] || relatedIDs[rel.ToEntityID] {
			touching = append(touching, rel)
		}
	}

	return &model.GraphContext{
		RelatedEntities:      related,
		RelatedRelationships: touching,
		EntityCount:          len(related),
		RelationshipCount:    len(touching),
	}
}

// graphRelevance scores a chunk by its entity connections and the weighted
// relationships around them, capped at 1.
func (r *Ranker) graphRelevance(graphContext *model.GraphContext) float64 {
	score := 0.0

	score += float64(graphContext.EntityCount) * entityContribution * r.config.EntityBoostFactor

	for _, rel := range graphContext.RelatedRelationships {
		score += relationshipContribution * rel.Weight * r.config.RelationshipBoostFactor
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// queryRelevanceBoost scores direct query evidence: entity names appearing in
// the query and the query appearing literally in content or title. Capped at 1.
func (r *Ranker) queryRelevanceBoost(chunk *model.Chunk, relatedEntities []*model.Entity, queryLower string) float64 {
	boost := 0.0

	for _, entity := range relatedEntities {
		name := strings.ToLower(entity.Name())
		if name == "" {
			continue
		}

		if strings.Contains(queryLower, name) {
			boost += exactNameBoost
			continue
		}

		nameWords := strings.Fields(name)
		queryWords := strings.Fields(queryLower)
		matches := 0
		for _, word := range nameWords {
			for _, queryWord := range queryWords {
				if word == queryWord {
					matches++
					break
				}
			}
		}
		if matches > 0 {
			boost += partialNameBoost * float64(matches) / float64(len(nameWords))
		}
	}

	if strings.Contains(strings.ToLower(chunk.Content), queryLower) {
		boost += contentMatchBoost
	}
	if strings.Contains(strings.ToLower(chunk.PageTitle), queryLower) {
		boost += titleMatchBoost
	}

	if boost > 1.0 {
		return 1.0
	}
	return boost
}
