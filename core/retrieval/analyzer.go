package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/siherrmann/graphrag/model"
)

// Analyzer extracts seed entities referenced by raw query text by matching
// known entity names against the query. It is intentionally cheap: it scans
// entity names only and never touches relationship data.
type Analyzer struct {
	store     GraphStore
	scanLimit int
	log       *slog.Logger
}

// NewAnalyzer creates a query analyzer. scanLimit bounds how many entities
// per type are fetched for name matching.
func NewAnalyzer(store GraphStore, scanLimit int, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		store:     store,
		scanLimit: scanLimit,
		log:       logger,
	}
}

// ExtractQueryEntities returns all known entities whose name appears
// case-insensitively in the query. No match is not an error.
func (a *Analyzer) ExtractQueryEntities(ctx context.Context, query string) ([]*model.Entity, error) {
	queryLower := strings.ToLower(query)

	var matched []*model.Entity
	seen := make(map[string]bool)

	for _, entityType := range model.AllEntityTypes {
		entities, err := a.store.FindEntitiesByType(ctx, entityType, a.scanLimit)
		if err != nil {
			return nil, err
		}

		for _, entity := range entities {
			name := strings.ToLower(entity.Name())
			if name == "" || !strings.Contains(queryLower, name) {
				continue
			}
			if seen[entity.ID] {
				continue
			}
			seen[entity.ID] = true
			matched = append(matched, entity)
			a.log.Debug("Found query entity", slog.String("entity_id", entity.ID), slog.String("entity_type", string(entityType)))
		}
	}

	return matched, nil
}
