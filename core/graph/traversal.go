package graph

import (
	"context"

	"github.com/siherrmann/graphrag/model"
)

// Direction selects which relationships of an entity to fetch
type Direction string

const (
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
	DirectionBoth Direction = "both"
)

// Store defines the read-only graph operations needed for traversal.
// GetEntity returns (nil, nil) when no entity exists for the ID, so a
// dangling relationship endpoint is not treated as a store failure.
type Store interface {
	GetEntity(ctx context.Context, id string) (*model.Entity, error)
	GetEntityRelationships(ctx context.Context, entityID string, direction Direction) ([]*model.Relationship, error)
}

// ExpandOptions bounds a graph expansion
type ExpandOptions struct {
	MaxDepth    int     // maximum number of relationship hops from the seed set
	MinWeight   float64 // relationships below this weight are not followed
	MaxEntities int     // hard ceiling on total entities visited, seeds included; <= 0 means unbounded
}

// Expansion holds the outcome of a bounded expansion: the newly discovered
// entities (seeds excluded) and every traversed relationship, deduplicated.
type Expansion struct {
	Entities      []*model.Entity
	Relationships []*model.Relationship
}

// Expand performs a bounded-depth, weight-filtered breadth-first expansion
// from the seed entities. No entity ID is ever expanded twice, which
// guarantees termination on cyclic graphs. A MaxDepth of 0 returns an empty
// expansion without touching the store.
func Expand(ctx context.Context, store Store, seeds []*model.Entity, opts ExpandOptions) (*Expansion, error) {
	expansion := &Expansion{
		Entities:      []*model.Entity{},
		Relationships: []*model.Relationship{},
	}

	if opts.MaxDepth <= 0 || len(seeds) == 0 {
		return expansion, nil
	}

	visited := make(map[string]bool, len(seeds))
	frontier := make([]*model.Entity, 0, len(seeds))
	for _, seed := range seeds {
		if !visited[seed.ID] {
			visited[seed.ID] = true
			frontier = append(frontier, seed)
		}
	}

	seenRelationships := make(map[string]bool)
	missing := make(map[string]bool)
	remainingDepth := opts.MaxDepth
	ceilingReached := false

	for remainingDepth > 0 && len(frontier) > 0 && !ceilingReached {
		var nextFrontier []*model.Entity

		for _, entity := range frontier {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			relationships, err := store.GetEntityRelationships(ctx, entity.ID, DirectionBoth)
			if err != nil {
				return nil, err
			}

			for _, rel := range relationships {
				if rel.Weight < opts.MinWeight {
					continue
				}

				if !seenRelationships[rel.ID] {
					seenRelationships[rel.ID] = true
					expansion.Relationships = append(expansion.Relationships, rel)
				}

				connectedID := rel.ConnectedEntityID(entity.ID)
				if connectedID == "" || visited[connectedID] || missing[connectedID] {
					continue
				}

				if opts.MaxEntities > 0 && len(visited) >= opts.MaxEntities {
					ceilingReached = true
					break
				}

				connected, err := store.GetEntity(ctx, connectedID)
				if err != nil {
					return nil, err
				}
				if connected == nil {
					missing[connectedID] = true // dangling endpoint, don't refetch
					continue
				}

				visited[connectedID] = true
				expansion.Entities = append(expansion.Entities, connected)
				nextFrontier = append(nextFrontier, connected)
			}

			if ceilingReached {
				break
			}
		}

		frontier = nextFrontier
		remainingDepth--
	}

	return expansion, nil
}
