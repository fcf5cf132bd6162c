package database

import (
	"context"
	gosql "database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
	"github.com/siherrmann/graphrag/sql"
)

// EntitiesDBHandlerFunctions defines the interface for Entities database operations.
type EntitiesDBHandlerFunctions interface {
	InsertEntity(entity *model.Entity) error
	DeleteEntity(id string) error
	SelectEntity(id string) (*model.Entity, error)
	SelectEntitiesByType(entityType model.EntityType, limit int) ([]*model.Entity, error)
	SelectEntitiesByChunkIDs(chunkIDs []string) ([]*model.Entity, error)
}

// EntitiesDBHandler handles entity-related database operations
type EntitiesDBHandler struct {
	db *helper.Database
}

// NewEntitiesDBHandler creates a new entities database handler.
// It initializes the database connection and loads entity-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEntitiesDBHandler(db *helper.Database, force bool) (*EntitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	entitiesDbHandler := &EntitiesDBHandler{
		db: db,
	}

	err := sql.LoadEntitiesSql(entitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entities sql", err)
	}

	err = entitiesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EntitiesDBHandler")

	return entitiesDbHandler, nil
}

// CreateTable creates the 'entities' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *EntitiesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Use the SQL init() function to create all tables and indexes
	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entities();`)
	if err != nil {
		log.Panicf("error initializing entities table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table entities")

	return nil
}

// InsertEntity inserts a new entity (or updates if exists)
func (h *EntitiesDBHandler) InsertEntity(entity *model.Entity) error {
	properties, err := json.Marshal(entity.Properties)
	if err != nil {
		return helper.NewError("marshal properties", err)
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_entity($1, $2, $3, $4, $5, $6)`,
		entity.ID,
		entity.Type,
		entity.Name(),
		properties,
		pq.Array(entity.ChunkIDs),
		entity.IsUserCreated,
	)

	return scanEntity(row, entity)
}

// DeleteEntity deletes an entity by ID
func (h *EntitiesDBHandler) DeleteEntity(id string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_entity($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectEntity retrieves an entity by ID.
// It returns nil without an error if no entity with the given ID exists.
func (h *EntitiesDBHandler) SelectEntity(id string) (*model.Entity, error) {
	entity := &model.Entity{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_entity($1)`,
		id,
	)

	err := scanEntity(row, entity)
	if err != nil {
		if errors.Is(err, gosql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return entity, nil
}

// SelectEntitiesByType retrieves entities by type
func (h *EntitiesDBHandler) SelectEntitiesByType(entityType model.EntityType, limit int) ([]*model.Entity, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_entities_by_type($1, $2)`,
		entityType,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entities []*model.Entity
	for rows.Next() {
		entity := &model.Entity{}
		err := scanEntity(rows, entity)
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entities, nil
}

// SelectEntitiesByChunkIDs retrieves all entities mentioning at least one of the given chunks
func (h *EntitiesDBHandler) SelectEntitiesByChunkIDs(chunkIDs []string) ([]*model.Entity, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_entities_by_chunk_ids($1)`,
		pq.Array(chunkIDs),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entities []*model.Entity
	for rows.Next() {
		entity := &model.Entity{}
		err := scanEntity(rows, entity)
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entities, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner, entity *model.Entity) error {
	var properties []byte
	err := row.Scan(
		&entity.ID,
		&entity.Type,
		new(string), // name is denormalized from properties
		&properties,
		pq.Array(&entity.ChunkIDs),
		&entity.IsUserCreated,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	entity.Properties, err = model.UnmarshalEntityProperties(entity.Type, properties)
	if err != nil {
		return helper.NewError("unmarshal properties", err)
	}

	return nil
}
