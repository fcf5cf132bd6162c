package database

import (
	"context"
	gosql "database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
	"github.com/siherrmann/graphrag/sql"
)

// RelationshipsDBHandlerFunctions defines the interface for Relationships database operations.
type RelationshipsDBHandlerFunctions interface {
	InsertRelationship(relationship *model.Relationship) error
	UpdateRelationshipWeight(id string, weight float64) error
	DeleteRelationship(id string) error
	SelectRelationship(id string) (*model.Relationship, error)
	SelectRelationshipsFromEntity(entityID string) ([]*model.Relationship, error)
	SelectRelationshipsToEntity(entityID string) ([]*model.Relationship, error)
	SelectRelationshipsConnectedToEntity(entityID string) ([]*model.Relationship, error)
}

// RelationshipsDBHandler handles relationship-related database operations
type RelationshipsDBHandler struct {
	db *helper.Database
}

// NewRelationshipsDBHandler creates a new relationships database handler.
// It initializes the database connection and loads relationship-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewRelationshipsDBHandler(db *helper.Database, force bool) (*RelationshipsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	relationshipsDbHandler := &RelationshipsDBHandler{
		db: db,
	}

	err := sql.LoadRelationshipsSql(relationshipsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load relationships sql", err)
	}

	err = relationshipsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized RelationshipsDBHandler")

	return relationshipsDbHandler, nil
}

// CreateTable creates the 'relationships' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *RelationshipsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_relationships();`)
	if err != nil {
		log.Panicf("error initializing relationships table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table relationships")

	return nil
}

// InsertRelationship inserts a new relationship (or updates weight and properties if exists).
// The endpoint combination has to be valid for the relationship type.
func (h *RelationshipsDBHandler) InsertRelationship(relationship *model.Relationship) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_relationship($1, $2, $3, $4, $5, $6, $7)`,
		relationship.ID,
		relationship.Type,
		relationship.FromEntityID,
		relationship.ToEntityID,
		relationship.Weight,
		relationship.Properties,
		relationship.IsUserCreated,
	)

	return scanRelationship(row, relationship)
}

// UpdateRelationshipWeight updates the weight of a relationship
func (h *RelationshipsDBHandler) UpdateRelationshipWeight(id string, weight float64) error {
	_, err := h.db.Instance.Exec(
		`SELECT update_relationship_weight($1, $2)`,
		id,
		model.ClampWeight(weight),
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// DeleteRelationship deletes a relationship by ID
func (h *RelationshipsDBHandler) DeleteRelationship(id string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_relationship($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectRelationship retrieves a relationship by ID.
// It returns nil without an error if no relationship with the given ID exists.
func (h *RelationshipsDBHandler) SelectRelationship(id string) (*model.Relationship, error) {
	relationship := &model.Relationship{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_relationship($1)`,
		id,
	)

	err := scanRelationship(row, relationship)
	if err != nil {
		if errors.Is(err, gosql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return relationship, nil
}

// SelectRelationshipsFromEntity retrieves all outgoing relationships of an entity
func (h *RelationshipsDBHandler) SelectRelationshipsFromEntity(entityID string) ([]*model.Relationship, error) {
	return h.selectRelationships(`SELECT * FROM select_relationships_from_entity($1)`, entityID)
}

// SelectRelationshipsToEntity retrieves all incoming relationships of an entity
func (h *RelationshipsDBHandler) SelectRelationshipsToEntity(entityID string) ([]*model.Relationship, error) {
	return h.selectRelationships(`SELECT * FROM select_relationships_to_entity($1)`, entityID)
}

// SelectRelationshipsConnectedToEntity retrieves all relationships touching an entity in either direction
func (h *RelationshipsDBHandler) SelectRelationshipsConnectedToEntity(entityID string) ([]*model.Relationship, error) {
	return h.selectRelationships(`SELECT * FROM select_relationships_connected_to_entity($1)`, entityID)
}

func (h *RelationshipsDBHandler) selectRelationships(query string, entityID string) ([]*model.Relationship, error) {
	rows, err := h.db.Instance.Query(query, entityID)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var relationships []*model.Relationship
	for rows.Next() {
		relationship := &model.Relationship{}
		err := scanRelationship(rows, relationship)
		if err != nil {
			return nil, err
		}

		relationships = append(relationships, relationship)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return relationships, nil
}

func scanRelationship(row rowScanner, relationship *model.Relationship) error {
	err := row.Scan(
		&relationship.ID,
		&relationship.Type,
		&relationship.FromEntityID,
		&relationship.ToEntityID,
		&relationship.Weight,
		&relationship.Properties,
		&relationship.IsUserCreated,
		&relationship.CreatedAt,
		&relationship.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}
