package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed chunks.sql
var chunksSQL string

//go:embed entities.sql
var entitiesSQL string

//go:embed relationships.sql
var relationshipsSQL string

// Function lists for verification
var ChunksFunctions = []string{
	"init_chunks",
	"insert_chunk",
	"select_chunk",
	"select_chunks_by_similarity",
	"delete_chunk",
}

var EntitiesFunctions = []string{
	"init_entities",
	"insert_entity",
	"select_entity",
	"select_entities_by_type",
	"select_entities_by_chunk_ids",
	"delete_entity",
}

var RelationshipsFunctions = []string{
	"init_relationships",
	"insert_relationship",
	"select_relationship",
	"select_relationships_from_entity",
	"select_relationships_to_entity",
	"select_relationships_connected_to_entity",
	"update_relationship_weight",
	"delete_relationship",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadChunksSql loads chunk-related SQL functions
func LoadChunksSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ChunksFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing chunks functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(chunksSQL)
	if err != nil {
		return fmt.Errorf("error executing chunks SQL: %w", err)
	}

	exist, err := checkFunctions(db, ChunksFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL chunks functions loaded successfully")
	return nil
}

// LoadEntitiesSql loads entity-related SQL functions
func LoadEntitiesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, EntitiesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing entities functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(entitiesSQL)
	if err != nil {
		return fmt.Errorf("error executing entities SQL: %w", err)
	}

	exist, err := checkFunctions(db, EntitiesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL entities functions loaded successfully")
	return nil
}

// LoadRelationshipsSql loads relationship-related SQL functions
func LoadRelationshipsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, RelationshipsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing relationships functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(relationshipsSQL)
	if err != nil {
		return fmt.Errorf("error executing relationships SQL: %w", err)
	}

	exist, err := checkFunctions(db, RelationshipsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL relationships functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	err := LoadChunksSql(db, force)
	if err != nil {
		return err
	}

	err = LoadEntitiesSql(db, force)
	if err != nil {
		return err
	}

	err = LoadRelationshipsSql(db, force)
	if err != nil {
		return err
	}

	return nil
}

// checkFunctions checks if all given SQL functions exist in the database
func checkFunctions(db *sql.DB, functions []string) (bool, error) {
	for _, function := range functions {
		var exists bool
		err := db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM pg_proc WHERE proname = $1)`,
			function,
		).Scan(&exists)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}
