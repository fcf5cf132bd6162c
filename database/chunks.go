package database

import (
	"context"
	gosql "database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/graphrag/helper"
	"github.com/siherrmann/graphrag/model"
	loadSql "github.com/siherrmann/graphrag/sql"
)

// ChunksDBHandlerFunctions defines the interface for Chunks database operations.
type ChunksDBHandlerFunctions interface {
	InsertChunk(chunk *model.Chunk, embedding []float32) error
	DeleteChunk(id string) error
	SelectChunk(id string) (*model.Chunk, error)
	SelectChunksBySimilarity(embedding []float32, filters *model.SearchFilters, limit int, offset int) ([]*model.Chunk, error)
}

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It initializes the database connection and loads chunk-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary extensions and indexes.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing chunks table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// InsertChunk inserts a new chunk (or updates if exists).
// The chunk ID is derived from its url, document index and chunk index.
func (h *ChunksDBHandler) InsertChunk(chunk *model.Chunk, embedding []float32) error {
	if chunk.ID == "" {
		chunk.ID = chunk.JoinKey()
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chunk($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		chunk.ID,
		chunk.URL,
		chunk.Content,
		chunk.PageTitle,
		chunk.SectionTitle,
		chunk.ContentType,
		chunk.Brand,
		pq.Array(chunk.Keywords),
		chunk.DocIndex,
		chunk.ChunkIndex,
		pgvector.NewVector(embedding),
	)

	return scanChunk(row, chunk)
}

// DeleteChunk deletes a chunk by ID
func (h *ChunksDBHandler) DeleteChunk(id string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_chunk($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectChunk retrieves a chunk by ID.
// It returns nil without an error if no chunk with the given ID exists.
func (h *ChunksDBHandler) SelectChunk(id string) (*model.Chunk, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_chunk($1)`,
		id,
	)

	chunk := &model.Chunk{}
	err := scanChunk(row, chunk)
	if err != nil {
		if errors.Is(err, gosql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return chunk, nil
}

// SelectChunksBySimilarity performs vector similarity search with optional metadata filters.
// The returned chunks are ordered by descending cosine similarity, written to their Score field.
func (h *ChunksDBHandler) SelectChunksBySimilarity(embedding []float32, filters *model.SearchFilters, limit int, offset int) ([]*model.Chunk, error) {
	if filters == nil {
		filters = &model.SearchFilters{}
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_similarity($1, $2, $3, $4, $5, $6)`,
		pgvector.NewVector(embedding),
		filters.ContentType,
		filters.Brand,
		pq.Array(filters.Keywords),
		limit,
		offset,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		err := rows.Scan(
			&chunk.ID,
			&chunk.URL,
			&chunk.Content,
			&chunk.PageTitle,
			&chunk.SectionTitle,
			&chunk.ContentType,
			&chunk.Brand,
			pq.Array(&chunk.Keywords),
			&chunk.DocIndex,
			&chunk.ChunkIndex,
			&chunk.Score,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

func scanChunk(row rowScanner, chunk *model.Chunk) error {
	var embedding pgvector.Vector
	var createdAt time.Time
	err := row.Scan(
		&chunk.ID,
		&chunk.URL,
		&chunk.Content,
		&chunk.PageTitle,
		&chunk.SectionTitle,
		&chunk.ContentType,
		&chunk.Brand,
		pq.Array(&chunk.Keywords),
		&chunk.DocIndex,
		&chunk.ChunkIndex,
		&embedding,
		&createdAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}
