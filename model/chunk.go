package model

import (
	"fmt"
	"strings"
)

// Chunk represents an immutable unit of indexed content returned by the
// search index. Chunks are read-only inputs to the retrieval engine.
type Chunk struct {
	ID           string   `json:"id"`
	URL          string   `json:"url"`
	Content      string   `json:"content"`
	PageTitle    string   `json:"page_title"`
	SectionTitle string   `json:"section_title,omitempty"`
	ContentType  string   `json:"content_type,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	DocIndex     int      `json:"doc_index"`
	ChunkIndex   int      `json:"chunk_index"`
	Score        float64  `json:"score"`
}

// ChunkJoinKey builds the join key linking a chunk to entity chunk_ids.
// Slashes are replaced so the key stays a single path segment.
func ChunkJoinKey(url string, docIndex, chunkIndex int) string {
	key := fmt.Sprintf("%v_%v_%v", url, docIndex, chunkIndex)
	return strings.ReplaceAll(key, "/", "_")
}

// JoinKey returns the chunk's join key
func (c *Chunk) JoinKey() string {
	return ChunkJoinKey(c.URL, c.DocIndex, c.ChunkIndex)
}

// SearchFilters narrows a search index query
type SearchFilters struct {
	ContentType string   `json:"content_type,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}
