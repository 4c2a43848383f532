package model

import (
	"encoding/json"
	"time"
)

// Chunk stores one text segment of a document and its embedding for
// retrieval. Embedding is stored as a JSON array of float32 for
// portability; chunks are written once during ingestion and never updated.
// ChunkIndex is the segment's position in the chunking pass, so stored
// indices may have gaps where whitespace-only or failed segments were
// skipped.
type Chunk struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;index;uniqueIndex:idx_doc_ordinal,priority:1" json:"document_id"`
	ChunkIndex int       `gorm:"not null;uniqueIndex:idx_doc_ordinal,priority:2" json:"chunk_index"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Embedding  string    `gorm:"type:mediumtext" json:"-"` // JSON array of float32
	ChunkSize  int       `gorm:"not null" json:"chunk_size"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (c *Chunk) EmbeddingVector() []float32 {
	if c.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *Chunk) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		c.Embedding = ""
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}
