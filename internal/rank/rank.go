package rank

import (
	"math"
	"sort"

	"docquery/internal/model"
)

// Result is a transient similarity match; it is never persisted.
type Result struct {
	ChunkID    uint    `json:"chunk_id"`
	DocumentID uint    `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

// Engine ranks stored chunks against a query vector. The linear scan is
// the reference implementation; an approximate index can be swapped in
// behind this interface without touching the services.
type Engine interface {
	FindSimilar(query []float32, chunks []model.Chunk, limit int) []Result
}

// Linear is a brute-force O(n*d) scan over all candidate chunks. Only
// results scoring strictly above Threshold are kept.
type Linear struct {
	Threshold float64
}

func NewLinear(threshold float64) *Linear {
	return &Linear{Threshold: threshold}
}

// FindSimilar scores every chunk that has an embedding, keeps scores above
// the threshold, sorts descending (ties keep insertion order) and truncates
// to limit.
func (e *Linear) FindSimilar(query []float32, chunks []model.Chunk, limit int) []Result {
	if len(query) == 0 || limit <= 0 {
		return nil
	}

	var matches []Result
	for i := range chunks {
		vec := chunks[i].EmbeddingVector()
		if len(vec) == 0 {
			continue
		}
		score := Cosine(query, vec)
		if score > e.Threshold {
			matches = append(matches, Result{
				ChunkID:    chunks[i].ID,
				DocumentID: chunks[i].DocumentID,
				ChunkIndex: chunks[i].ChunkIndex,
				Content:    chunks[i].Content,
				Score:      score,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit < len(matches) {
		matches = matches[:limit]
	}
	return matches
}

// Cosine returns dot(a,b) / (|a| * |b|) in [-1, 1]. A zero-norm vector or
// a length mismatch yields 0 rather than an error.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
