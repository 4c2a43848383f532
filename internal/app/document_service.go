package app

import (
	"context"
	"log"

	"docquery/internal/model"
)

const defaultChunkPageSize = 10

type DocumentService struct {
	docs   DocumentStore
	chunks ChunkStore
	cache  QueryCache // nil disables cache invalidation
}

func NewDocumentService(docs DocumentStore, chunks ChunkStore, cache QueryCache) *DocumentService {
	return &DocumentService{
		docs:   docs,
		chunks: chunks,
		cache:  cache,
	}
}

func (s *DocumentService) List() ([]model.Document, error) {
	return s.docs.List()
}

// DocumentDetail is a document plus its live chunk count.
type DocumentDetail struct {
	model.Document
	ChunkCount int64 `json:"chunk_count"`
}

func (s *DocumentService) Get(id uint) (*DocumentDetail, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	count, err := s.chunks.CountByDocumentID(id)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{Document: *doc, ChunkCount: count}, nil
}

// ListChunks returns a page of a document's chunks ordered by ordinal
// index, embeddings excluded.
func (s *DocumentService) ListChunks(id uint, limit, offset int) ([]model.Chunk, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if limit <= 0 {
		limit = defaultChunkPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.chunks.ListByDocumentID(id, limit, offset)
}

// Delete removes a document and cascades to its chunks, reporting how many
// chunks were deleted. Cached query contexts are flushed so stale chunk
// text stops being served.
func (s *DocumentService) Delete(ctx context.Context, id uint) (int64, error) {
	if id == 0 {
		return 0, ErrInvalidInput
	}
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return 0, err
	}
	if doc == nil {
		return 0, ErrDocumentNotFound
	}

	chunksDeleted, err := s.chunks.DeleteByDocumentID(id)
	if err != nil {
		return 0, err
	}
	if err := s.docs.Delete(id); err != nil {
		return chunksDeleted, err
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			log.Printf("flush context cache after delete failed: %v", err)
		}
	}
	return chunksDeleted, nil
}

type Stats struct {
	TotalDocuments     int64            `json:"total_documents"`
	ProcessedDocuments int64            `json:"processed_documents"`
	TotalChunks        int64            `json:"total_chunks"`
	TypeDistribution   map[string]int64 `json:"type_distribution"`
}

func (s *DocumentService) Stats() (*Stats, error) {
	totalDocs, err := s.docs.Count()
	if err != nil {
		return nil, err
	}
	processedDocs, err := s.docs.CountByStatus(model.DocumentStatusProcessed)
	if err != nil {
		return nil, err
	}
	totalChunks, err := s.chunks.Count()
	if err != nil {
		return nil, err
	}
	dist, err := s.docs.CountByContentType()
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalDocuments:     totalDocs,
		ProcessedDocuments: processedDocs,
		TotalChunks:        totalChunks,
		TypeDistribution:   dist,
	}, nil
}
