package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"docquery/internal/config"
	"docquery/internal/extract"
	"docquery/internal/model"
)

const previewLength = 200

// Embedder turns one text into one fixed-length vector. It is the single
// point where provider cost and latency live; errors mean "could not embed
// this item", never "abort the batch".
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DocumentStore is the persistence surface the services need for documents.
type DocumentStore interface {
	Create(doc *model.Document) error
	GetByID(id uint) (*model.Document, error)
	GetByFilename(filename string) (*model.Document, error)
	List() ([]model.Document, error)
	UpdateStatus(id uint, status string, chunksCreated, failedChunks int) error
	Delete(id uint) error
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	CountByContentType() (map[string]int64, error)
}

// ChunkStore is the persistence surface the services need for chunks.
type ChunkStore interface {
	Create(chunk *model.Chunk) error
	ListAll() ([]model.Chunk, error)
	ListByDocumentID(documentID uint, limit, offset int) ([]model.Chunk, error)
	CountByDocumentID(documentID uint) (int64, error)
	Count() (int64, error)
	DeleteByDocumentID(documentID uint) (int64, error)
}

// AsyncEventPublisher hands completed-ingestion audit events to the queue.
type AsyncEventPublisher interface {
	Publish(ctx context.Context, event model.IngestEvent) error
}

type IngestService struct {
	docs      DocumentStore
	chunks    ChunkStore
	embedder  Embedder
	publisher AsyncEventPublisher // nil disables audit events
	cfg       config.RAGConfig
}

func NewIngestService(
	docs DocumentStore,
	chunks ChunkStore,
	embedder Embedder,
	publisher AsyncEventPublisher,
	cfg config.RAGConfig,
) *IngestService {
	return &IngestService{
		docs:      docs,
		chunks:    chunks,
		embedder:  embedder,
		publisher: publisher,
		cfg:       cfg,
	}
}

type IngestInput struct {
	Data        []byte
	Filename    string
	ContentType string
}

// IngestResult always reports created and failed counts so callers can
// tell full from partial success.
type IngestResult struct {
	DocID          uint   `json:"doc_id"`
	ChunksCreated  int    `json:"chunks_created"`
	FailedChunks   int    `json:"failed_chunks"`
	TotalChunks    int    `json:"total_chunks"`
	ContentPreview string `json:"content_preview"`
}

// Ingest runs extraction, chunking, per-chunk embedding and storage. The
// gates before document creation short-circuit with no partial state; once
// chunk work starts, a failing chunk is counted and the pipeline continues
// to the end. Partial success is a valid terminal state.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if int64(len(input.Data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: maximum size is %dMB", ErrFileTooLarge, s.cfg.MaxFileSize>>20)
	}

	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		filename = "uploaded_file_" + time.Now().UTC().Format("20060102_150405")
	}

	text, err := extract.Text(input.Data, input.ContentType)
	if err != nil || strings.TrimSpace(text) == "" {
		return nil, ErrNoExtractableText
	}

	existing, err := s.docs.GetByFilename(filename)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateDocument, filename)
	}

	doc := &model.Document{
		Filename:    filename,
		ContentType: input.ContentType,
		Size:        int64(len(input.Data)),
		TextLength:  len([]rune(text)),
		Status:      model.DocumentStatusPending,
	}
	if err := s.docs.Create(doc); err != nil {
		return nil, err
	}

	segments := chunkText(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)

	if len(segments) > s.cfg.MaxChunksPerDoc {
		if err := s.docs.UpdateStatus(doc.ID, model.DocumentStatusFailed, 0, 0); err != nil {
			log.Printf("mark oversized document %d failed: %v", doc.ID, err)
		}
		return nil, fmt.Errorf("%w: maximum %d chunks allowed", ErrTooManyChunks, s.cfg.MaxChunksPerDoc)
	}

	created, failed := 0, 0
	for i, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		vector, err := s.embedder.Embed(ctx, segment)
		if err != nil {
			failed++
			log.Printf("embed chunk %d of document %d failed: %v", i, doc.ID, err)
			continue
		}

		chunk := &model.Chunk{
			DocumentID: doc.ID,
			ChunkIndex: i,
			Content:    segment,
			ChunkSize:  len(segment),
		}
		chunk.SetEmbedding(vector)
		if err := s.chunks.Create(chunk); err != nil {
			failed++
			log.Printf("store chunk %d of document %d failed: %v", i, doc.ID, err)
			continue
		}
		created++
	}

	if err := s.docs.UpdateStatus(doc.ID, model.DocumentStatusProcessed, created, failed); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, doc, created, failed)

	return &IngestResult{
		DocID:          doc.ID,
		ChunksCreated:  created,
		FailedChunks:   failed,
		TotalChunks:    len(segments),
		ContentPreview: preview(text),
	}, nil
}

func (s *IngestService) publishEvent(ctx context.Context, doc *model.Document, created, failed int) {
	if s.publisher == nil {
		return
	}
	event := model.IngestEvent{
		EventID:       uuid.NewString(),
		DocumentID:    doc.ID,
		Filename:      doc.Filename,
		Status:        model.DocumentStatusProcessed,
		ChunksCreated: created,
		FailedChunks:  failed,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish ingest event for document %d failed: %v", doc.ID, err)
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
