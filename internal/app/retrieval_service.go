package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"docquery/internal/model"
	"docquery/internal/rank"
)

// QueryCache memoizes retrieved context per query text.
type QueryCache interface {
	GetContext(ctx context.Context, query string) (string, bool, error)
	SetContext(ctx context.Context, query, contextText string) error
	Flush(ctx context.Context) error
}

type RetrievalService struct {
	docs        DocumentStore
	chunks      ChunkStore
	embedder    Embedder
	engine      rank.Engine
	cache       QueryCache // nil disables caching
	contextTopK int
	searchTopK  int
}

func NewRetrievalService(
	docs DocumentStore,
	chunks ChunkStore,
	embedder Embedder,
	engine rank.Engine,
	cache QueryCache,
	contextTopK, searchTopK int,
) *RetrievalService {
	if contextTopK <= 0 {
		contextTopK = 3
	}
	if searchTopK <= 0 {
		searchTopK = 5
	}
	return &RetrievalService{
		docs:        docs,
		chunks:      chunks,
		embedder:    embedder,
		engine:      engine,
		cache:       cache,
		contextTopK: contextTopK,
		searchTopK:  searchTopK,
	}
}

// RetrieveContext embeds the query and returns the top-matching chunk
// contents joined by newlines, in ranked order. Every failure degrades to
// an empty context so the conversational path downstream always has
// something to send; this method never returns an error.
func (s *RetrievalService) RetrieveContext(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}

	if s.cache != nil {
		if cached, ok, err := s.cache.GetContext(ctx, query); err != nil {
			log.Printf("context cache lookup failed: %v", err)
		} else if ok {
			return cached
		}
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("embed query failed: %v", err)
		return ""
	}

	allChunks, err := s.chunks.ListAll()
	if err != nil {
		log.Printf("list chunks failed: %v", err)
		return ""
	}

	matches := s.engine.FindSimilar(queryVec, allChunks, s.contextTopK)
	if len(matches) == 0 {
		return ""
	}

	contents := make([]string, len(matches))
	for i := range matches {
		contents[i] = matches[i].Content
	}
	contextText := strings.Join(contents, "\n")

	if s.cache != nil {
		if err := s.cache.SetContext(ctx, query, contextText); err != nil {
			log.Printf("context cache store failed: %v", err)
		}
	}
	return contextText
}

type SearchResultDocument struct {
	DocID       uint   `json:"doc_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type SearchResultChunk struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
	ChunkIndex int     `json:"chunk_index"`
}

type SearchResult struct {
	Document SearchResultDocument `json:"document"`
	Chunk    SearchResultChunk    `json:"chunk"`
}

type SearchOutput struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

// Search runs the ranked scan for the search endpoint, resolving each
// matched chunk back to its owning document. Unlike RetrieveContext, a
// failed query embedding is a hard error here.
func (s *RetrievalService) Search(ctx context.Context, query string, limit int) (*SearchOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = s.searchTopK
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryEmbedding, err)
	}

	allChunks, err := s.chunks.ListAll()
	if err != nil {
		return nil, err
	}

	matches := s.engine.FindSimilar(queryVec, allChunks, limit)

	docCache := make(map[uint]*model.Document)
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		doc, ok := docCache[m.DocumentID]
		if !ok {
			doc, err = s.docs.GetByID(m.DocumentID)
			if err != nil {
				return nil, err
			}
			docCache[m.DocumentID] = doc
		}
		if doc == nil {
			// chunk outlived its document; never surface it
			continue
		}
		results = append(results, SearchResult{
			Document: SearchResultDocument{
				DocID:       doc.ID,
				Filename:    doc.Filename,
				ContentType: doc.ContentType,
			},
			Chunk: SearchResultChunk{
				Content:    m.Content,
				Similarity: m.Score,
				ChunkIndex: m.ChunkIndex,
			},
		})
	}

	return &SearchOutput{
		Query:        query,
		Results:      results,
		TotalResults: len(results),
	}, nil
}
