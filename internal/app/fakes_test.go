package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"docquery/internal/model"
)

// In-memory doubles for the store, embedder, cache and publisher
// interfaces so the services can be exercised without MySQL, Redis or a
// live embedding provider.

type fakeDocStore struct {
	docs   map[uint]*model.Document
	nextID uint
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[uint]*model.Document), nextID: 1}
}

func (s *fakeDocStore) Create(doc *model.Document) error {
	for _, existing := range s.docs {
		if existing.Filename == doc.Filename {
			return fmt.Errorf("duplicate filename %q", doc.Filename)
		}
	}
	doc.ID = s.nextID
	s.nextID++
	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

func (s *fakeDocStore) GetByID(id uint) (*model.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (s *fakeDocStore) GetByFilename(filename string) (*model.Document, error) {
	for _, doc := range s.docs {
		if doc.Filename == filename {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeDocStore) List() ([]model.Document, error) {
	ids := make([]uint, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.docs[id])
	}
	return out, nil
}

func (s *fakeDocStore) UpdateStatus(id uint, status string, chunksCreated, failedChunks int) error {
	doc, ok := s.docs[id]
	if !ok {
		return errors.New("document not found")
	}
	doc.Status = status
	doc.ChunksCreated = chunksCreated
	doc.FailedChunks = failedChunks
	return nil
}

func (s *fakeDocStore) Delete(id uint) error {
	delete(s.docs, id)
	return nil
}

func (s *fakeDocStore) Count() (int64, error) {
	return int64(len(s.docs)), nil
}

func (s *fakeDocStore) CountByStatus(status string) (int64, error) {
	var n int64
	for _, doc := range s.docs {
		if doc.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *fakeDocStore) CountByContentType() (map[string]int64, error) {
	dist := make(map[string]int64)
	for _, doc := range s.docs {
		dist[doc.ContentType]++
	}
	return dist, nil
}

type fakeChunkStore struct {
	chunks []model.Chunk
	nextID uint
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{nextID: 1}
}

func (s *fakeChunkStore) Create(chunk *model.Chunk) error {
	chunk.ID = s.nextID
	s.nextID++
	s.chunks = append(s.chunks, *chunk)
	return nil
}

func (s *fakeChunkStore) ListAll() ([]model.Chunk, error) {
	out := make([]model.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

func (s *fakeChunkStore) ListByDocumentID(documentID uint, limit, offset int) ([]model.Chunk, error) {
	var matched []model.Chunk
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ChunkIndex < matched[j].ChunkIndex })
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *fakeChunkStore) CountByDocumentID(documentID uint) (int64, error) {
	var n int64
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			n++
		}
	}
	return n, nil
}

func (s *fakeChunkStore) Count() (int64, error) {
	return int64(len(s.chunks)), nil
}

func (s *fakeChunkStore) DeleteByDocumentID(documentID uint) (int64, error) {
	var kept []model.Chunk
	var deleted int64
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	s.chunks = kept
	return deleted, nil
}

// fakeEmbedder maps chunk text to deterministic vectors. A nil fn embeds
// everything as a unit vector; a non-nil fn controls per-text behavior.
type fakeEmbedder struct {
	fn    func(text string) ([]float32, error)
	calls int
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fn != nil {
		return e.fn(text)
	}
	return []float32{1, 0}, nil
}

type fakePublisher struct {
	events []model.IngestEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event model.IngestEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fakeCache struct {
	entries map[string]string
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) GetContext(_ context.Context, query string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.entries[query]
	return v, ok, nil
}

func (c *fakeCache) SetContext(_ context.Context, query, contextText string) error {
	c.entries[query] = contextText
	return nil
}

func (c *fakeCache) Flush(context.Context) error {
	c.entries = make(map[string]string)
	return nil
}
