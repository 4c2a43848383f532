package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docquery/internal/model"
	"docquery/internal/rank"
)

func seedChunk(t *testing.T, chunks *fakeChunkStore, docID uint, index int, content string, vec []float32) {
	t.Helper()
	c := &model.Chunk{
		DocumentID: docID,
		ChunkIndex: index,
		Content:    content,
		ChunkSize:  len(content),
	}
	c.SetEmbedding(vec)
	require.NoError(t, chunks.Create(c))
}

func seedDoc(t *testing.T, docs *fakeDocStore, filename, contentType string) uint {
	t.Helper()
	doc := &model.Document{
		Filename:    filename,
		ContentType: contentType,
		Status:      model.DocumentStatusProcessed,
	}
	require.NoError(t, docs.Create(doc))
	return doc.ID
}

func newRetrievalFixture(embedder *fakeEmbedder, cache QueryCache) (*RetrievalService, *fakeDocStore, *fakeChunkStore) {
	docs := newFakeDocStore()
	chunks := newFakeChunkStore()
	svc := NewRetrievalService(docs, chunks, embedder, rank.NewLinear(0.1), cache, 3, 5)
	return svc, docs, chunks
}

func TestRetrieveContext_EmptyQuery(t *testing.T) {
	svc, _, _ := newRetrievalFixture(&fakeEmbedder{}, nil)
	assert.Equal(t, "", svc.RetrieveContext(context.Background(), ""))
	assert.Equal(t, "", svc.RetrieveContext(context.Background(), "   "))
}

func TestRetrieveContext_EmbedderUnavailableReturnsEmpty(t *testing.T) {
	embedder := &fakeEmbedder{fn: func(string) ([]float32, error) {
		return nil, errors.New("provider down")
	}}
	svc, docs, chunks := newRetrievalFixture(embedder, nil)
	docID := seedDoc(t, docs, "a.txt", "text/plain")
	seedChunk(t, chunks, docID, 0, "content", []float32{1, 0})

	assert.Equal(t, "", svc.RetrieveContext(context.Background(), "anything"))
}

func TestRetrieveContext_JoinsRankedChunks(t *testing.T) {
	svc, docs, chunks := newRetrievalFixture(&fakeEmbedder{}, nil)
	docID := seedDoc(t, docs, "a.txt", "text/plain")
	seedChunk(t, chunks, docID, 0, "weak match", []float32{1, 2})
	seedChunk(t, chunks, docID, 1, "best match", []float32{1, 0})
	seedChunk(t, chunks, docID, 2, "unrelated", []float32{0, 1})

	got := svc.RetrieveContext(context.Background(), "query")
	assert.Equal(t, "best match\nweak match", got)
}

func TestRetrieveContext_NoMatchAboveThreshold(t *testing.T) {
	svc, docs, chunks := newRetrievalFixture(&fakeEmbedder{}, nil)
	docID := seedDoc(t, docs, "a.txt", "text/plain")
	seedChunk(t, chunks, docID, 0, "orthogonal", []float32{0, 1})

	assert.Equal(t, "", svc.RetrieveContext(context.Background(), "query"))
}

func TestRetrieveContext_HonorsTopKLimit(t *testing.T) {
	svc, docs, chunks := newRetrievalFixture(&fakeEmbedder{}, nil)
	docID := seedDoc(t, docs, "a.txt", "text/plain")
	for i := 0; i < 5; i++ {
		seedChunk(t, chunks, docID, i, "chunk", []float32{1, 0})
	}

	got := svc.RetrieveContext(context.Background(), "query")
	assert.Equal(t, "chunk\nchunk\nchunk", got)
}

func TestRetrieveContext_CacheHitSkipsEmbedding(t *testing.T) {
	embedder := &fakeEmbedder{}
	qcache := newFakeCache()
	qcache.entries["repeated question"] = "cached context"
	svc, _, _ := newRetrievalFixture(embedder, qcache)

	got := svc.RetrieveContext(context.Background(), "repeated question")
	assert.Equal(t, "cached context", got)
	assert.Zero(t, embedder.calls)
}

func TestRetrieveContext_CacheErrorDegradesToScan(t *testing.T) {
	qcache := newFakeCache()
	qcache.getErr = errors.New("redis down")
	svc, docs, chunks := newRetrievalFixture(&fakeEmbedder{}, qcache)
	docID := seedDoc(t, docs, "a.txt", "text/plain")
	seedChunk(t, chunks, docID, 0, "still works", []float32{1, 0})

	got := svc.RetrieveContext(context.Background(), "query")
	assert.Equal(t, "still works", got)
}

func TestRetrieveContext_StoresResultInCache(t *testing.T) {
	qcache := newFakeCache()
	svc, docs, chunks := newRetrievalFixture(&fakeEmbedder{}, qcache)
	docID := seedDoc(t, docs, "a.txt", "text/plain")
	seedChunk(t, chunks, docID, 0, "answer", []float32{1, 0})

	got := svc.RetrieveContext(context.Background(), "question")
	assert.Equal(t, "answer", got)
	assert.Equal(t, "answer", qcache.entries["question"])
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, _, _ := newRetrievalFixture(&fakeEmbedder{}, nil)
	_, err := svc.Search(context.Background(), "  ", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearch_EmbedFailureIsHardError(t *testing.T) {
	embedder := &fakeEmbedder{fn: func(string) ([]float32, error) {
		return nil, errors.New("provider down")
	}}
	svc, _, _ := newRetrievalFixture(embedder, nil)

	_, err := svc.Search(context.Background(), "query", 5)
	assert.ErrorIs(t, err, ErrQueryEmbedding)
}

func TestSearch_ResolvesOwningDocuments(t *testing.T) {
	svc, docs, chunks := newRetrievalFixture(&fakeEmbedder{}, nil)
	pdfID := seedDoc(t, docs, "report.pdf", "application/pdf")
	txtID := seedDoc(t, docs, "notes.txt", "text/plain")
	seedChunk(t, chunks, pdfID, 0, "from the report", []float32{1, 0.1})
	seedChunk(t, chunks, txtID, 3, "from the notes", []float32{1, 0})

	out, err := svc.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Equal(t, 2, out.TotalResults)

	assert.Equal(t, "notes.txt", out.Results[0].Document.Filename)
	assert.Equal(t, 3, out.Results[0].Chunk.ChunkIndex)
	assert.Equal(t, "report.pdf", out.Results[1].Document.Filename)
	assert.Greater(t, out.Results[0].Chunk.Similarity, out.Results[1].Chunk.Similarity)
}

func TestSearch_DefaultLimit(t *testing.T) {
	svc, docs, chunks := newRetrievalFixture(&fakeEmbedder{}, nil)
	docID := seedDoc(t, docs, "a.txt", "text/plain")
	for i := 0; i < 8; i++ {
		seedChunk(t, chunks, docID, i, "chunk", []float32{1, 0})
	}

	out, err := svc.Search(context.Background(), "query", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, out.TotalResults)
}

func TestSearch_SkipsOrphanedChunks(t *testing.T) {
	svc, docs, chunks := newRetrievalFixture(&fakeEmbedder{}, nil)
	docID := seedDoc(t, docs, "a.txt", "text/plain")
	seedChunk(t, chunks, docID, 0, "kept", []float32{1, 0})
	seedChunk(t, chunks, 999, 0, "orphan", []float32{1, 0})

	out, err := svc.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Equal(t, 1, out.TotalResults)
	assert.Equal(t, "kept", out.Results[0].Chunk.Content)
}
