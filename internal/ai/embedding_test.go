package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestEmbed_Success(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "hello", req.Input)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2, 0.3}},
			},
		})
	})

	client := NewEmbeddingClient(EmbeddingConfig{
		BaseURL:     server.URL,
		APIKey:      "test-key",
		Model:       "test-model",
		MaxAttempts: 1,
	})

	vec, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbed_EmptyInput(t *testing.T) {
	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: "http://unused", MaxAttempts: 1})
	_, err := client.Embed(context.Background(), "   ")
	assert.Error(t, err)
}

func TestEmbed_RetriesBoundedAttempts(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	client := NewEmbeddingClient(EmbeddingConfig{
		BaseURL:     server.URL,
		Model:       "test-model",
		MaxAttempts: 3,
	})

	_, err := client.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEmbed_RecoversOnSecondAttempt(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporary", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{1}},
			},
		})
	})

	client := NewEmbeddingClient(EmbeddingConfig{
		BaseURL:     server.URL,
		Model:       "test-model",
		MaxAttempts: 3,
	})

	vec, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbed_EmptyDataInResponse(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})

	client := NewEmbeddingClient(EmbeddingConfig{
		BaseURL:     server.URL,
		Model:       "test-model",
		MaxAttempts: 1,
	})

	_, err := client.Embed(context.Background(), "hello")
	assert.Error(t, err)
}
