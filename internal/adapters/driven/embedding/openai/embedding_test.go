package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})
		require.Error(t, err)
	})

	t.Run("fills defaults", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
		assert.Equal(t, modelDimensions[DefaultModel], svc.Dimensions())
	})

	t.Run("dimension override wins", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", Dimensions: 256})
		require.NoError(t, err)
		assert.Equal(t, 256, svc.Dimensions())
	})

	t.Run("unknown model falls back to a default size", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", Model: "some-future-model"})
		require.NoError(t, err)
		assert.Equal(t, fallbackDimensions, svc.Dimensions())
	})
}

func newEmbeddingTestServer(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: ts.URL})
	require.NoError(t, err)
	return svc
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("orders vectors by input index", func(t *testing.T) {
		svc := newEmbeddingTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			// Second input answered first.
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"data": []map[string]any{
					{"index": 1, "embedding": []float64{0, 1}},
					{"index": 0, "embedding": []float64{1, 0}},
				},
			})
		})

		got, err := svc.EmbedBatch(ctx, []string{"first", "second"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []float32{1, 0}, got[0])
		assert.Equal(t, []float32{0, 1}, got[1])
	})

	t.Run("surfaces the API error message", func(t *testing.T) {
		svc := newEmbeddingTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)) //nolint:errcheck
		})

		_, err := svc.EmbedBatch(ctx, []string{"text"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Incorrect API key provided")
	})

	t.Run("rejects a count mismatch", func(t *testing.T) {
		svc := newEmbeddingTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"data": []map[string]any{{"index": 0, "embedding": []float64{1}}},
			})
		})

		_, err := svc.EmbedBatch(ctx, []string{"a", "b"})
		require.Error(t, err)
	})

	t.Run("empty input needs no request", func(t *testing.T) {
		svc := newEmbeddingTestServer(t, func(http.ResponseWriter, *http.Request) {
			t.Error("no request expected")
		})

		got, err := svc.EmbedBatch(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestEmbeddingService_Ping(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable", func(t *testing.T) {
		svc := newEmbeddingTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})
		require.NoError(t, svc.Ping(ctx))
	})

	t.Run("auth failure is reported", func(t *testing.T) {
		svc := newEmbeddingTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"bad key"}}`)) //nolint:errcheck
		})

		err := svc.Ping(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad key")
	})
}
