package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *GenerationService) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewGenerationService(Config{
		BaseURL:           srv.URL,
		Model:             "test-model",
		RequestsPerSecond: -1,
	})
	return srv, svc
}

func TestGenerate(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "hello", req.Prompt)
		assert.False(t, req.Stream)
		require.NotNil(t, req.Options)
		assert.Equal(t, 8, req.Options.NumPredict)

		json.NewEncoder(w).Encode(generateResponse{Response: "world", Done: true})
	})

	out, err := svc.Generate(context.Background(), "hello", driven.GenerateOptions{MaxTokens: 8})
	require.NoError(t, err)
	assert.Equal(t, "world", out)
}

func TestGenerate_ServerError(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := svc.Generate(context.Background(), "hello", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestChat(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "an answer"},
			Done:    true,
		})
	})

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "why?"},
	}, driven.ChatOptions{Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "an answer", out)
}

func TestPing(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	srv, svc := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv.Close()

	assert.Error(t, svc.Ping(context.Background()))
}
