package interpreter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenRouterComplete(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"expenses\":[]}"}}]}`))
	}))
	defer server.Close()

	provider := NewOpenRouterProviderWithURL(server.URL, "test-key", "anthropic/claude-3.5-sonnet")

	content, err := provider.Complete(context.Background(), "system doc", "user msg")

	assert.NoError(t, err)
	assert.Equal(t, `{"expenses":[]}`, content)

	assert.Equal(t, "anthropic/claude-3.5-sonnet", captured.Model)
	assert.Equal(t, 0.1, captured.Temperature)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	if assert.Len(t, captured.Messages, 2) {
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Equal(t, "system doc", captured.Messages[0].Content)
		assert.Equal(t, "user", captured.Messages[1].Role)
		assert.Equal(t, "user msg", captured.Messages[1].Content)
	}
}

func TestOpenRouterComplete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewOpenRouterProviderWithURL(server.URL, "test-key", "test-model")

	_, err := provider.Complete(context.Background(), "s", "u")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenRouterComplete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := NewOpenRouterProviderWithURL(server.URL, "test-key", "test-model")

	_, err := provider.Complete(context.Background(), "s", "u")

	assert.Error(t, err)
}

func TestOpenRouterComplete_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	provider := NewOpenRouterProviderWithURL(server.URL, "test-key", "test-model")

	_, err := provider.Complete(context.Background(), "s", "u")

	assert.Error(t, err)
}
