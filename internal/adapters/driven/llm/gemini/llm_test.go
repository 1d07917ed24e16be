package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Submit the form within 30 days."}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "g-key", BaseURL: server.URL, Model: "gemini-pro"})
	require.NoError(t, err)

	answer, err := svc.Generate(context.Background(), "How do I file an expense report?")
	require.NoError(t, err)
	assert.Equal(t, "Submit the form within 30 days.", answer)

	assert.Equal(t, "/models/gemini-pro:generateContent", gotPath)
	assert.Equal(t, "g-key", gotKey)
}

func TestGenerate_RateLimitExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "g-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "g-bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "g-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
