package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelscan/internal/config"
	"labelscan/internal/inference"
	"labelscan/internal/inference/claude"
	"labelscan/internal/port"
)

func newClaudeTestProvider(serverURL string) *claude.Provider {
	return claude.NewProvider(&config.InferenceConfig{
		Provider:    "claude",
		APIKey:      "sk-test",
		TextModel:   "gemini-2.0-flash-exp",
		TimeoutSecs: 10,
		BaseURL:     serverURL,
	})
}

func claudeSuccessResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"stop_reason": "end_turn",
	}
}

func TestClaudeProvider_GenerateFromPromptAndImage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])

		msg := reqBody["messages"].([]interface{})[0].(map[string]interface{})
		blocks := msg["content"].([]interface{})
		require.Len(t, blocks, 2)
		assert.Equal(t, "text", blocks[0].(map[string]interface{})["type"])
		assert.Equal(t, "describe", blocks[0].(map[string]interface{})["text"])
		img := blocks[1].(map[string]interface{})
		assert.Equal(t, "image", img["type"])
		source := img["source"].(map[string]interface{})
		assert.Equal(t, "image/jpeg", source["media_type"])
		assert.NotEmpty(t, source["data"])

		_ = json.NewEncoder(w).Encode(claudeSuccessResponse("Carabus auratus"))
	}))
	defer server.Close()

	p := newClaudeTestProvider(server.URL)

	text, err := p.GenerateFromPromptAndImage(context.Background(), "describe",
		port.Image{Data: []byte{0xFF, 0xD8, 0xFF}, MIMEType: "image/jpeg"})

	require.NoError(t, err)
	assert.Equal(t, "Carabus auratus", text)
}

func TestClaudeProvider_GenerateFromImage_SendsImageOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		msg := reqBody["messages"].([]interface{})[0].(map[string]interface{})
		blocks := msg["content"].([]interface{})
		require.Len(t, blocks, 1)
		assert.Equal(t, "image", blocks[0].(map[string]interface{})["type"])

		_ = json.NewEncoder(w).Encode(claudeSuccessResponse("label"))
	}))
	defer server.Close()

	p := newClaudeTestProvider(server.URL)

	text, err := p.GenerateFromImage(context.Background(), port.Image{Data: []byte{1}, MIMEType: "image/png"})

	require.NoError(t, err)
	assert.Equal(t, "label", text)
}

func TestClaudeProvider_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"Rate limited"}}`))
	}))
	defer server.Close()

	p := newClaudeTestProvider(server.URL)

	_, err := p.GenerateText(context.Background(), "hello")

	require.Error(t, err)
	var qErr *inference.QuotaError
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, "claude", qErr.Provider)
	assert.Equal(t, 30*time.Second, qErr.RetryAfter)
}

func TestClaudeProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer server.Close()

	p := newClaudeTestProvider(server.URL)

	_, err := p.GenerateText(context.Background(), "hello")

	require.Error(t, err)
	assert.False(t, inference.IsQuotaExhausted(err))
	assert.Contains(t, err.Error(), "anthropic API error (status 500)")
}

func TestClaudeProvider_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	p := newClaudeTestProvider(server.URL)

	_, err := p.GenerateText(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestClaudeProvider_Rebind(t *testing.T) {
	var seenKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenKey = r.Header.Get("x-api-key")
		_ = json.NewEncoder(w).Encode(claudeSuccessResponse("ok"))
	}))
	defer server.Close()

	p := newClaudeTestProvider(server.URL)
	require.NoError(t, p.Rebind("sk-rotated"))

	_, err := p.GenerateText(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "sk-rotated", seenKey)
}

func TestClaudeProvider_ConnectionRefused(t *testing.T) {
	p := newClaudeTestProvider("http://127.0.0.1:1")

	_, err := p.GenerateText(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling anthropic API")
}
