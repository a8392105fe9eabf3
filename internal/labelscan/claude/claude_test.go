package claude

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanParsesCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("x-api-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_test",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "Methanol | 67-56-1\nMethyl alcohol | 67-56-1"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 10}
		}`))
	}))
	t.Cleanup(srv.Close)

	scanner := NewClaudeScanner("test-key", "claude-3-5-haiku-latest", anthropic.WithBaseURL(srv.URL))

	result, err := scanner.Scan(context.Background(), strings.NewReader("fake-image-bytes"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "Methanol", result.Candidates[0].Name)
	assert.Equal(t, "67-56-1", result.Candidates[0].CASNumber)
}

func TestScanSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	t.Cleanup(srv.Close)

	scanner := NewClaudeScanner("test-key", "claude-3-5-haiku-latest", anthropic.WithBaseURL(srv.URL))

	_, err := scanner.Scan(context.Background(), strings.NewReader("fake"), "image/jpeg")
	assert.Error(t, err)
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/jpeg"))
	assert.Equal(t, "image/jpeg", normaliseMIME("application/pdf"))
}
