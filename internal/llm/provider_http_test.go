package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveJSON(t *testing.T, status int, body string, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

var testRequest = domain.ProviderRequest{
	Model:       "claude-3-sonnet",
	System:      "You are Marcus.",
	User:        "Hello",
	MaxTokens:   128,
	Temperature: 0.8,
}

func TestOpenAIProvider_Send(t *testing.T) {
	var got chatRequest
	var auth string
	srv := serveJSON(t, http.StatusOK, `{"choices":[{"message":{"content":"  {\"message\":\"Welcome\"}  "}}]}`, func(r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
	})

	p := NewOpenAIProvider(srv.URL, "key-1", time.Second)
	text, err := p.Send(context.Background(), testRequest)

	require.NoError(t, err)
	assert.Equal(t, `{"message":"Welcome"}`, text)
	assert.Equal(t, "Bearer key-1", auth)
	assert.Equal(t, "claude-3-sonnet", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "You are Marcus.", got.Messages[0].Content)
	assert.Equal(t, "Hello", got.Messages[1].Content)
	assert.Equal(t, 128, got.MaxTokens)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"overloaded"}}`, ErrProviderFailure},
		{"api error", http.StatusOK, `{"error":{"message":"bad key"}}`, ErrProviderFailure},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrMalformedResponse},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":""}}]}`, ErrMalformedResponse},
		{"not json", http.StatusOK, `<html>`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.status, tt.body, nil)
			_, err := NewOpenAIProvider(srv.URL, "key", time.Second).Send(context.Background(), testRequest)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpenAIProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewOpenAIProvider(url, "key", time.Second).Send(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrProviderFailure)
}

func TestAnthropicProvider_Send(t *testing.T) {
	var got anthropicRequest
	var key, version string
	srv := serveJSON(t, http.StatusOK, `{"content":[{"type":"text","text":"Aye, welcome."}]}`, func(r *http.Request) {
		key = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&got)
	})

	text, err := NewAnthropicProvider(srv.URL, "key-2", time.Second).Send(context.Background(), testRequest)

	require.NoError(t, err)
	assert.Equal(t, "Aye, welcome.", text)
	assert.Equal(t, "key-2", key)
	assert.Equal(t, anthropicVersion, version)
	assert.Equal(t, "You are Marcus.", got.System)
	assert.Equal(t, "claude-3-sonnet", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Hello", got.Messages[0].Content)
}

func TestAnthropicProvider_Errors(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"content":[]}`, nil)
	_, err := NewAnthropicProvider(srv.URL, "key", time.Second).Send(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	srv = serveJSON(t, http.StatusUnauthorized, `{"error":{"type":"auth","message":"nope"}}`, nil)
	_, err = NewAnthropicProvider(srv.URL, "key", time.Second).Send(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrProviderFailure)
}
