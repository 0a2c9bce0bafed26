package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/helios/internal/buildconfig"
	"github.com/Harshitk-cp/helios/internal/domain"
)

const (
	defaultGatewayURL = "https://api.openai.com/v1/chat/completions"
	defaultChatModel  = "gpt-4o-mini"
)

// OpenAIProvider speaks the OpenAI chat completions format, which most AI gateways accept.
type OpenAIProvider struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIProvider(url, apiKey string, timeout time.Duration) *OpenAIProvider {
	if url == "" {
		url = defaultGatewayURL
	}
	return &OpenAIProvider{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// chat types for OpenAI API
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Send(ctx context.Context, r domain.ProviderRequest) (string, error) {
	model := r.Model
	if model == "" {
		model = defaultChatModel
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.User},
		},
		MaxTokens:   r.MaxTokens,
		Temperature: r.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildconfig.UserAgent())
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: chat request failed: %v", ErrProviderFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read chat response: %v", ErrProviderFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: chat API returned status %d: %s", ErrProviderFailure, resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: unmarshal chat response: %v", ErrMalformedResponse, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%w: chat API error: %s", ErrProviderFailure, result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: chat API returned no choices", ErrMalformedResponse)
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: chat API returned empty content", ErrMalformedResponse)
	}
	return content, nil
}
