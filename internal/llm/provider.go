package llm

import (
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/helios/internal/domain"
)

var (
	// ErrProviderUnavailable means no credential or no usable provider is configured.
	ErrProviderUnavailable = errors.New("completion provider unavailable")
	// ErrProviderFailure covers network errors, timeouts and non-success statuses.
	ErrProviderFailure = errors.New("completion provider failure")
	// ErrMalformedResponse means the provider answered without the expected content field.
	ErrMalformedResponse = errors.New("malformed completion response")
)

// Provider constants
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

const defaultProviderTimeout = 30 * time.Second

// NewProvider creates a completion provider by name. A missing credential yields
// ErrProviderUnavailable, which callers treat as "simulate" rather than as a failure.
func NewProvider(provider, baseURL, apiKey string, timeout time.Duration) (domain.CompletionProvider, error) {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("%w: COMPLETION_API_KEY is required for the OpenAI-compatible gateway", ErrProviderUnavailable)
		}
		return NewOpenAIProvider(baseURL, apiKey, timeout), nil

	case ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("%w: COMPLETION_API_KEY is required for Anthropic", ErrProviderUnavailable)
		}
		return NewAnthropicProvider(baseURL, apiKey, timeout), nil

	case ProviderMock:
		return NewMockProvider(), nil

	default:
		return nil, fmt.Errorf("%w: unknown provider %q (valid options: openai, anthropic, mock)", ErrProviderUnavailable, provider)
	}
}
