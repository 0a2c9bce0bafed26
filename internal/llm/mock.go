package llm

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/helios/internal/domain"
)

// MockProvider is a configurable completion provider for testing.
// Set Response or Error to control what Send returns.
type MockProvider struct {
	mu       sync.Mutex
	Response string
	Error    error

	// Call tracking for assertions
	Calls []domain.ProviderRequest
}

func NewMockProvider() *MockProvider {
	return &MockProvider{Response: `{"message":"Mock reply","emotion":"neutral"}`}
}

func (p *MockProvider) Send(ctx context.Context, req domain.ProviderRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls = append(p.Calls, req)
	if p.Error != nil {
		return "", p.Error
	}
	return p.Response, nil
}

// LastCall returns the most recent request, or false if Send was never called.
func (p *MockProvider) LastCall() (domain.ProviderRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.Calls) == 0 {
		return domain.ProviderRequest{}, false
	}
	return p.Calls[len(p.Calls)-1], true
}

// Reset clears all recorded calls and resets responses to defaults.
func (p *MockProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Response = `{"message":"Mock reply","emotion":"neutral"}`
	p.Error = nil
	p.Calls = nil
}
