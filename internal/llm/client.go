package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshitk-cp/helios/internal/domain"
	"go.uber.org/zap"
)

// ClientConfig configures the completion client.
type ClientConfig struct {
	// Simulate forces every request through the simulator.
	Simulate bool
	// DefaultModel is used when a request leaves Model empty.
	DefaultModel string
}

// Client routes completion requests to the live provider and degrades to the simulator
// when the provider is unconfigured, unreachable or answers with an unusable payload.
type Client struct {
	provider  domain.CompletionProvider
	simulator *Simulator
	cfg       ClientConfig
	logger    *zap.Logger
}

// NewClient creates a completion client. provider may be nil, meaning unavailable.
func NewClient(provider domain.CompletionProvider, cfg ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		provider:  provider,
		simulator: NewSimulator(),
		cfg:       cfg,
		logger:    logger,
	}
}

// Available reports whether requests can reach a live provider.
func (c *Client) Available() bool {
	return !c.cfg.Simulate && c.provider != nil
}

// Simulating reports whether the client is configured in simulation mode.
func (c *Client) Simulating() bool {
	return c.cfg.Simulate
}

// Complete always returns text. Anything other than a live answer carries a degraded Outcome.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) domain.Completion {
	if c.cfg.Simulate {
		return c.simulate(req, domain.ReasonSimulationMode)
	}
	if c.provider == nil {
		return c.simulate(req, domain.ReasonProviderUnavailable)
	}

	model := req.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}

	text, err := c.provider.Send(ctx, domain.ProviderRequest{
		Model:       model,
		System:      req.System,
		User:        req.User,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrMalformedResponse
	}
	if err != nil {
		reason := domain.ReasonProviderFailure
		if errors.Is(err, ErrMalformedResponse) {
			reason = domain.ReasonMalformedOutput
		}
		c.logger.Warn("completion provider failed, using simulation",
			zap.String("kind", string(req.Kind)),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return c.simulate(req, reason)
	}

	return domain.Completion{Text: text, Outcome: domain.Ok()}
}

func (c *Client) simulate(req domain.CompletionRequest, reason string) domain.Completion {
	return domain.Completion{
		Text:    c.simulator.Generate(req),
		Outcome: domain.Degraded(reason),
	}
}
