package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/Harshitk-cp/helios/internal/llm"
	"github.com/Harshitk-cp/helios/internal/store"
	"go.uber.org/zap"
)

const (
	echoTemperature = 0.6
	echoMaxTokens   = 1024

	// echoMemoryWindow is how much session history Echo looks at before filtering.
	echoMemoryWindow = 20
	// maxEvidenceEntries caps the player-authored entries handed to the generator.
	maxEvidenceEntries = 5
)

const (
	placeholderAttribution = "I feel confused, but this confusion is itself an expression of my inner belief system."
	placeholderEvidence    = "Memory evidence is still taking shape..."
	placeholderInsight     = "Every confusion is a chance to know myself better."
)

// AttributeInput is what the Echo Chamber reasons over.
type AttributeInput struct {
	Beliefs   *domain.BeliefDocument
	Confusion string
	Memory    []domain.MemoryEntry
}

// EchoResult wraps an attribution with its outcome.
type EchoResult struct {
	domain.AttributionResult
	Outcome domain.Outcome `json:"outcome"`
}

// EchoService turns a player's confusion into a first-person causal explanation.
type EchoService struct {
	memory    domain.SessionMemoryStore
	beliefs   domain.BeliefStore
	completer domain.Completer
	model     string
	logger    *zap.Logger
}

func NewEchoService(memory domain.SessionMemoryStore, beliefs domain.BeliefStore, completer domain.Completer, logger *zap.Logger) *EchoService {
	return &EchoService{
		memory:    memory,
		beliefs:   beliefs,
		completer: completer,
		logger:    logger,
	}
}

// SetModel overrides the model requested for attributions.
func (s *EchoService) SetModel(model string) {
	s.model = model
}

// Attribute never fails: unparseable output becomes the attribution text with placeholder
// evidence and insight.
func (s *EchoService) Attribute(ctx context.Context, in AttributeInput) EchoResult {
	evidence := PlayerEvidence(in.Memory, maxEvidenceEntries)
	system, user := llm.BuildEchoPrompts(in.Beliefs, in.Confusion, evidence)

	completion := s.completer.Complete(ctx, domain.CompletionRequest{
		Kind:        domain.GeneratorAttribution,
		System:      system,
		User:        user,
		Subject:     in.Confusion,
		Model:       s.model,
		MaxTokens:   echoMaxTokens,
		Temperature: echoTemperature,
	})

	result, parseOutcome := ParseAttribution(completion.Text)
	return EchoResult{
		AttributionResult: result,
		Outcome:           completion.Outcome.Worse(parseOutcome),
	}
}

// Echo reads the session's recent memory and the player's beliefs, then attributes.
func (s *EchoService) Echo(ctx context.Context, sessionID, playerID, confusion string) (EchoResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return EchoResult{}, ErrSessionRequired
	}

	memory, err := s.memory.Fetch(ctx, sessionID, echoMemoryWindow)
	if err != nil {
		s.logger.Warn("failed to fetch memory for echo", zap.String("session_id", sessionID), zap.Error(err))
		memory = nil
	}

	var beliefs *domain.BeliefDocument
	if playerID != "" {
		doc, err := s.beliefs.Get(ctx, playerID)
		switch {
		case err == nil:
			beliefs = doc
		case !errors.Is(err, store.ErrNotFound):
			s.logger.Warn("failed to load player beliefs", zap.String("player_id", playerID), zap.Error(err))
		}
	}

	return s.Attribute(ctx, AttributeInput{Beliefs: beliefs, Confusion: confusion, Memory: memory}), nil
}

// PlayerEvidence keeps the most recent n player-authored entries, oldest first.
func PlayerEvidence(memory []domain.MemoryEntry, n int) []domain.MemoryEntry {
	var out []domain.MemoryEntry
	for _, e := range memory {
		if e.PlayerAuthored() {
			out = append(out, e)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// ParseAttribution decodes generator output, filling any empty field with a placeholder.
func ParseAttribution(text string) (domain.AttributionResult, domain.Outcome) {
	raw := strings.TrimSpace(text)

	var result domain.AttributionResult
	outcome := domain.Ok()
	if err := json.Unmarshal([]byte(domain.StripCodeFence(raw)), &result); err != nil {
		result = domain.AttributionResult{SubjectiveAttribution: raw}
		outcome = domain.Degraded(domain.ReasonMalformedOutput)
	}

	result.SubjectiveAttribution = strings.TrimSpace(result.SubjectiveAttribution)
	if result.SubjectiveAttribution == "" {
		result.SubjectiveAttribution = placeholderAttribution
	}

	evidence := result.MemoryEvidence[:0:0]
	for _, e := range result.MemoryEvidence {
		if e = strings.TrimSpace(e); e != "" {
			evidence = append(evidence, e)
		}
	}
	if len(evidence) == 0 {
		evidence = []string{placeholderEvidence}
	}
	result.MemoryEvidence = evidence

	result.BeliefInsight = strings.TrimSpace(result.BeliefInsight)
	if result.BeliefInsight == "" {
		result.BeliefInsight = placeholderInsight
	}
	return result, outcome
}
