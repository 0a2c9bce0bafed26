package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/Harshitk-cp/helios/internal/llm"
	"github.com/Harshitk-cp/helios/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	beliefTemperature = 0.3
	beliefMaxTokens   = 2048

	// behaviorWindow bounds how many recorded logs feed one analysis.
	behaviorWindow = 50
)

var ErrBeliefsNotFound = errors.New("beliefs not found")

// BeliefAnalysis is the result of one analysis run.
type BeliefAnalysis struct {
	ID          uuid.UUID             `json:"id"`
	CharacterID string                `json:"character_id"`
	Document    domain.BeliefDocument `json:"document"`
	// Raw is the stored document rendered as YAML.
	Raw        string         `json:"belief_yaml"`
	Outcome    domain.Outcome `json:"outcome"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
}

// BeliefService derives belief documents from behavior logs.
type BeliefService struct {
	beliefs    domain.BeliefStore
	behavior   domain.BehaviorLogStore
	characters domain.CharacterStore
	completer  domain.Completer
	model      string
	logger     *zap.Logger
}

func NewBeliefService(
	beliefs domain.BeliefStore,
	behavior domain.BehaviorLogStore,
	characters domain.CharacterStore,
	completer domain.Completer,
	logger *zap.Logger,
) *BeliefService {
	return &BeliefService{
		beliefs:    beliefs,
		behavior:   behavior,
		characters: characters,
		completer:  completer,
		logger:     logger,
	}
}

// SetModel overrides the model requested for analyses.
func (s *BeliefService) SetModel(model string) {
	s.model = model
}

// Analyze derives a belief document from logs and replaces the character's stored document.
// An empty log yields an empty document. Generator output that cannot be decoded is
// replaced by the simulator's example document.
func (s *BeliefService) Analyze(ctx context.Context, characterID string, logs []domain.BehaviorLog) (*BeliefAnalysis, error) {
	analysis := &BeliefAnalysis{
		ID:          uuid.New(),
		CharacterID: characterID,
		Outcome:     domain.Ok(),
		AnalyzedAt:  time.Now().UTC(),
	}

	if len(logs) == 0 {
		analysis.Document = domain.EmptyBeliefDocument()
		analysis.Raw = analysis.Document.YAML()
	} else {
		analysis.Document, analysis.Raw, analysis.Outcome = s.derive(ctx, characterID, logs)
	}

	if err := s.beliefs.Put(ctx, characterID, analysis.Document); err != nil {
		return nil, fmt.Errorf("store beliefs: %w", err)
	}

	s.logger.Info("belief system analyzed",
		zap.String("analysis_id", analysis.ID.String()),
		zap.String("character_id", characterID),
		zap.Int("logs", len(logs)),
		zap.String("outcome", string(analysis.Outcome.Status)),
	)
	return analysis, nil
}

func (s *BeliefService) derive(ctx context.Context, characterID string, logs []domain.BehaviorLog) (domain.BeliefDocument, string, domain.Outcome) {
	system, user, err := llm.BuildBeliefAnalysisPrompts(logs)
	if err != nil {
		s.logger.Warn("failed to build analysis prompt", zap.String("character_id", characterID), zap.Error(err))
		fallback := exampleBeliefs()
		return fallback, fallback.YAML(), domain.Degraded(domain.ReasonMalformedOutput)
	}

	completion := s.completer.Complete(ctx, domain.CompletionRequest{
		Kind:        domain.GeneratorBeliefAnalysis,
		System:      system,
		User:        user,
		Model:       s.model,
		MaxTokens:   beliefMaxTokens,
		Temperature: beliefTemperature,
	})

	doc, clamped, err := domain.DecodeBeliefDocument(completion.Text)
	if err != nil {
		s.logger.Warn("belief document could not be decoded, using example document",
			zap.String("character_id", characterID), zap.Error(err))
		fallback := exampleBeliefs()
		return fallback, fallback.YAML(), domain.Degraded(domain.ReasonMalformedOutput)
	}

	outcome := completion.Outcome
	if clamped {
		s.logger.Warn("belief weights out of range were clamped", zap.String("character_id", characterID))
		outcome = outcome.Worse(domain.Degraded(domain.ReasonMalformedOutput))
	}
	return doc, doc.YAML(), outcome
}

// AnalyzeCharacter analyzes the character's recorded behavior log.
func (s *BeliefService) AnalyzeCharacter(ctx context.Context, characterID string) (*BeliefAnalysis, error) {
	if _, err := s.characters.Get(ctx, characterID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCharacterNotFound, characterID)
		}
		return nil, fmt.Errorf("get character: %w", err)
	}

	logs, err := s.behavior.ListByCharacter(ctx, characterID, behaviorWindow)
	if err != nil {
		return nil, fmt.Errorf("list behavior logs: %w", err)
	}
	return s.Analyze(ctx, characterID, logs)
}

// Get returns the stored document of a character.
func (s *BeliefService) Get(ctx context.Context, characterID string) (*domain.BeliefDocument, error) {
	doc, err := s.beliefs.Get(ctx, characterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBeliefsNotFound
		}
		return nil, err
	}
	return doc, nil
}

func exampleBeliefs() domain.BeliefDocument {
	doc, err := domain.ParseBeliefDocument(llm.ExampleBeliefYAML)
	if err != nil {
		return domain.EmptyBeliefDocument()
	}
	return doc
}
