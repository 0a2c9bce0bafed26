package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/Harshitk-cp/helios/internal/llm"
	"github.com/Harshitk-cp/helios/internal/store"
	"go.uber.org/zap"
)

const (
	// HistoryWindow is the number of recent entries fetched as conversation context.
	HistoryWindow = 10

	dialogueTemperature = 0.8
	dialogueMaxTokens   = 1024
)

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrSessionRequired   = errors.New("session id is required")
)

// fallbackLines are spoken when generation yields nothing usable, keyed by character role.
var fallbackLines = map[string]string{
	store.RoleTavernKeeper: "Welcome to my tavern! What can I do for you?",
	store.RoleCityGuard:    "I keep the order around here. Is there a problem?",
	store.RoleThief:        "*watches you from the shadows*",
	store.RoleHealer:       "May the light guide your path, friend.",
}

// Status summarizes the dialogue runtime.
type Status struct {
	ActiveSessions    int  `json:"active_sessions"`
	TotalEntries      int  `json:"total_entries"`
	SimulationMode    bool `json:"simulation_mode"`
	ProviderAvailable bool `json:"provider_available"`
	RemoteMemory      bool `json:"remote_memory"`
}

type sessionStats interface {
	Stats() (sessions int, entries int)
}

type completerState interface {
	Available() bool
	Simulating() bool
}

type remoteAware interface {
	Remote() bool
}

// ConverseInput is a single player turn addressed to a character.
type ConverseInput struct {
	CharacterID string
	SessionID   string
	Message     string
	// Scene may be nil; the default scene is used then.
	Scene *domain.SceneContext
}

// ConverseResult is the character's reply to a player turn.
type ConverseResult struct {
	Reply         domain.StructuredReply `json:"reply"`
	CharacterName string                 `json:"character_name"`
	Outcome       domain.Outcome         `json:"outcome"`
	Timestamp     time.Time              `json:"timestamp"`
}

// DialogueService composes memory, beliefs and scene into character replies.
type DialogueService struct {
	memory     domain.SessionMemoryStore
	beliefs    domain.BeliefStore
	characters domain.CharacterStore
	behavior   domain.BehaviorLogStore
	completer  domain.Completer
	model      string
	logger     *zap.Logger
}

func NewDialogueService(
	memory domain.SessionMemoryStore,
	beliefs domain.BeliefStore,
	characters domain.CharacterStore,
	completer domain.Completer,
	logger *zap.Logger,
) *DialogueService {
	return &DialogueService{
		memory:     memory,
		beliefs:    beliefs,
		characters: characters,
		completer:  completer,
		logger:     logger,
	}
}

// SetBehaviorLogStore enables recording each turn as a behavior log for belief analysis.
func (s *DialogueService) SetBehaviorLogStore(b domain.BehaviorLogStore) {
	s.behavior = b
}

// SetModel overrides the model requested for character turns.
func (s *DialogueService) SetModel(model string) {
	s.model = model
}

// Converse produces a reply and records the player turn and the reply, in that order.
// Only an unknown character or a missing session id is reported as an error; every other
// problem degrades to a fallback reply.
func (s *DialogueService) Converse(ctx context.Context, in ConverseInput) (*ConverseResult, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		return nil, ErrSessionRequired
	}

	character, err := s.characters.Get(ctx, in.CharacterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCharacterNotFound, in.CharacterID)
		}
		return nil, fmt.Errorf("get character: %w", err)
	}

	history, err := s.memory.Fetch(ctx, in.SessionID, HistoryWindow)
	if err != nil {
		s.logger.Warn("failed to fetch history", zap.String("session_id", in.SessionID), zap.Error(err))
		history = nil
	}

	beliefs := s.loadBeliefs(ctx, character.ID)

	scene := store.DefaultScene()
	if in.Scene != nil {
		scene = *in.Scene
	}

	system, user := llm.BuildNPCPrompts(llm.NPCPrompt{
		Character: *character,
		Beliefs:   beliefs,
		Scene:     scene,
		History:   history,
		Message:   in.Message,
	})

	completion := s.completer.Complete(ctx, domain.CompletionRequest{
		Kind:        domain.GeneratorNPC,
		System:      system,
		User:        user,
		Subject:     in.Message,
		Model:       s.model,
		MaxTokens:   dialogueMaxTokens,
		Temperature: dialogueTemperature,
	})

	reply, parseOutcome := ParseReply(completion.Text)
	outcome := completion.Outcome.Worse(parseOutcome)
	if reply.Message == "" {
		reply = FallbackReply(*character)
		outcome = domain.Degraded(domain.ReasonStaticFallback)
	}

	s.record(ctx, in.SessionID, *character, in.Message, reply)
	s.logBehavior(ctx, *character, scene.SceneID, in.Message, reply)

	s.logger.Debug("character replied",
		zap.String("session_id", in.SessionID),
		zap.String("character_id", character.ID),
		zap.String("outcome", string(outcome.Status)),
		zap.String("reason", outcome.Reason),
	)

	return &ConverseResult{
		Reply:         reply,
		CharacterName: character.Name,
		Outcome:       outcome,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func (s *DialogueService) loadBeliefs(ctx context.Context, characterID string) *domain.BeliefDocument {
	doc, err := s.beliefs.Get(ctx, characterID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to load beliefs", zap.String("character_id", characterID), zap.Error(err))
		}
		return nil
	}
	return doc
}

func (s *DialogueService) record(ctx context.Context, sessionID string, c domain.Character, message string, reply domain.StructuredReply) {
	if err := s.memory.Record(ctx, sessionID, domain.NewMemoryEntry(domain.PlayerSpeaker, message, domain.RoleUser)); err != nil {
		s.logger.Warn("failed to record player turn", zap.String("session_id", sessionID), zap.Error(err))
	}

	entry := domain.NewMemoryEntry(c.Name, reply.Message, domain.RoleAssistant)
	entry.Emotion = reply.Emotion
	entry.Action = reply.Action
	if err := s.memory.Record(ctx, sessionID, entry); err != nil {
		s.logger.Warn("failed to record character turn", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *DialogueService) logBehavior(ctx context.Context, c domain.Character, sceneID, message string, reply domain.StructuredReply) {
	if s.behavior == nil {
		return
	}
	err := s.behavior.Append(ctx, domain.BehaviorLog{
		Timestamp:   time.Now().UTC(),
		CharacterID: c.ID,
		SceneID:     sceneID,
		ActionType:  "conversation",
		Input:       message,
		Output:      reply.Message,
	})
	if err != nil {
		s.logger.Warn("failed to log behavior", zap.String("character_id", c.ID), zap.Error(err))
	}
}

// History returns the most recent limit entries of a session, oldest first.
func (s *DialogueService) History(ctx context.Context, sessionID string, limit int) ([]domain.MemoryEntry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	return s.memory.Fetch(ctx, sessionID, limit)
}

// ClearSession removes every entry of a session.
func (s *DialogueService) ClearSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionRequired
	}
	return s.memory.Clear(ctx, sessionID)
}

// Characters lists the roster.
func (s *DialogueService) Characters(ctx context.Context) ([]domain.Character, error) {
	return s.characters.List(ctx)
}

// Status reports whatever the configured memory store and completer expose.
func (s *DialogueService) Status() Status {
	var st Status
	if m, ok := s.memory.(sessionStats); ok {
		st.ActiveSessions, st.TotalEntries = m.Stats()
	}
	if r, ok := s.memory.(remoteAware); ok {
		st.RemoteMemory = r.Remote()
	}
	if c, ok := s.completer.(completerState); ok {
		st.SimulationMode = c.Simulating()
		st.ProviderAvailable = c.Available()
	}
	return st
}

// ParseReply normalizes raw generator output into a reply. Output that is not a JSON object
// becomes the message verbatim with a neutral emotion.
func ParseReply(text string) (domain.StructuredReply, domain.Outcome) {
	raw := strings.TrimSpace(text)

	var parsed struct {
		Message *string `json:"message"`
		Emotion string  `json:"emotion"`
		Action  *string `json:"action"`
	}
	if err := json.Unmarshal([]byte(domain.StripCodeFence(raw)), &parsed); err != nil {
		return domain.StructuredReply{Message: raw, Emotion: domain.DefaultEmotion}, domain.Degraded(domain.ReasonMalformedOutput)
	}

	reply := domain.StructuredReply{Emotion: strings.TrimSpace(parsed.Emotion)}
	outcome := domain.Ok()
	if parsed.Message != nil {
		reply.Message = strings.TrimSpace(*parsed.Message)
	} else {
		reply.Message = raw
		outcome = domain.Degraded(domain.ReasonMalformedOutput)
	}
	if parsed.Action != nil {
		reply.Action = strings.TrimSpace(*parsed.Action)
	}
	if reply.Emotion == "" {
		reply.Emotion = domain.DefaultEmotion
	}
	return reply, outcome
}

// FallbackReply is the static line for a character whose turn could not be generated.
func FallbackReply(c domain.Character) domain.StructuredReply {
	msg, ok := fallbackLines[c.Role]
	if !ok {
		msg = fmt.Sprintf("I'm %s. Good to meet you.", c.Name)
	}
	return domain.StructuredReply{Message: msg, Emotion: domain.DefaultEmotion}
}
