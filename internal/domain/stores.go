package domain

import "context"

// SessionMemoryStore is a bounded, per-session ordered log of dialogue turns.
type SessionMemoryStore interface {
	Record(ctx context.Context, sessionID string, entry MemoryEntry) error
	Fetch(ctx context.Context, sessionID string, limit int) ([]MemoryEntry, error)
	Clear(ctx context.Context, sessionID string) error
}

// RemoteMemoryProvider is the external conversation memory service.
type RemoteMemoryProvider interface {
	GetMemory(ctx context.Context, sessionID string, limit int) ([]MemoryEntry, error)
	PutMemory(ctx context.Context, sessionID string, entry MemoryEntry) error
	DeleteMemory(ctx context.Context, sessionID string) error
}

type BeliefStore interface {
	Get(ctx context.Context, characterID string) (*BeliefDocument, error)
	Put(ctx context.Context, characterID string, doc BeliefDocument) error
}

type CharacterStore interface {
	Get(ctx context.Context, id string) (*Character, error)
	List(ctx context.Context) ([]Character, error)
}

type BehaviorLogStore interface {
	Append(ctx context.Context, log BehaviorLog) error
	ListByCharacter(ctx context.Context, characterID string, limit int) ([]BehaviorLog, error)
}

// CompletionProvider is a live text-generation backend.
type CompletionProvider interface {
	Send(ctx context.Context, req ProviderRequest) (string, error)
}

// Completer always answers; degraded answers carry a non-OK Outcome.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) Completion
}
