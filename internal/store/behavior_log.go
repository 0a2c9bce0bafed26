package store

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/helios/internal/domain"
)

const defaultMaxBehaviorLogs = 200

// BehaviorLogMemStore keeps a bounded behavior log per character.
type BehaviorLogMemStore struct {
	logs    map[string][]domain.BehaviorLog
	mu      sync.Mutex
	maxLogs int
}

func NewBehaviorLogMemStore() *BehaviorLogMemStore {
	return &BehaviorLogMemStore{
		logs:    make(map[string][]domain.BehaviorLog),
		maxLogs: defaultMaxBehaviorLogs,
	}
}

func (s *BehaviorLogMemStore) Append(ctx context.Context, log domain.BehaviorLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := append(s.logs[log.CharacterID], log)
	if overflow := len(logs) - s.maxLogs; overflow > 0 {
		logs = append([]domain.BehaviorLog(nil), logs[overflow:]...)
	}
	s.logs[log.CharacterID] = logs
	return nil
}

// ListByCharacter returns the most recent limit logs, oldest first. A limit <= 0 returns all.
func (s *BehaviorLogMemStore) ListByCharacter(ctx context.Context, characterID string, limit int) ([]domain.BehaviorLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := s.logs[characterID]
	if limit > 0 && limit < len(logs) {
		logs = logs[len(logs)-limit:]
	}
	return append([]domain.BehaviorLog{}, logs...), nil
}
