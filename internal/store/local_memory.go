package store

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/helios/internal/domain"
)

// sessionLog is the bounded log of one session. Its mutex serializes append-then-evict.
type sessionLog struct {
	mu      sync.Mutex
	entries []domain.MemoryEntry
}

// LocalMemory is the in-process session memory backend.
type LocalMemory struct {
	sessions   map[string]*sessionLog
	mu         sync.RWMutex
	maxEntries int
}

func NewLocalMemory() *LocalMemory {
	return &LocalMemory{
		sessions:   make(map[string]*sessionLog),
		maxEntries: domain.MaxSessionEntries,
	}
}

// getSession returns the log for the session, creating it if create is set.
func (m *LocalMemory) getSession(sessionID string, create bool) *sessionLog {
	m.mu.RLock()
	log, exists := m.sessions[sessionID]
	m.mu.RUnlock()

	if exists || !create {
		return log
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if log, exists = m.sessions[sessionID]; exists {
		return log
	}

	log = &sessionLog{}
	m.sessions[sessionID] = log
	return log
}

// Record appends an entry, evicting the oldest entries past the bound. It never fails.
func (m *LocalMemory) Record(ctx context.Context, sessionID string, entry domain.MemoryEntry) error {
	log := m.getSession(sessionID, true)

	log.mu.Lock()
	defer log.mu.Unlock()

	log.entries = append(log.entries, entry)
	if overflow := len(log.entries) - m.maxEntries; overflow > 0 {
		kept := make([]domain.MemoryEntry, m.maxEntries)
		copy(kept, log.entries[overflow:])
		log.entries = kept
	}
	return nil
}

// Fetch returns the most recent limit entries, oldest first. A limit <= 0 returns the whole log.
func (m *LocalMemory) Fetch(ctx context.Context, sessionID string, limit int) ([]domain.MemoryEntry, error) {
	log := m.getSession(sessionID, false)
	if log == nil {
		return []domain.MemoryEntry{}, nil
	}

	log.mu.Lock()
	defer log.mu.Unlock()

	start := 0
	if limit > 0 && limit < len(log.entries) {
		start = len(log.entries) - limit
	}

	out := make([]domain.MemoryEntry, len(log.entries)-start)
	copy(out, log.entries[start:])
	return out, nil
}

// Clear drops the session. Clearing an unknown session is a no-op.
func (m *LocalMemory) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

// Stats reports the number of sessions and the total number of stored entries.
func (m *LocalMemory) Stats() (sessions int, entries int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, log := range m.sessions {
		log.mu.Lock()
		entries += len(log.entries)
		log.mu.Unlock()
	}
	return len(m.sessions), entries
}
