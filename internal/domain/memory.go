package domain

import "time"

// Role identifies which side of a dialogue turn produced an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleUser, RoleAssistant:
		return true
	}
	return false
}

const (
	// MaxSessionEntries bounds every session log; the oldest entries are evicted first.
	MaxSessionEntries = 100

	// PlayerSpeaker is the speaker recorded for player-authored turns.
	PlayerSpeaker = "Player"

	DefaultEmotion = "neutral"
)

// MemoryEntry is a single dialogue turn. Entries are never mutated after being recorded.
type MemoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Speaker   string    `json:"character"`
	Message   string    `json:"message"`
	Role      Role      `json:"role"`
	Emotion   string    `json:"emotion"`
	Action    string    `json:"action,omitempty"`
}

// NewMemoryEntry builds an entry stamped with the current time and the default emotion.
func NewMemoryEntry(speaker, message string, role Role) MemoryEntry {
	return MemoryEntry{
		Timestamp: time.Now().UTC(),
		Speaker:   speaker,
		Message:   message,
		Role:      role,
		Emotion:   DefaultEmotion,
	}
}

// PlayerAuthored reports whether the entry was written by the player.
func (e MemoryEntry) PlayerAuthored() bool {
	return e.Role == RoleUser || e.Speaker == PlayerSpeaker
}
