package domain

import "time"

// Character is static reference data; the core never mutates it.
type Character struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	CoreMotivation string `json:"core_motivation"`
	IsPlayer       bool   `json:"is_player,omitempty"`
}

// SceneContext describes the environment of a conversation. It is passed through to
// prompts as-is and never validated.
type SceneContext struct {
	SceneID              string         `json:"scene_id"`
	SceneName            string         `json:"scene_name"`
	Description          string         `json:"description"`
	CharactersPresent    []string       `json:"characters_present,omitempty"`
	EnvironmentalFactors map[string]any `json:"environmental_factors,omitempty"`
	TimeOfDay            string         `json:"time_of_day,omitempty"`
	Atmosphere           string         `json:"atmosphere,omitempty"`
}

// BehaviorLog is one observed action of a character, the raw material for belief analysis.
type BehaviorLog struct {
	Timestamp   time.Time `json:"timestamp"`
	CharacterID string    `json:"character_id"`
	SceneID     string    `json:"scene_id,omitempty"`
	ActionType  string    `json:"action_type"`
	Input       string    `json:"input"`
	Output      string    `json:"output"`
}
