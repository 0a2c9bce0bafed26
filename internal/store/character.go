package store

import (
	"context"
	"sort"

	"github.com/Harshitk-cp/helios/internal/domain"
)

// CharacterStore serves the static character roster.
type CharacterStore struct {
	characters map[string]domain.Character
}

// NewCharacterStore builds a store over the given roster, or the default port tavern cast
// when none is given.
func NewCharacterStore(characters ...domain.Character) *CharacterStore {
	if len(characters) == 0 {
		characters = DefaultCharacters()
	}
	s := &CharacterStore{characters: make(map[string]domain.Character, len(characters))}
	for _, c := range characters {
		s.characters[c.ID] = c
	}
	return s
}

func (s *CharacterStore) Get(ctx context.Context, id string) (*domain.Character, error) {
	c, ok := s.characters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// List returns the roster ordered by id.
func (s *CharacterStore) List(ctx context.Context) ([]domain.Character, error) {
	out := make([]domain.Character, 0, len(s.characters))
	for _, c := range s.characters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Roles of the default cast.
const (
	RoleTavernKeeper = "Tavern Keeper"
	RoleCityGuard    = "City Guard"
	RoleThief        = "Wandering Thief"
	RoleHealer       = "Healer"
)

func DefaultCharacters() []domain.Character {
	return []domain.Character{
		{
			ID:             "bartender",
			Name:           "Marcus",
			Role:           RoleTavernKeeper,
			CoreMotivation: "Keep the tavern thriving and give guests a warm harbor from the storm",
		},
		{
			ID:             "guard",
			Name:           "Elena",
			Role:           RoleCityGuard,
			CoreMotivation: "Protect order and safety in the port and uphold justice",
		},
		{
			ID:             "thief",
			Name:           "Shadow",
			Role:           RoleThief,
			CoreMotivation: "Survive in the city's shadows and find the next opportunity",
		},
		{
			ID:             "healer",
			Name:           "Seraphina",
			Role:           RoleHealer,
			CoreMotivation: "Heal others with the power of light and spread hope",
		},
	}
}

// DefaultScene is the port tavern used when a request carries no scene.
func DefaultScene() domain.SceneContext {
	return domain.SceneContext{
		SceneID:           "port_tavern",
		SceneName:         "Harbor Tavern",
		Description:       "A warm tavern on a busy harbor. Under dim amber light all kinds of people gather; the air smells of ale and salt wind.",
		CharactersPresent: []string{"bartender", "guard", "thief", "healer"},
		EnvironmentalFactors: map[string]any{
			"lighting":    "dim and warm",
			"noise_level": "moderate chatter",
			"crowd":       "medium",
			"weather":     "sea wind outside",
		},
		TimeOfDay:  "night",
		Atmosphere: "cozy and mysterious",
	}
}
