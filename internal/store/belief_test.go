package store

import (
	"context"
	"testing"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeliefMemStore_ReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	s := NewBeliefMemStore()

	_, err := s.Get(ctx, "bartender")
	assert.ErrorIs(t, err, ErrNotFound)

	first := domain.EmptyBeliefDocument()
	first.Values["greed"] = 0.4
	first.Worldview["sea"] = domain.BeliefItem{Description: "The sea gives and takes", Weight: 0.6}
	require.NoError(t, s.Put(ctx, "bartender", first))

	second := domain.EmptyBeliefDocument()
	second.Values["kindness"] = 2
	require.NoError(t, s.Put(ctx, "bartender", second))

	got, err := s.Get(ctx, "bartender")
	require.NoError(t, err)
	assert.Empty(t, got.Worldview)
	assert.NotContains(t, got.Values, "greed")
	assert.Equal(t, 1.0, got.Values["kindness"])
	assert.NoError(t, got.Validate())
}

func TestBeliefMemStore_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewBeliefMemStore()

	doc := domain.EmptyBeliefDocument()
	doc.Values["order"] = 0.7
	require.NoError(t, s.Put(ctx, "guard", doc))
	doc.Values["order"] = 0.1

	got, err := s.Get(ctx, "guard")
	require.NoError(t, err)
	got.Values["chaos"] = 1

	again, err := s.Get(ctx, "guard")
	require.NoError(t, err)
	assert.Equal(t, 0.7, again.Values["order"])
	assert.NotContains(t, again.Values, "chaos")
}

func TestCharacterStore(t *testing.T) {
	ctx := context.Background()
	s := NewCharacterStore()

	c, err := s.Get(ctx, "bartender")
	require.NoError(t, err)
	assert.Equal(t, "Marcus", c.Name)
	assert.Equal(t, RoleTavernKeeper, c.Role)

	_, err = s.Get(ctx, "dragon")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "bartender", all[0].ID)
	assert.Equal(t, "thief", all[3].ID)

	custom := NewCharacterStore(domain.Character{ID: "oracle", Name: "Pythia", Role: "Seer"})
	all, err = custom.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBehaviorLogMemStore(t *testing.T) {
	ctx := context.Background()
	s := NewBehaviorLogMemStore()

	for i := 0; i < defaultMaxBehaviorLogs+10; i++ {
		require.NoError(t, s.Append(ctx, domain.BehaviorLog{CharacterID: "thief", ActionType: "conversation", Input: "hi"}))
	}
	require.NoError(t, s.Append(ctx, domain.BehaviorLog{CharacterID: "healer", ActionType: "heal", Output: "done"}))

	all, err := s.ListByCharacter(ctx, "thief", 0)
	require.NoError(t, err)
	assert.Len(t, all, defaultMaxBehaviorLogs)

	recent, err := s.ListByCharacter(ctx, "thief", 5)
	require.NoError(t, err)
	assert.Len(t, recent, 5)

	none, err := s.ListByCharacter(ctx, "guard", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}
