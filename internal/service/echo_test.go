package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttribute_EmptyMemory(t *testing.T) {
	f := newFixture(true)

	got := f.echo.Attribute(context.Background(), AttributeInput{Confusion: "Why did I walk away?"})

	assert.Contains(t, got.SubjectiveAttribution, "Why did I walk away?")
	assert.NotEmpty(t, got.MemoryEvidence)
	assert.NotEmpty(t, got.BeliefInsight)
	assert.Equal(t, domain.Degraded(domain.ReasonSimulationMode), got.Outcome)
}

func TestAttribute_LiveResult(t *testing.T) {
	f := newFixture(false)
	f.provider.Response = `{"subjective_attribution":"I fear being cheated.","memory_evidence":["I paid twice for the room"],"belief_insight":"Trust is earned."}`

	got := f.echo.Attribute(context.Background(), AttributeInput{Confusion: "Why am I so suspicious?"})

	assert.True(t, got.Outcome.IsOK())
	assert.Equal(t, "I fear being cheated.", got.SubjectiveAttribution)
	assert.Equal(t, []string{"I paid twice for the room"}, got.MemoryEvidence)
	assert.Equal(t, "Trust is earned.", got.BeliefInsight)

	call, ok := f.provider.LastCall()
	require.True(t, ok)
	assert.InDelta(t, 0.6, call.Temperature, 0.0001)
	assert.Contains(t, call.User, "Why am I so suspicious?")
}

func TestAttribute_PlainText(t *testing.T) {
	f := newFixture(false)
	f.provider.Response = "You are afraid of the sea."

	got := f.echo.Attribute(context.Background(), AttributeInput{Confusion: "Why won't I board?"})

	assert.Equal(t, "You are afraid of the sea.", got.SubjectiveAttribution)
	assert.Equal(t, []string{placeholderEvidence}, got.MemoryEvidence)
	assert.Equal(t, placeholderInsight, got.BeliefInsight)
	assert.Equal(t, domain.Degraded(domain.ReasonMalformedOutput), got.Outcome)
}

func TestAttribute_ProviderFailure(t *testing.T) {
	f := newFixture(false)
	f.provider.Error = errors.New("bad gateway")

	got := f.echo.Attribute(context.Background(), AttributeInput{Confusion: "Why?"})

	assert.NotEmpty(t, got.SubjectiveAttribution)
	assert.NotEmpty(t, got.MemoryEvidence)
	assert.Equal(t, domain.Degraded(domain.ReasonProviderFailure), got.Outcome)
}

func TestPlayerEvidence(t *testing.T) {
	var memory []domain.MemoryEntry
	for i := 0; i < 7; i++ {
		memory = append(memory,
			domain.NewMemoryEntry(domain.PlayerSpeaker, fmt.Sprintf("p%d", i), domain.RoleUser),
			domain.NewMemoryEntry("Marcus", fmt.Sprintf("m%d", i), domain.RoleAssistant),
		)
	}

	got := PlayerEvidence(memory, 5)
	require.Len(t, got, 5)
	for i, e := range got {
		assert.Equal(t, fmt.Sprintf("p%d", i+2), e.Message)
	}

	assert.Empty(t, PlayerEvidence(nil, 5))
}

func TestEcho_UsesSessionMemory(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	_, err := f.dialogue.Converse(ctx, ConverseInput{CharacterID: "bartender", SessionID: "s1", Message: "Where is the captain?"})
	require.NoError(t, err)

	f.provider.Response = `{"subjective_attribution":"I keep chasing the captain.","memory_evidence":["I asked about the captain"],"belief_insight":"I want direction."}`
	got, err := f.echo.Echo(ctx, "s1", "player", "Why do I keep asking?")
	require.NoError(t, err)
	assert.True(t, got.Outcome.IsOK())

	call, ok := f.provider.LastCall()
	require.True(t, ok)
	assert.Contains(t, call.User, "Where is the captain?")
	assert.NotContains(t, call.User, "Mock reply")
}

func TestEcho_SessionRequired(t *testing.T) {
	f := newFixture(true)

	_, err := f.echo.Echo(context.Background(), "", "player", "Why?")
	assert.ErrorIs(t, err, ErrSessionRequired)
}
