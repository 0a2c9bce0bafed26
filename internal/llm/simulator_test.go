package llm

import (
	"encoding/json"
	"hash/fnv"
	"testing"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateIndex_MatchesFNV1a(t *testing.T) {
	inputs := []string{"", "Hello", "hello", "What news from the docks?", "你好", "a much longer message about ships, storms and unpaid debts"}

	for _, in := range inputs {
		h := fnv.New32a()
		_, _ = h.Write([]byte(in))
		want := int(h.Sum32() % 5)
		assert.Equal(t, want, TemplateIndex(in, 5), "input %q", in)
	}
}

func TestTemplateIndex_Bounds(t *testing.T) {
	assert.Equal(t, 0, TemplateIndex("anything", 0))
	assert.Equal(t, 0, TemplateIndex("anything", 1))
	for _, in := range []string{"a", "b", "c", "d", "e", "f"} {
		idx := TemplateIndex(in, len(npcTemplates))
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(npcTemplates))
	}
}

func TestSimulator_NPCIsDeterministic(t *testing.T) {
	s := NewSimulator()
	req := domain.CompletionRequest{Kind: domain.GeneratorNPC, Subject: "Hello"}

	first := s.Generate(req)
	second := s.Generate(req)
	assert.Equal(t, first, second)

	var reply domain.StructuredReply
	require.NoError(t, json.Unmarshal([]byte(first), &reply))
	assert.Equal(t, NPCTemplate("Hello"), reply)
	assert.NotEmpty(t, reply.Message)
	assert.NotEmpty(t, reply.Emotion)
	assert.NotEmpty(t, reply.Action)
}

func TestSimulator_NPCCoversTemplates(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[NPCTemplate(string(rune('A'+i%26))+string(rune('a'+i/26))).Message] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestSimulator_BeliefAnalysisIsWellFormed(t *testing.T) {
	text := NewSimulator().Generate(domain.CompletionRequest{Kind: domain.GeneratorBeliefAnalysis})

	doc, err := domain.ParseBeliefDocument(text)
	require.NoError(t, err)
	assert.NoError(t, doc.Validate())
	assert.Len(t, doc.Worldview, 3)
	assert.Len(t, doc.Selfview, 3)
	assert.Len(t, doc.Values, 4)
	assert.Equal(t, 0.9, doc.Values["survival"])
}

func TestSimulator_AttributionQuotesConfusion(t *testing.T) {
	text := NewSimulator().Generate(domain.CompletionRequest{
		Kind:    domain.GeneratorAttribution,
		Subject: "Why did I lie to the guard?",
	})

	var result domain.AttributionResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Contains(t, result.SubjectiveAttribution, "Why did I lie to the guard?")
	assert.Len(t, result.MemoryEvidence, 2)
	assert.NotEmpty(t, result.BeliefInsight)
}

func TestSimulator_Generic(t *testing.T) {
	s := NewSimulator()
	assert.Equal(t, genericSimulation, s.Generate(domain.CompletionRequest{Kind: domain.GeneratorGeneric}))
	assert.Equal(t, genericSimulation, s.Generate(domain.CompletionRequest{}))
}
