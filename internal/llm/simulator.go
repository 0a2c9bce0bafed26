package llm

import (
	"encoding/json"
	"fmt"

	"github.com/Harshitk-cp/helios/internal/domain"
)

// Simulator produces deterministic stand-in completions when no live provider can answer.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

const genericSimulation = "This is a simulated response for local development. A deployed service calls the live completion provider instead."

var npcTemplates = []domain.StructuredReply{
	{
		Message: "This is a busy port; new faces turn up every day. You look like a traveler who just got off the boat?",
		Emotion: "curious",
		Action:  "sizes up the newcomer",
	},
	{
		Message: "News travels fast in a tavern. Anything you want to know?",
		Emotion: "friendly",
		Action:  "wipes down a glass",
	},
	{
		Message: "This city has its own rules. Newcomers had better tread carefully.",
		Emotion: "warning",
		Action:  "lowers their voice",
	},
	{
		Message: "I've watched a lot of people come and go. Everyone has a story.",
		Emotion: "thoughtful",
		Action:  "gazes into the distance",
	},
	{
		Message: "Nights at the harbor are full of surprises. Best find somewhere safe to sleep.",
		Emotion: "concerned",
		Action:  "points to the rooms upstairs",
	},
}

// ExampleBeliefYAML is the fixed belief document returned by the belief-analysis simulation.
const ExampleBeliefYAML = `worldview:
  port_life_understanding:
    description: "Understands harbor life deeply; sees the port as the place where every kind of life story crosses"
    weight: 0.8
  social_dynamics_awareness:
    description: "Reads social undercurrents and judges intent from small details"
    weight: 0.7
  change_acceptance:
    description: "Accepts that the world keeps changing and adapts to new places and faces"
    weight: 0.6

selfview:
  experienced_observer:
    description: "Sees themself as a seasoned observer who can tell what people really want"
    weight: 0.9
  helpful_guide:
    description: "Willing to guide and help newcomers"
    weight: 0.7
  cautious_survivor:
    description: "Stays careful in a complicated world to keep themself safe"
    weight: 0.8

values:
  survival: 0.9
  helpfulness: 0.7
  wisdom: 0.8
  social_connection: 0.6
`

// Generate dispatches on the request kind. It never returns an empty string.
func (s *Simulator) Generate(req domain.CompletionRequest) string {
	switch req.Kind {
	case domain.GeneratorNPC:
		return s.npc(req.Subject)
	case domain.GeneratorBeliefAnalysis:
		return ExampleBeliefYAML
	case domain.GeneratorAttribution:
		return s.attribution(req.Subject)
	default:
		return genericSimulation
	}
}

// NPCTemplate returns the canned reply selected for a player message.
func NPCTemplate(message string) domain.StructuredReply {
	return npcTemplates[TemplateIndex(message, len(npcTemplates))]
}

func (s *Simulator) npc(message string) string {
	out, _ := json.Marshal(NPCTemplate(message))
	return string(out)
}

func (s *Simulator) attribution(confusion string) string {
	out, _ := json.Marshal(domain.AttributionResult{
		SubjectiveAttribution: fmt.Sprintf("Faced with %q, my reaction comes from how I understand this complicated world. My caution comes from what I have lived through, and my curiosity pushes me to learn more. That tension is my belief system showing itself.", confusion),
		MemoryEvidence: []string{
			"I remember the mix of unease and excitement when I first arrived at the harbor",
			"I was once burned for trusting someone too quickly",
		},
		BeliefInsight: "My behavior shows a kind of cautious openness: I long for connection but stay on guard. That is how I survive uncertainty.",
	})
	return string(out)
}

// FNV-1a 32-bit parameters.
const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// TemplateIndex maps text to an index in [0, n) with 32-bit FNV-1a over the UTF-8 bytes.
// Identical text always selects the same index on every platform.
func TemplateIndex(text string, n int) int {
	if n <= 0 {
		return 0
	}
	h := fnvOffset32
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= fnvPrime32
	}
	return int(h % uint32(n))
}
