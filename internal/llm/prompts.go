package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/helios/internal/domain"
)

const npcSystemPrompt = `You are %s, a %s at the harbor tavern. Play this NPC character.

Character:
- Name: %s
- Role: %s
- Core motivation: %s

Your belief system (the inner drive behind everything you do):
%s

Scene:
%s

Principles:
1. Your reply should express your inner beliefs, not surface-level role play.
2. Every exchange is a reflection of your belief system.
3. Stay consistent with the character while allowing beliefs to shift subtly.
4. Be natural and have depth; avoid stock NPC lines.

Respond ONLY with a JSON object containing:
- message: what you say
- emotion: your current emotional state
- action: an accompanying action or expression (optional)`

const beliefsEmerging = "Your beliefs are still emerging through your behavior. Act naturally according to your character."

const npcUserPrompt = `Conversation history:
%s
The player just said: "%s"

Reply as %s, guided by your belief system and the current situation:`

const beliefAnalysisPrompt = `You are a behavioral psychologist who analyzes the inner belief system of characters.

Your task is to read a character's behavior log, infer the beliefs that drive it, and produce the belief system as YAML.

Belief system structure:
1. worldview: beliefs about how the world works
2. selfview: beliefs about the character's own abilities, identity and worth
3. values: important values and their weight (0.0-1.0)

Every worldview and selfview entry contains:
- description: the belief stated concretely
- weight: how strongly it drives behavior (0.0-1.0)

Principles:
- Beliefs must emerge from the behavior, never be presupposed
- Focus on the inner drives and motives behind the behavior
- Beliefs may conflict with each other; that is part of being human
- The weight reflects how strongly the belief shapes behavior

Respond ONLY with the YAML document with the top-level keys worldview, selfview and values.`

const beliefAnalysisUserPrompt = `Analyze the following behavior log and produce the character's belief system:

%s

Belief system YAML:`

const echoSystemPrompt = `You are the guide of the Echo Chamber, helping the player see the beliefs behind their own behavior.

The player's belief system:
%s

Your task is to give a subjective, first-person causal explanation of the player's confusion, grounded in their belief system.
This is not objective analysis; it is self-explanation from inside the player's beliefs.

Requirements:
1. Speak in the first person ("I"), so the player hears their own inner voice
2. Ground the explanation in the player's belief system, not in generic psychology
3. Cite 1-2 concrete pieces of memory evidence
4. Help the player see how their beliefs shape their behavior

Respond ONLY with a JSON object containing:
- subjective_attribution: the first-person causal explanation
- memory_evidence: an array of 1-2 supporting memories
- belief_insight: one deeper insight about the belief system`

const echoUserPrompt = `The player's confusion: "%s"

Relevant memories:
%s

Subjective attribution:`

const noBeliefsYet = "(no beliefs have been recorded yet)"

// NPCPrompt holds everything the NPC prompts are built from.
type NPCPrompt struct {
	Character domain.Character
	Beliefs   *domain.BeliefDocument
	Scene     domain.SceneContext
	History   []domain.MemoryEntry
	Message   string
}

// MaxPromptHistory is the number of history entries included in an NPC user prompt.
const MaxPromptHistory = 5

// BuildNPCPrompts returns the system and user prompts for a character turn.
func BuildNPCPrompts(p NPCPrompt) (system, user string) {
	beliefs := beliefsEmerging
	if p.Beliefs != nil && !p.Beliefs.IsEmpty() {
		beliefs = p.Beliefs.YAML()
	}

	scene, err := json.MarshalIndent(p.Scene, "", "  ")
	if err != nil {
		scene = []byte(p.Scene.Description)
	}

	c := p.Character
	system = fmt.Sprintf(npcSystemPrompt, c.Name, c.Role, c.Name, c.Role, c.CoreMotivation, beliefs, scene)

	history := p.History
	if len(history) > MaxPromptHistory {
		history = history[len(history)-MaxPromptHistory:]
	}
	var sb strings.Builder
	for _, e := range history {
		if e.Message == "" {
			continue
		}
		sb.WriteString(e.Speaker)
		sb.WriteString(": ")
		sb.WriteString(e.Message)
		sb.WriteString("\n")
	}

	user = fmt.Sprintf(npcUserPrompt, sb.String(), p.Message, c.Name)
	return system, user
}

// BuildBeliefAnalysisPrompts returns the prompts for deriving a belief document from logs.
func BuildBeliefAnalysisPrompts(logs []domain.BehaviorLog) (system, user string, err error) {
	payload, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal behavior log: %w", err)
	}
	return beliefAnalysisPrompt, fmt.Sprintf(beliefAnalysisUserPrompt, payload), nil
}

// BuildEchoPrompts returns the prompts for a first-person attribution.
func BuildEchoPrompts(beliefs *domain.BeliefDocument, confusion string, memories []domain.MemoryEntry) (system, user string) {
	doc := noBeliefsYet
	if beliefs != nil && !beliefs.IsEmpty() {
		doc = beliefs.YAML()
	}

	if memories == nil {
		memories = []domain.MemoryEntry{}
	}
	payload, err := json.MarshalIndent(memories, "", "  ")
	if err != nil {
		payload = []byte("[]")
	}

	return fmt.Sprintf(echoSystemPrompt, doc), fmt.Sprintf(echoUserPrompt, confusion, payload)
}
