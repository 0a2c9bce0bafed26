package domain

// GeneratorKind tells the simulation generator which stand-in to produce. It is chosen by
// the calling component rather than inferred from prompt text.
type GeneratorKind string

const (
	GeneratorNPC            GeneratorKind = "npc"
	GeneratorBeliefAnalysis GeneratorKind = "belief_analysis"
	GeneratorAttribution    GeneratorKind = "attribution"
	GeneratorGeneric        GeneratorKind = "generic"
)

// CompletionRequest is a (system-instructions, user-content) pair plus advisory options.
type CompletionRequest struct {
	Kind        GeneratorKind
	System      string
	User        string
	Model       string
	MaxTokens   int
	Temperature float32

	// Subject is the literal text the simulator keys off: the player's message for NPC
	// turns, the confusion text for attributions.
	Subject string
}

// Completion is the text produced for a request. Text is never empty.
type Completion struct {
	Text    string
	Outcome Outcome
}

// ProviderRequest is what a live completion provider receives.
type ProviderRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}
