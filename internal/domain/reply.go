package domain

// StructuredReply is the normalized output of a character turn. Message and Emotion are
// never empty once normalized.
type StructuredReply struct {
	Message string `json:"message"`
	Emotion string `json:"emotion"`
	Action  string `json:"action,omitempty"`
}

// AttributionResult is a first-person causal explanation of a player's confusion.
type AttributionResult struct {
	SubjectiveAttribution string   `json:"subjective_attribution"`
	MemoryEvidence        []string `json:"memory_evidence"`
	BeliefInsight         string   `json:"belief_insight"`
}
