package domain

// OutcomeStatus tells callers whether a result came from the live provider.
type OutcomeStatus string

const (
	OutcomeOK       OutcomeStatus = "ok"
	OutcomeDegraded OutcomeStatus = "degraded"
	OutcomeFailed   OutcomeStatus = "failed"
)

// Degradation reasons.
const (
	ReasonSimulationMode      = "simulation_mode"
	ReasonProviderUnavailable = "provider_unavailable"
	ReasonProviderFailure     = "provider_failure"
	ReasonMalformedOutput     = "malformed_output"
	ReasonStaticFallback      = "static_fallback"
)

// Outcome is attached to every best-effort result so that "used live provider" can be
// told apart from "used fallback" without reading logs.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

func Ok() Outcome {
	return Outcome{Status: OutcomeOK}
}

func Degraded(reason string) Outcome {
	return Outcome{Status: OutcomeDegraded, Reason: reason}
}

func Failed(reason string) Outcome {
	return Outcome{Status: OutcomeFailed, Reason: reason}
}

func (o Outcome) IsOK() bool {
	return o.Status == OutcomeOK
}

// Worse returns the more severe of two outcomes, keeping the first reason on ties.
func (o Outcome) Worse(other Outcome) Outcome {
	if severity(other.Status) > severity(o.Status) {
		return other
	}
	return o
}

func severity(s OutcomeStatus) int {
	switch s {
	case OutcomeFailed:
		return 2
	case OutcomeDegraded:
		return 1
	default:
		return 0
	}
}
