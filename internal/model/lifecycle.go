package model

// Phase is the per-fetch lifecycle of a store: idle -> loading -> ready | errored.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseErrored Phase = "errored"
)

// Lifecycle is the observable state of the last fetch.
type Lifecycle struct {
	Phase Phase  `json:"phase"`
	Error string `json:"error,omitempty"`
}
