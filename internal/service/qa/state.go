package qa

// State is a step of the ask state machine.
type State int

const (
	StateStart State = iota
	StateClassifying
	StateGeneratingDirect
	StateRetrieving
	StateFallbackReady
	StateGeneratingGrounded
	StateFinalizing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateStart:              "start",
	StateClassifying:        "classifying",
	StateGeneratingDirect:   "generating_direct",
	StateRetrieving:         "retrieving",
	StateFallbackReady:      "fallback_ready",
	StateGeneratingGrounded: "generating_grounded",
	StateFinalizing:         "finalizing",
	StateDone:               "done",
	StateFailed:             "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
