package model

// State is a step of a single notification's trip through the pipeline.
type State string

// Pipeline states. Terminal states end processing of an event.
const (
	StateReceived       State = "received"
	StateFilteredOut    State = "filtered_out"
	StateEligible       State = "eligible"
	StateNoCandidate    State = "no_candidate"
	StateExtracted      State = "extracted"
	StateDedupedOut     State = "deduped_out"
	StatePassed         State = "passed"
	StateMissingAccount State = "missing_account"
	StateEnriched       State = "enriched"
	StateSubmitted      State = "submitted"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
)

// TerminalStates lists every state after which no processing occurs.
var TerminalStates = []State{
	StateFilteredOut,
	StateNoCandidate,
	StateDedupedOut,
	StateMissingAccount,
	StateSucceeded,
	StateFailed,
}

// IsTerminal reports whether the state ends the pipeline.
func (s State) IsTerminal() bool {
	for _, t := range TerminalStates {
		if s == t {
			return true
		}
	}
	return false
}
