package domain

// ParseResult is the outcome of asking the engine to parse command text.
// Exactly one of Command or Syntax is meaningful.
type ParseResult struct {
	Command Command
	Syntax  *SyntaxError
}

// Accepted wraps a successfully parsed command.
func Accepted(cmd Command) ParseResult {
	return ParseResult{Command: cmd}
}

// Unparsable wraps an engine syntax error.
func Unparsable(msg string) ParseResult {
	return ParseResult{Syntax: &SyntaxError{Message: msg}}
}

// OK reports whether the command text was accepted.
func (r ParseResult) OK() bool {
	return r.Syntax == nil
}

// ApplyStatus tags the variant of an ApplyResult.
type ApplyStatus string

const (
	ApplySucceeded ApplyStatus = "succeeded" // Command applied; Goals and State are set
	ApplyRejected  ApplyStatus = "rejected"  // Command inapplicable; Errors are set
)

// ApplyResult is the outcome of applying a parsed command to a state.
type ApplyResult struct {
	Status ApplyStatus

	// Goals remaining after a successful application, in engine order.
	Goals []Goal

	// State is the new snapshot after a successful application.
	State StateHandle

	// Errors holds the engine diagnostics when Status is ApplyRejected.
	Errors []string
}

// Succeeded builds a successful ApplyResult.
func Succeeded(goals []Goal, state StateHandle) ApplyResult {
	return ApplyResult{Status: ApplySucceeded, Goals: goals, State: state}
}

// Rejected builds a semantic failure.
func Rejected(msgs ...string) ApplyResult {
	return ApplyResult{Status: ApplyRejected, Errors: msgs}
}

// OK reports whether the command applied.
func (r ApplyResult) OK() bool {
	return r.Status == ApplySucceeded
}
