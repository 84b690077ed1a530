package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventDispatch     EventType = "dispatch"
)

// Outcome classifies how a dispatched command ended.
type Outcome string

const (
	OutcomeBranched      Outcome = "branched"
	OutcomeSolved        Outcome = "solved"
	OutcomeParseError    Outcome = "parse_error"
	OutcomeUnknownBranch Outcome = "unknown_branch"
	OutcomeSyntaxError   Outcome = "syntax_error"
	OutcomeSemanticError Outcome = "semantic_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// SessionEvent is emitted once branch 0 exists.
type SessionEvent struct {
	EventBase
	Task  string `json:"task"`
	Goals int    `json:"goals"`
}

// DispatchEvent describes one processed command.
// Source is nil when the line never resolved to a branch id.
type DispatchEvent struct {
	EventBase
	Source    *BranchID     `json:"source,omitempty"`
	Command   string        `json:"command"`
	Outcome   Outcome       `json:"outcome"`
	NewBranch *BranchID     `json:"new_branch,omitempty"`
	Goals     int           `json:"goals"`
	Errors    []string      `json:"errors,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnSessionStart func(context.Context, *SessionEvent)
	OnDispatch     func(context.Context, *DispatchEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSessionStart: chain(h.OnSessionStart, other.OnSessionStart),
		OnDispatch:     chain(h.OnDispatch, other.OnDispatch),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
