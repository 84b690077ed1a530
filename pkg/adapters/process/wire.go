package process

import "encoding/json"

// Operations understood by the engine host.
const (
	opInitialize   = "initialize"
	opInitialState = "initial_state"
	opParse        = "parse"
	opApply        = "apply"
	opRenderGoals  = "render_goals"
	opRenderState  = "render_state"
)

// request is one line written to the host.
// Context, State, Command and Goals carry tokens minted by the host.
type request struct {
	ID      uint64            `json:"id"`
	Op      string            `json:"op"`
	Task    string            `json:"task,omitempty"`
	Context json.RawMessage   `json:"context,omitempty"`
	Text    string            `json:"text,omitempty"`
	State   json.RawMessage   `json:"state,omitempty"`
	Command json.RawMessage   `json:"command,omitempty"`
	Goals   []json.RawMessage `json:"goals,omitempty"`
}

// reply is one line read back from the host.
type reply struct {
	ID          uint64            `json:"id"`
	Context     json.RawMessage   `json:"context,omitempty"`
	State       json.RawMessage   `json:"state,omitempty"`
	Goals       []json.RawMessage `json:"goals,omitempty"`
	Rendered    []string          `json:"rendered,omitempty"`
	Command     json.RawMessage   `json:"command,omitempty"`
	Status      string            `json:"status,omitempty"`
	SyntaxError *string           `json:"syntaxError,omitempty"`
	Errors      []string          `json:"errors,omitempty"`
	LoadError   *string           `json:"loadError,omitempty"`
	Fault       string            `json:"fault,omitempty"`
}
