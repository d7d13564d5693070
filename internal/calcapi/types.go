package calcapi

import (
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/display"
)

// CalcRequest is the JSON body for binary operations (add, subtract, multiply, divide).
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse is the JSON response for the binary operation endpoints.
type CalcResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
}

// ChainStep describes a single step in a chained calculation.
type ChainStep struct {
	Op    string  `json:"op"`    // "add", "subtract", "multiply", "divide" or + - * /
	Value float64 `json:"value"` // the operand applied with the running total
}

// ChainRequest is the JSON body for POST /calculator/chain.
type ChainRequest struct {
	Initial float64     `json:"initial"`
	Steps   []ChainStep `json:"steps"`
}

// ChainResponse is the JSON response for POST /calculator/chain.
type ChainResponse struct {
	Initial float64       `json:"initial"`
	Steps   []ChainResult `json:"steps"`
	Result  float64       `json:"result"`
}

// ChainResult records one executed step.
type ChainResult struct {
	Op     string  `json:"op"`
	Value  float64 `json:"value"`
	Result float64 `json:"result"`
}

// IntentRequest is the JSON body for POST /calculator/sessions/{id}/intents.
// Button intents are applied before keys. Unknown actions and keys are skipped.
type IntentRequest struct {
	Intents []calculator.Intent `json:"intents,omitempty"`
	Keys    []string            `json:"keys,omitempty"`
}

// StreamMessage is one client message on the session WebSocket. Either
// Key or Action is set.
type StreamMessage struct {
	Action string `json:"action,omitempty"`
	Value  string `json:"value,omitempty"`
	Key    string `json:"key,omitempty"`
}

// State is the raw engine state, unformatted.
type State struct {
	Current   string `json:"current"`
	Previous  string `json:"previous,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Overwrite bool   `json:"overwrite"`
	Error     string `json:"error,omitempty"`
}

// SessionResponse is returned by every session endpoint that reports state.
type SessionResponse struct {
	ID    string       `json:"id"`
	State State        `json:"state"`
	View  display.View `json:"view"`
}

// HistoryEntry is one completed computation.
type HistoryEntry struct {
	Left     string `json:"left"`
	Operator string `json:"operator"`
	Right    string `json:"right"`
	Result   string `json:"result"`
	Text     string `json:"text"`
}

// HistoryResponse is the JSON response for GET /calculator/sessions/{id}/history.
type HistoryResponse struct {
	ID      string         `json:"id"`
	Entries []HistoryEntry `json:"entries"`
}

func stateFromSnapshot(s calculator.Snapshot) State {
	st := State{
		Current:   s.Current,
		Overwrite: s.Overwrite,
	}
	if s.HasPending() {
		st.Previous = s.Previous
		st.Operator = s.Operator.Symbol()
	}
	if s.Err != nil {
		st.Error = s.Err.Error()
	}
	return st
}
