package calculator

import (
	"fmt"
	"strings"
)

// IntentKind names a user action understood by the engine.
type IntentKind string

const (
	IntentDigit      IntentKind = "number"
	IntentDecimal    IntentKind = "decimal"
	IntentOperator   IntentKind = "operator"
	IntentEquals     IntentKind = "equals"
	IntentClear      IntentKind = "clear"
	IntentDelete     IntentKind = "delete"
	IntentToggleSign IntentKind = "toggle-sign"
	IntentPercent    IntentKind = "percent"
)

// Intent is one user action. Value carries the digit for IntentDigit and
// the operator symbol for IntentOperator.
type Intent struct {
	Kind  IntentKind `json:"action"`
	Value string     `json:"value,omitempty"`
}

// ActionIntent maps a button's action/value pair to an intent. ok is false
// for actions the calculator does not know, which callers should ignore.
func ActionIntent(action, value string) (Intent, bool) {
	in := Intent{Kind: IntentKind(action), Value: value}
	switch in.Kind {
	case IntentDigit:
		if !isDigit(value) {
			return Intent{}, false
		}
	case IntentOperator:
		if _, err := ParseOperator(value); err != nil {
			return Intent{}, false
		}
	case IntentDecimal, IntentEquals, IntentClear, IntentDelete, IntentToggleSign, IntentPercent:
		in.Value = ""
	default:
		return Intent{}, false
	}
	return in, true
}

// KeyIntent maps a keyboard key name to an intent. Unmapped keys report
// ok == false.
func KeyIntent(key string) (Intent, bool) {
	switch {
	case isDigit(key):
		return Intent{Kind: IntentDigit, Value: key}, true
	case key == "." || key == ",":
		return Intent{Kind: IntentDecimal}, true
	case key == "+" || key == "-" || key == "*" || key == "/":
		return Intent{Kind: IntentOperator, Value: key}, true
	case key == "Enter" || key == "=":
		return Intent{Kind: IntentEquals}, true
	case key == "Backspace":
		return Intent{Kind: IntentDelete}, true
	case strings.ToLower(key) == "c":
		return Intent{Kind: IntentClear}, true
	}
	return Intent{}, false
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

// Apply dispatches in to the matching engine operation.
func (e *Engine) Apply(in Intent) error {
	switch in.Kind {
	case IntentDigit:
		if !isDigit(in.Value) {
			return fmt.Errorf("%w: digit %q", ErrUnknownIntent, in.Value)
		}
		e.InputDigit(in.Value)
	case IntentDecimal:
		e.InputDecimal()
	case IntentOperator:
		op, err := ParseOperator(in.Value)
		if err != nil {
			return err
		}
		e.SetOperator(op)
	case IntentEquals:
		e.Compute()
	case IntentClear:
		e.ClearAll()
	case IntentDelete:
		e.DeleteLast()
	case IntentToggleSign:
		e.ToggleSign()
	case IntentPercent:
		e.ToPercent()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, in.Kind)
	}
	return nil
}
