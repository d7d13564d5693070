package calculator

import (
	"errors"
	"math"
	"strings"
)

// Engine is the calculator input state machine. It is not safe for
// concurrent use; callers serialise intents.
type Engine struct {
	current   string
	previous  string
	operator  Operator
	overwrite bool
	history   *History
	err       error

	computed uint64
	failures uint64
	last     Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory enables a history of the last capacity computations.
func WithHistory(capacity int) Option {
	return func(e *Engine) {
		e.history = NewHistory(capacity)
	}
}

// NewEngine returns an engine in its initial state: current "0", nothing
// pending, entry mode.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{current: "0"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Current returns the operand being entered or the last result.
func (e *Engine) Current() string { return e.current }

// Pending returns the pending operand and operator. ok is false when no
// operator has been chosen.
func (e *Engine) Pending() (operand string, op Operator, ok bool) {
	if e.operator == NoOperator {
		return "", NoOperator, false
	}
	return e.previous, e.operator, true
}

// Overwrite reports whether the next digit replaces the current operand.
func (e *Engine) Overwrite() bool { return e.overwrite }

// Err returns the error of the last Compute, if it failed and nothing has
// been entered since.
func (e *Engine) Err() error { return e.err }

// Failed reports whether the current operand holds a non-finite value.
func (e *Engine) Failed() bool { return !IsFinite(e.current) }

// Computations returns how many computations have succeeded so far.
func (e *Engine) Computations() uint64 { return e.computed }

// Failures returns how many computations have failed so far.
func (e *Engine) Failures() uint64 { return e.failures }

// LastEntry returns the most recent successful computation, whether or not
// history is enabled.
func (e *Engine) LastEntry() (Entry, bool) {
	return e.last, e.computed > 0
}

// History returns the engine's history, or nil when history is disabled.
func (e *Engine) History() *History { return e.history }

// InputDigit appends d to the current operand, or starts a new operand
// when the overwrite flag is set or the operand is "0".
func (e *Engine) InputDigit(d string) {
	e.err = nil
	if e.overwrite {
		e.current = d
		e.overwrite = false
		return
	}
	if e.current == "0" {
		e.current = d
		return
	}
	e.current += d
}

// InputDecimal adds a decimal point unless one is already present.
func (e *Engine) InputDecimal() {
	e.err = nil
	if e.overwrite {
		e.current = "0."
		e.overwrite = false
		return
	}
	if !strings.Contains(e.current, ".") {
		e.current += "."
	}
}

// SetOperator captures the current operand as the left-hand side of op.
// A pending operation with a freshly entered right operand is computed
// first, so 7 + 3 + behaves like 10 +.
func (e *Engine) SetOperator(op Operator) {
	e.err = nil
	if e.operator != NoOperator && !e.overwrite {
		e.Compute()
	}
	e.previous = e.operand()
	e.operator = op
	e.overwrite = true
}

// operand returns the current operand as a value to compute with. The
// error sentinel counts as "0".
func (e *Engine) operand() string {
	if math.IsNaN(ParseOperand(e.current)) {
		return "0"
	}
	return e.current
}

// Compute applies the pending operator. It reports the history entry for
// a successful computation; a failed one leaves the "NaN" sentinel in the
// current operand and records no entry. Either way the pending operation
// is cleared and the engine switches to replace mode.
func (e *Engine) Compute() (Entry, bool) {
	if e.operator == NoOperator {
		return Entry{}, false
	}

	left, right, op := e.previous, e.current, e.operator
	result, err := op.Evaluate(ParseOperand(left), ParseOperand(right))
	if err == nil && (math.IsNaN(result) || math.IsInf(result, 0)) {
		err = ErrNonFiniteResult
	}

	e.previous = ""
	e.operator = NoOperator
	e.overwrite = true

	if err != nil {
		if !errors.Is(err, ErrDivisionByZero) {
			err = ErrNonFiniteResult
		}
		e.current = errorText
		e.err = err
		e.failures++
		return Entry{}, false
	}

	e.err = nil
	e.current = FormatOperand(result)
	entry := Entry{Left: left, Operator: op, Right: right, Result: e.current}
	e.computed++
	e.last = entry
	if e.history != nil {
		e.history.Push(entry)
	}
	return entry, true
}

// ClearAll returns the engine to its initial state. History is kept.
func (e *Engine) ClearAll() {
	e.current = "0"
	e.previous = ""
	e.operator = NoOperator
	e.overwrite = false
	e.err = nil
}

// ClearHistory drops every history entry.
func (e *Engine) ClearHistory() {
	if e.history != nil {
		e.history.Clear()
	}
}

// DeleteLast removes the last character of the operand being entered.
// Results are not editable.
func (e *Engine) DeleteLast() {
	if e.overwrite {
		return
	}
	e.err = nil
	if len(e.current) <= 1 {
		e.current = "0"
		return
	}
	e.current = e.current[:len(e.current)-1]
	if e.current == "-" {
		e.current = "0"
	}
}

// ToggleSign negates the current operand. "0" stays "0", and so does
// the error sentinel.
func (e *Engine) ToggleSign() {
	e.err = nil
	cur := e.operand()
	if cur == "0" {
		e.current = cur
		return
	}
	e.current = FormatOperand(-ParseOperand(cur))
}

// ToPercent divides the current operand by 100. The error sentinel
// becomes "0".
func (e *Engine) ToPercent() {
	e.err = nil
	e.current = FormatOperand(ParseOperand(e.operand()) / 100)
}

// Snapshot is a read-only copy of the engine state for presenters.
type Snapshot struct {
	Current   string
	Previous  string
	Operator  Operator
	Overwrite bool
	Err       error
	History   []Entry
}

// HasPending reports whether an operator is waiting for its right operand.
func (s Snapshot) HasPending() bool {
	return s.Operator != NoOperator
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Current:   e.current,
		Previous:  e.previous,
		Operator:  e.operator,
		Overwrite: e.overwrite,
		Err:       e.err,
	}
	if e.history != nil {
		s.History = e.history.Entries()
	}
	return s
}
