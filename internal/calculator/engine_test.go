package calculator

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func enter(e *Engine, keys string) {
	for _, k := range keys {
		in, ok := KeyIntent(string(k))
		if !ok {
			continue
		}
		_ = e.Apply(in)
	}
}

func TestEngineInitialState(t *testing.T) {
	e := NewEngine()

	if got := e.Current(); got != "0" {
		t.Fatalf("expected current %q, got %q", "0", got)
	}
	if _, _, ok := e.Pending(); ok {
		t.Fatal("expected no pending operation")
	}
	if e.Overwrite() {
		t.Fatal("expected entry mode")
	}
	if e.History() != nil {
		t.Fatal("expected history to be disabled by default")
	}
}

func TestEngineDigitEntry(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{keys: "7", want: "7"},
		{keys: "0", want: "0"},
		{keys: "007", want: "7"},
		{keys: "123", want: "123"},
		{keys: "1.5", want: "1.5"},
		{keys: "1.2.3", want: "1.23"},
		{keys: ".5", want: "0.5"},
		{keys: "..", want: "0."},
	}

	for _, tc := range tests {
		t.Run(tc.keys, func(t *testing.T) {
			e := NewEngine()
			enter(e, tc.keys)
			if got := e.Current(); got != tc.want {
				t.Fatalf("keys %q: expected %q, got %q", tc.keys, tc.want, got)
			}
		})
	}
}

func TestEngineInputDecimalIsIdempotent(t *testing.T) {
	e := NewEngine()
	e.InputDigit("4")
	e.InputDecimal()
	first := e.Current()
	e.InputDecimal()

	if got := e.Current(); got != first {
		t.Fatalf("expected %q after second decimal, got %q", first, got)
	}
}

func TestEngineInputDecimalInReplaceMode(t *testing.T) {
	e := NewEngine()
	e.InputDigit("9")
	e.SetOperator(Multiply)
	e.InputDecimal()

	if got := e.Current(); got != "0." {
		t.Fatalf("expected %q, got %q", "0.", got)
	}
	if e.Overwrite() {
		t.Fatal("expected entry mode after decimal")
	}
}

func TestEngineComputeWithoutPendingIsNoop(t *testing.T) {
	e := NewEngine(WithHistory(DefaultHistoryCapacity))
	e.InputDigit("4")
	before := e.Snapshot()

	if _, ok := e.Compute(); ok {
		t.Fatal("expected no entry")
	}

	after := e.Snapshot()
	if after.Current != before.Current || after.Overwrite != before.Overwrite || after.HasPending() {
		t.Fatalf("expected unchanged state, got %+v", after)
	}
	if len(after.History) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(after.History))
	}
}

func TestEngineEndToEnd(t *testing.T) {
	e := NewEngine(WithHistory(DefaultHistoryCapacity))

	e.InputDigit("7")
	if got := e.Current(); got != "7" {
		t.Fatalf("expected current %q, got %q", "7", got)
	}

	e.SetOperator(Add)
	prev, op, ok := e.Pending()
	if !ok || prev != "7" || op != Add {
		t.Fatalf("expected pending 7 +, got %q %v %t", prev, op, ok)
	}
	if !e.Overwrite() {
		t.Fatal("expected replace mode after operator")
	}

	e.InputDigit("3")
	if got := e.Current(); got != "3" {
		t.Fatalf("expected current %q, got %q", "3", got)
	}

	entry, ok := e.Compute()
	if !ok {
		t.Fatal("expected a history entry")
	}
	if got := e.Current(); got != "10" {
		t.Fatalf("expected current %q, got %q", "10", got)
	}
	if got := entry.String(); got != "7 + 3 = 10" {
		t.Fatalf("expected entry %q, got %q", "7 + 3 = 10", got)
	}
	if _, _, ok := e.Pending(); ok {
		t.Fatal("expected pending state cleared")
	}

	latest, ok := e.History().Latest()
	if !ok || latest != entry {
		t.Fatalf("expected latest history entry %+v, got %+v", entry, latest)
	}
}

func TestEngineOperatorChaining(t *testing.T) {
	e := NewEngine(WithHistory(DefaultHistoryCapacity))
	enter(e, "7+3+2=")

	if got := e.Current(); got != "12" {
		t.Fatalf("expected %q, got %q", "12", got)
	}

	entries := e.History().Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if got := entries[0].String(); got != "10 + 2 = 12" {
		t.Fatalf("expected most recent %q, got %q", "10 + 2 = 12", got)
	}
	if got := entries[1].String(); got != "7 + 3 = 10" {
		t.Fatalf("expected oldest %q, got %q", "7 + 3 = 10", got)
	}
}

func TestEngineConsecutiveOperatorsReplaceOperator(t *testing.T) {
	e := NewEngine()
	enter(e, "8+-")

	prev, op, ok := e.Pending()
	if !ok || prev != "8" || op != Subtract {
		t.Fatalf("expected pending 8 -, got %q %v %t", prev, op, ok)
	}

	enter(e, "3=")
	if got := e.Current(); got != "5" {
		t.Fatalf("expected %q, got %q", "5", got)
	}
}

func TestEngineEqualsRightAfterOperatorReusesOperand(t *testing.T) {
	e := NewEngine()
	enter(e, "7+=")

	if got := e.Current(); got != "14" {
		t.Fatalf("expected %q, got %q", "14", got)
	}
}

func TestEngineDivisionByZero(t *testing.T) {
	e := NewEngine(WithHistory(DefaultHistoryCapacity))
	e.InputDigit("5")
	e.SetOperator(Divide)
	e.InputDigit("0")

	if _, ok := e.Compute(); ok {
		t.Fatal("expected no history entry")
	}
	if !e.Failed() {
		t.Fatalf("expected error sentinel, got %q", e.Current())
	}
	if !errors.Is(e.Err(), ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", e.Err())
	}
	if e.History().Len() != 0 {
		t.Fatalf("expected empty history, got %d", e.History().Len())
	}
	if _, _, ok := e.Pending(); ok {
		t.Fatal("expected pending state cleared")
	}
	if !e.Overwrite() {
		t.Fatal("expected replace mode")
	}

	e.InputDigit("4")
	if got := e.Current(); got != "4" {
		t.Fatalf("expected engine to resume with %q, got %q", "4", got)
	}
	if e.Err() != nil {
		t.Fatalf("expected error to clear, got %v", e.Err())
	}
}

func TestEngineRecoversFromErrorAsZero(t *testing.T) {
	tests := []struct {
		name  string
		after func(e *Engine)
		want  string
	}{
		{name: "operator", after: func(e *Engine) { enter(e, "+5=") }, want: "5"},
		{name: "chained operator", after: func(e *Engine) { enter(e, "*3=") }, want: "0"},
		{name: "toggle sign", after: func(e *Engine) { e.ToggleSign() }, want: "0"},
		{name: "percent", after: func(e *Engine) { e.ToPercent() }, want: "0"},
		{name: "toggle then operator", after: func(e *Engine) { e.ToggleSign(); enter(e, "-2=") }, want: "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(WithHistory(DefaultHistoryCapacity))
			enter(e, "5/0=")
			tt.after(e)

			if got := e.Current(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if e.Failed() {
				t.Fatal("expected engine to leave the error state")
			}
		})
	}
}

func TestEngineFailedChainingOperatorStartsFromZero(t *testing.T) {
	e := NewEngine(WithHistory(DefaultHistoryCapacity))
	enter(e, "5/0+")

	operand, op, ok := e.Pending()
	if !ok || operand != "0" || op != Add {
		t.Fatalf("expected pending 0 +, got %q %v %v", operand, op, ok)
	}
	enter(e, "5=")
	if got := e.Current(); got != "5" {
		t.Fatalf("expected %q, got %q", "5", got)
	}
	latest, _ := e.History().Latest()
	if latest.String() != "0 + 5 = 5" {
		t.Fatalf("expected latest entry %q, got %q", "0 + 5 = 5", latest.String())
	}
}

func TestEngineCountsFailures(t *testing.T) {
	e := NewEngine()
	enter(e, "5/0=")
	enter(e, "=")
	e.DeleteLast()

	if got := e.Failures(); got != 1 {
		t.Fatalf("expected 1 failure, got %d", got)
	}
	enter(e, "1/0=")
	if got := e.Failures(); got != 2 {
		t.Fatalf("expected 2 failures, got %d", got)
	}
}

func TestEngineToggleSignOfOversizedOperand(t *testing.T) {
	e := NewEngine()
	e.current = strings.Repeat("9", 400)
	e.ToggleSign()

	if got := e.Current(); got != "-Infinity" {
		t.Fatalf("expected %q, got %q", "-Infinity", got)
	}
}

func TestEngineOverflowIsReportedAsNonFinite(t *testing.T) {
	e := NewEngine()
	e.current = "1e308"
	e.SetOperator(Multiply)
	e.InputDigit("9")
	e.Compute()

	if !e.Failed() {
		t.Fatalf("expected error sentinel, got %q", e.Current())
	}
	if !errors.Is(e.Err(), ErrNonFiniteResult) {
		t.Fatalf("expected ErrNonFiniteResult, got %v", e.Err())
	}
}

func TestEngineHistoryBound(t *testing.T) {
	e := NewEngine(WithHistory(DefaultHistoryCapacity))

	for i := 0; i < 11; i++ {
		e.InputDigit("1")
		e.SetOperator(Add)
		e.InputDigit(strconv.Itoa(i % 10))
		e.Compute()
	}

	entries := e.History().Entries()
	if len(entries) != DefaultHistoryCapacity {
		t.Fatalf("expected %d entries, got %d", DefaultHistoryCapacity, len(entries))
	}
	if entries[0].Right != "0" {
		t.Fatalf("expected most recent right operand %q, got %q", "0", entries[0].Right)
	}
	if entries[9].Right != "1" {
		t.Fatalf("expected oldest kept right operand %q, got %q", "1", entries[9].Right)
	}
}

func TestEngineClearAll(t *testing.T) {
	e := NewEngine(WithHistory(DefaultHistoryCapacity))
	enter(e, "2*3=4+")
	e.ClearAll()

	if got := e.Current(); got != "0" {
		t.Fatalf("expected %q, got %q", "0", got)
	}
	if _, _, ok := e.Pending(); ok {
		t.Fatal("expected no pending operation")
	}
	if e.Overwrite() {
		t.Fatal("expected entry mode")
	}
	if e.History().Len() != 1 {
		t.Fatalf("expected history to survive clear, got %d entries", e.History().Len())
	}

	e.ClearHistory()
	if e.History().Len() != 0 {
		t.Fatalf("expected empty history, got %d", e.History().Len())
	}
}

func TestEngineDeleteLast(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{name: "trailing digit", keys: "123", want: "12"},
		{name: "single digit", keys: "7", want: "0"},
		{name: "decimal point", keys: "4.", want: "4"},
		{name: "after result", keys: "2+2=", want: "4"},
		{name: "after operator", keys: "56+", want: "56"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			enter(e, tc.keys)
			e.DeleteLast()
			if got := e.Current(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEngineDeleteLastLeavesNoBareSign(t *testing.T) {
	e := NewEngine()
	e.InputDigit("5")
	e.ToggleSign()
	e.DeleteLast()

	if got := e.Current(); got != "0" {
		t.Fatalf("expected %q, got %q", "0", got)
	}
}

func TestEngineToggleSign(t *testing.T) {
	e := NewEngine()
	e.ToggleSign()
	if got := e.Current(); got != "0" {
		t.Fatalf("expected toggle on zero to be a no-op, got %q", got)
	}

	for _, v := range []string{"5", "-5", "0.25", "1234.5", "-0.001"} {
		t.Run(v, func(t *testing.T) {
			e := NewEngine()
			e.current = v
			e.ToggleSign()
			if e.Current() == v {
				t.Fatalf("expected %q to change sign", v)
			}
			e.ToggleSign()
			if got := e.Current(); got != v {
				t.Fatalf("expected double toggle to restore %q, got %q", v, got)
			}
		})
	}
}

func TestEngineToPercent(t *testing.T) {
	e := NewEngine()
	enter(e, "50")
	e.ToPercent()

	if got := e.Current(); got != "0.5" {
		t.Fatalf("expected %q, got %q", "0.5", got)
	}
}

func TestEngineSnapshotCopiesHistory(t *testing.T) {
	e := NewEngine(WithHistory(DefaultHistoryCapacity))
	enter(e, "1+1=")
	s := e.Snapshot()
	s.History[0].Result = "tampered"

	latest, _ := e.History().Latest()
	if latest.Result != "2" {
		t.Fatalf("expected snapshot to be a copy, history now holds %q", latest.Result)
	}
}

func TestEngineCountsComputationsWithoutHistory(t *testing.T) {
	e := NewEngine()
	if _, ok := e.LastEntry(); ok {
		t.Fatal("expected no last entry")
	}

	enter(e, "6*7=")
	enter(e, "1/0=")

	if got := e.Computations(); got != 1 {
		t.Fatalf("expected 1 computation, got %d", got)
	}
	last, ok := e.LastEntry()
	if !ok || last.String() != "6 * 7 = 42" {
		t.Fatalf("expected last entry %q, got %q", "6 * 7 = 42", last.String())
	}
}
