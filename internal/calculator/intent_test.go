package calculator

import (
	"errors"
	"testing"
)

func TestKeyIntent(t *testing.T) {
	tests := []struct {
		key  string
		want Intent
		ok   bool
	}{
		{key: "7", want: Intent{Kind: IntentDigit, Value: "7"}, ok: true},
		{key: ".", want: Intent{Kind: IntentDecimal}, ok: true},
		{key: ",", want: Intent{Kind: IntentDecimal}, ok: true},
		{key: "/", want: Intent{Kind: IntentOperator, Value: "/"}, ok: true},
		{key: "Enter", want: Intent{Kind: IntentEquals}, ok: true},
		{key: "=", want: Intent{Kind: IntentEquals}, ok: true},
		{key: "Backspace", want: Intent{Kind: IntentDelete}, ok: true},
		{key: "C", want: Intent{Kind: IntentClear}, ok: true},
		{key: "c", want: Intent{Kind: IntentClear}, ok: true},
		{key: "x", ok: false},
		{key: "12", ok: false},
		{key: "Shift", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, ok := KeyIntent(tc.key)
			if ok != tc.ok {
				t.Fatalf("key %q: expected ok=%t, got %t", tc.key, tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("key %q: expected %+v, got %+v", tc.key, tc.want, got)
			}
		})
	}
}

func TestActionIntent(t *testing.T) {
	tests := []struct {
		action, value string
		want          Intent
		ok            bool
	}{
		{action: "number", value: "3", want: Intent{Kind: IntentDigit, Value: "3"}, ok: true},
		{action: "number", value: "33", ok: false},
		{action: "operator", value: "*", want: Intent{Kind: IntentOperator, Value: "*"}, ok: true},
		{action: "operator", value: "^", ok: false},
		{action: "toggle-sign", value: "ignored", want: Intent{Kind: IntentToggleSign}, ok: true},
		{action: "percent", want: Intent{Kind: IntentPercent}, ok: true},
		{action: "sqrt", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.action+tc.value, func(t *testing.T) {
			got, ok := ActionIntent(tc.action, tc.value)
			if ok != tc.ok {
				t.Fatalf("expected ok=%t, got %t", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestApplyUnknownIntentLeavesStateUntouched(t *testing.T) {
	e := NewEngine()
	e.InputDigit("9")

	err := e.Apply(Intent{Kind: "sqrt"})
	if !errors.Is(err, ErrUnknownIntent) {
		t.Fatalf("expected ErrUnknownIntent, got %v", err)
	}
	if got := e.Current(); got != "9" {
		t.Fatalf("expected %q, got %q", "9", got)
	}

	if err := e.Apply(Intent{Kind: IntentOperator, Value: "%"}); !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestParseOperatorAcceptsSymbolsAndNames(t *testing.T) {
	for _, s := range []string{"/", "divide"} {
		op, err := ParseOperator(s)
		if err != nil || op != Divide {
			t.Fatalf("%q: expected Divide, got %v (%v)", s, op, err)
		}
	}

	if _, err := Divide.Evaluate(1, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}
