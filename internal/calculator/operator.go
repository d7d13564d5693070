package calculator

import "fmt"

// Operator is one of the four binary operators the engine knows about.
type Operator int

const (
	// NoOperator marks the absence of a pending operator.
	NoOperator Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

// ParseOperator accepts either the keyboard symbol ("+", "-", "*", "/")
// or the operation name used by the JSON endpoints ("add", "subtract", ...).
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "+", "add":
		return Add, nil
	case "-", "subtract":
		return Subtract, nil
	case "*", "multiply":
		return Multiply, nil
	case "/", "divide":
		return Divide, nil
	}
	return NoOperator, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Symbol returns the keyboard symbol of the operator.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	}
	return ""
}

// Name returns the operation name, e.g. "add".
func (o Operator) Name() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	}
	return ""
}

func (o Operator) String() string {
	return o.Symbol()
}

// Evaluate applies the operator to a and b.
func (o Operator) Evaluate(a, b float64) (float64, error) {
	switch o {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, fmt.Errorf("%w: %g / %g", ErrDivisionByZero, a, b)
		}
		return a / b, nil
	}
	return 0, ErrUnknownOperator
}
