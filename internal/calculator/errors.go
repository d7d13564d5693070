package calculator

import "errors"

var (
	// ErrDivisionByZero is returned by Operator.Evaluate when the right operand is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNonFiniteResult is reported by the engine when a computation overflows
	// or one of its operands is not a number.
	ErrNonFiniteResult = errors.New("result is not a finite number")

	// ErrUnknownOperator is returned when an operator symbol or name is not one of + - * /.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnknownIntent is returned by Engine.Apply for an intent kind it cannot handle.
	ErrUnknownIntent = errors.New("unknown intent")
)
