package calc

import (
	"strconv"
)

// UnknownFunctionError is an error from a call or constant reference to a
// name that the registry does not allow.
type UnknownFunctionError struct {
	// Name is the rejected name.
	Name string
}

func (err *UnknownFunctionError) Error() string {
	return "unknown function or constant " + strconv.Quote(err.Name)
}

func (err *UnknownFunctionError) Kind() ErrorKind {
	return UnknownFunction
}

// ArityError is an error from calling a registered function with the wrong
// number of arguments.
type ArityError struct {
	// Func is the function name that was called.
	Func string
	// Want is the arity the registry declares for Func.
	Want int
	// Got is the number of arguments the call supplied.
	Got int
}

func (err *ArityError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Got) +
		" arguments; it takes " + strconv.Itoa(err.Want)
}

func (err *ArityError) Kind() ErrorKind {
	return ArityMismatch
}

// DivisionByZeroError is an error from dividing by exactly zero, including
// the remainder operator and the reciprocal function.
type DivisionByZeroError struct{}

func (err *DivisionByZeroError) Error() string {
	return "division by zero"
}

func (err *DivisionByZeroError) Kind() ErrorKind {
	return DivisionByZero
}

// DomainError is an error from a function called on arguments outside its
// real-number domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Kind() ErrorKind {
	return Domain
}

// UnsupportedResultError is an error from an operation whose mathematical
// result is not a finite real number, such as a negative base raised to a
// fractional exponent.
type UnsupportedResultError struct {
	// Op identifies the operation, e.g. "**".
	Op string
}

func (err *UnsupportedResultError) Error() string {
	if err.Op == "" {
		return "result is not a finite real number"
	}
	return "result of " + err.Op + " is not a finite real number"
}

func (err *UnsupportedResultError) Kind() ErrorKind {
	return UnsupportedResult
}

var (
	_ Error = (*UnknownFunctionError)(nil)
	_ Error = (*ArityError)(nil)
	_ Error = (*DivisionByZeroError)(nil)
	_ Error = (*DomainError)(nil)
	_ Error = (*UnsupportedResultError)(nil)
)
