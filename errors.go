package calc

import (
	"errors"
	"strconv"
)

// ErrorKind classifies every failure the parser and evaluator can return.
// Callers that only need a coarse answer, like a calculator display deciding
// to show "Error", can switch on the kind instead of the concrete type.
type ErrorKind int

const (
	// Syntax is malformed input rejected by the parser.
	Syntax ErrorKind = iota + 1
	// UnknownFunction is a name absent from the registry, or a constant
	// reference to a name that is not a constant.
	UnknownFunction
	// ArityMismatch is a call with the wrong number of arguments.
	ArityMismatch
	// DivisionByZero is a division or remainder with a zero divisor.
	DivisionByZero
	// Domain is a function applied outside its real-number domain.
	Domain
	// UnsupportedResult is a result that is not a finite real number.
	UnsupportedResult
)

func (k ErrorKind) String() string {
	switch k {
	case Syntax:
		return "Syntax"
	case UnknownFunction:
		return "UnknownFunction"
	case ArityMismatch:
		return "ArityMismatch"
	case DivisionByZero:
		return "DivisionByZero"
	case Domain:
		return "Domain"
	case UnsupportedResult:
		return "UnsupportedResult"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is implemented by every error returned from Parse, Evaluate, and the
// registry functions.
type Error interface {
	error
	// Kind returns the error's classification.
	Kind() ErrorKind
}

// KindOf returns the classification of err. If err did not come from this
// package, the second result is false.
func KindOf(err error) (ErrorKind, bool) {
	var e Error
	if errors.As(err, &e) {
		return e.Kind(), true
	}
	return 0, false
}

// InputError is an error with position information. Every error resulting
// from invalid input implements InputError.
type InputError interface {
	Error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

// OperatorError is an error indicating an operator token where a value was
// expected. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Kind() ErrorKind {
	return Syntax
}

// BracketError is an error indicating mismatched brackets in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the bracket or of the token that revealed the
	// mismatch.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Kind() ErrorKind {
	return Syntax
}

// SeparatorError is an error indicating a comma outside a function argument
// list. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

func (err *SeparatorError) Kind() ErrorKind {
	return Syntax
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Kind() ErrorKind {
	return Syntax
}

// TrailingError is an error indicating a token following a complete
// expression. The grammar has no implicit multiplication, so input like
// "2(3+4)" fails with this error. It implements InputError.
type TrailingError struct {
	// Col is the position of the trailing token.
	Col int
	// Token is the trailing token.
	Token string
}

func (err *TrailingError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Token)+" after expression")
}

func (err *TrailingError) Pos() int {
	return err.Col
}

func (err *TrailingError) Kind() ErrorKind {
	return Syntax
}

// DepthError is an error indicating input nested beyond the parser's limit.
// It implements InputError.
type DepthError struct {
	// Col is the position at which the limit was exceeded.
	Col int
	// Limit is the nesting limit.
	Limit int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nests deeper than "+strconv.Itoa(err.Limit)+" levels")
}

func (err *DepthError) Pos() int {
	return err.Col
}

func (err *DepthError) Kind() ErrorKind {
	return Syntax
}

func (err *LexError) Kind() ErrorKind {
	return Syntax
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*TrailingError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LexError)(nil)
)
