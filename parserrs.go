package calc

import (
	"errors"
	"math"
	"strconv"
)

// ErrInvalidExpression is the error that every parsing and evaluation error
// unwraps to. Callers that only need to know whether an expression was
// accepted can test for it with errors.Is.
var ErrInvalidExpression = errors.New("invalid expression")

// LexError indicates input that fails validation or contains an invalid
// token. It implements InputError.
type LexError struct {
	// Text is the offending rune or number, or the whole expression if the
	// problem is its overall structure.
	Text string
	// Kind is "character" or "number" when a single token is at fault, or
	// the empty string when the expression as a whole is malformed.
	Kind string
	// Col is the position of the offending token, or 0 when Kind is empty.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		if err.Text == "" {
			return "no expression"
		}
		return "malformed expression " + strconv.Quote(err.Text)
	}
	return errpos(err.Col, "invalid "+err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return ErrInvalidExpression
}

// BracketError is an error indicating mismatched brackets in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched bracket.
	Col int
	// Left is the open bracket, if that is the unmatched one.
	Left string
	// Right is the close bracket, if that is the unmatched one.
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

func (err *BracketError) Unwrap() error {
	return ErrInvalidExpression
}

// OperandError is an error indicating an operator that does not have two
// operands to apply to. It implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator token.
	Operator string
	// Have is the number of operands that were available.
	Have int
}

func (err *OperandError) Error() string {
	return errpos(err.Col, "operator "+strconv.Quote(err.Operator)+" needs 2 operands, have "+strconv.Itoa(err.Have))
}

func (err *OperandError) Pos() int {
	return err.Col
}

func (err *OperandError) Unwrap() error {
	return ErrInvalidExpression
}

// StackError is an error indicating that evaluation did not end with exactly
// one value. It implements InputError.
type StackError struct {
	// Len is the number of values left after evaluation.
	Len int
}

func (err *StackError) Error() string {
	return "expression leaves " + strconv.Itoa(err.Len) + " values instead of 1"
}

func (err *StackError) Pos() int {
	return 0
}

func (err *StackError) Unwrap() error {
	return ErrInvalidExpression
}

// ResultError is an error indicating that an expression evaluated to NaN or
// an infinity, e.g. because of a division by zero. It implements InputError.
type ResultError struct {
	// Value is the non-finite result.
	Value float64
}

func (err *ResultError) Error() string {
	return "result " + strconv.FormatFloat(err.Value, 'g', -1, 64) + " is not a finite number"
}

func (err *ResultError) Pos() int {
	return 0
}

func (err *ResultError) Unwrap() error {
	return ErrInvalidExpression
}

// finite reports whether x is neither NaN nor an infinity.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the token that caused the error, or
	// 0 if the error concerns the expression as a whole.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*StackError)(nil)
	_ InputError = (*ResultError)(nil)
)
