package calc

import (
	"errors"
	"strconv"
)

// Eval evaluates the expression and returns the result. If the postfix
// queue does not reduce to exactly one value, or the value is NaN or
// infinite, then the result is 0 with a non-nil error. Eval never modifies e,
// so evaluating the same Expr again gives the same result.
func (e *Expr) Eval() (float64, error) {
	stack := make([]float64, 0, len(e.rpn)/2+1)
	for _, tok := range e.rpn {
		switch tok.kind {
		case tokenNum:
			stack = append(stack, num(tok.text))
		case tokenOp:
			if len(stack) < 2 {
				return 0, &OperandError{Col: tok.pos, Operator: tok.text, Have: len(stack)}
			}
			// b is popped first, so a is the operand that was pushed earlier.
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], apply(tok.text, a, b))
		default:
			panic("calc: " + tok.String() + " in postfix queue")
		}
	}
	if len(stack) != 1 {
		return 0, &StackError{Len: len(stack)}
	}
	r := stack[0]
	if !finite(r) {
		return 0, &ResultError{Value: r}
	}
	return r, nil
}

// apply computes a op b.
func apply(op string, a, b float64) float64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	default:
		panic("calc: unknown operator " + strconv.Quote(op))
	}
}

// num parses a number token. Literals too large for a float64 become
// infinities, which evaluation rejects if they reach the result.
func num(s string) float64 {
	r, err := strconv.ParseFloat(s, 64)
	switch {
	case err == nil: // do nothing
	case errors.Is(err, strconv.ErrRange):
		// ParseFloat already returned the appropriately signed infinity or
		// zero.
	default:
		panic("calc: invalid number: " + s + " (" + err.Error() + ")")
	}
	return r
}

// Eval is a shortcut to parse an expression and return its result.
func Eval(src string, opts ...Option) (float64, error) {
	e, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return e.Eval()
}
