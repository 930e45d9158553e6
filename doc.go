// Package calc implements a four-function arithmetic calculator.
//
// Expressions are made of decimal numbers, the binary operators + - * /, and
// round brackets, with no whitespace. An expression may begin with a single
// sign, so "-2*3" is the same as "0-2*3". Multiplication and division bind
// tighter than addition and subtraction, and operators of equal precedence
// group left to right, so "8-3-2" is 3.
//
// Parsing validates the input, splits it into tokens, and reorders them into
// postfix form with the shunting-yard algorithm. Evaluation runs the postfix
// queue on a value stack. Every error from either step unwraps to
// ErrInvalidExpression.
//
package calc
