package calc

import (
	"strconv"
	"strings"
)

// Expr = Term { Op Term }
// Term = num | '(' Expr ')'
// Op = '+' | '-' | '*' | '/'
//
// An Expr may begin with '+' or '-', which is parsed as if a 0 preceded it.

// Expr is a parsed expression, held as a queue of tokens in postfix order.
// An Expr is never modified after Parse returns it, so it is safe to evaluate
// concurrently.
type Expr struct {
	rpn []lexToken
}

// Parse validates an expression and converts it to postfix form so it can be
// evaluated. The given options are applied in order.
func Parse(src string, opts ...Option) (*Expr, error) {
	var p parsectx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	toks, err := lex(src, p.valid)
	if err != nil {
		return nil, err
	}
	rpn, err := shunt(toks)
	if err != nil {
		return nil, err
	}
	return &Expr{rpn: rpn}, nil
}

// shunt reorders infix tokens into postfix order using the shunting-yard
// algorithm.
func shunt(toks []lexToken) ([]lexToken, error) {
	out := make([]lexToken, 0, len(toks))
	var ops []lexToken
	for _, tok := range toks {
		switch tok.kind {
		case tokenNum:
			out = append(out, tok)
		case tokenOpen:
			ops = append(ops, tok)
		case tokenClose:
			for len(ops) > 0 && ops[len(ops)-1].kind != tokenOpen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, &BracketError{Col: tok.pos, Right: tok.text}
			}
			// Discard the matching open bracket.
			ops = ops[:len(ops)-1]
		case tokenOp:
			// Popping on equal precedence makes operators left-associative.
			prec := precedence(tok.text)
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.kind != tokenOp || precedence(top.text) < prec {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.kind != tokenOp {
			return nil, &BracketError{Col: top.pos, Left: top.text}
		}
		out = append(out, top)
	}
	return out, nil
}

// precedence gets the binding strength of a binary operator. Higher binds
// tighter.
func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	default:
		panic("calc: unknown operator " + strconv.Quote(op))
	}
}

// Postfix returns the tokens of the expression in evaluation order.
func (e *Expr) Postfix() []string {
	r := make([]string, len(e.rpn))
	for i, tok := range e.rpn {
		r[i] = tok.text
	}
	return r
}

// String formats the expression in reverse Polish notation, with tokens
// separated by spaces.
func (e *Expr) String() string {
	return strings.Join(e.Postfix(), " ")
}
