package calc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzEval(f *testing.F) {
	f.Add("2+3*4")
	f.Add("(2+3)*4")
	f.Add("-1.5/0")
	f.Add("2+*3")
	f.Add("((1)")
	f.Fuzz(func(t *testing.T, s string) {
		for _, m := range []calc.ValidationMode{calc.ValidateGrouped, calc.ValidateStrict, calc.ValidateCharset} {
			r, err := calc.Eval(s, calc.Validation(m))
			if err != nil {
				if !errors.Is(err, calc.ErrInvalidExpression) {
					t.Errorf("%q with %v: error %#v does not unwrap to ErrInvalidExpression", s, m, err)
				}
				continue
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				t.Errorf("%q with %v: non-finite result %g with no error", s, m, r)
			}
		}
	})
}

func FuzzParse(f *testing.F) {
	f.Add("1-(2-(3-4))")
	f.Add("2)+(3")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := calc.Parse(s)
		if err != nil {
			return
		}
		// Anything the default validation accepts is well-formed, so the
		// only way evaluation can fail is a non-finite result.
		if _, err := a.Eval(); err != nil {
			var re *calc.ResultError
			if !errors.As(err, &re) {
				t.Errorf("%q parsed to %v but failed to evaluate: %v", s, a, err)
			}
		}
	})
}
