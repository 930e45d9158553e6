package calc

import (
	"errors"
	"strconv"
	"strings"
)

// ValidationMode selects the lexical check an expression must pass before it
// is split into tokens.
type ValidationMode int8

const (
	// ValidateGrouped accepts a chain of numbers joined by operators, with an
	// optional leading sign, where each number may be preceded by any number
	// of open brackets and followed by any number of close brackets. Whether
	// the brackets balance is left to the parser. This is the default.
	ValidateGrouped ValidationMode = iota
	// ValidateStrict is like ValidateGrouped but rejects brackets entirely.
	ValidateStrict
	// ValidateCharset only checks that the expression is non-empty and that
	// every rune is a digit, a decimal point, an operator, or a bracket.
	// Misplaced operators and numbers are then reported by evaluation as
	// *OperandError or *StackError.
	ValidateCharset
)

func (m ValidationMode) String() string {
	switch m {
	case ValidateGrouped:
		return "grouped"
	case ValidateStrict:
		return "strict"
	case ValidateCharset:
		return "charset"
	default:
		return "ValidationMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseValidation returns the validation mode with the given name, as
// returned by ValidationMode.String. Matching is case-insensitive.
func ParseValidation(name string) (ValidationMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "grouped", "":
		return ValidateGrouped, nil
	case "strict":
		return ValidateStrict, nil
	case "charset":
		return ValidateCharset, nil
	default:
		return 0, errors.New("calc: unknown validation mode " + strconv.Quote(name))
	}
}

// Option is an option for parsing.
type Option interface {
	parseOption(parsectx) parsectx
}

type validopt ValidationMode

// parsectx holds the settings for a single parse.
type parsectx struct {
	valid ValidationMode
}

// Validation sets the lexical check applied to expressions. Panics if mode is
// not one of the defined modes.
func Validation(mode ValidationMode) Option {
	switch mode {
	case ValidateGrouped, ValidateStrict, ValidateCharset:
	default:
		panic("calc: invalid validation mode " + mode.String())
	}
	return validopt(mode)
}

func (o validopt) parseOption(p parsectx) parsectx {
	p.valid = ValidationMode(o)
	return p
}
