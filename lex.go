package calc

import (
	"regexp"
	"strconv"
	"strings"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenNum is a decimal number.
	tokenNum
	// tokenOp is a binary operator.
	tokenOp
	// tokenOpen is an open bracket.
	tokenOpen
	// tokenClose is a close bracket.
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenNum:
		return "Num"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/"

// OpenBracket and CloseBracket are the runes which group expressions.
const (
	OpenBracket  = "("
	CloseBracket = ")"
)

// charset is every rune that may appear in an expression.
const charset = "0123456789." + Operators + OpenBracket + CloseBracket

// number matches one decimal literal: digits with an optional fraction, or a
// bare fraction like .5.
const number = `(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)`

var (
	strictExpr  = regexp.MustCompile(`^[-+]?` + number + `(?:[-+*/]` + number + `)*$`)
	groupedExpr = regexp.MustCompile(`^[-+]?\(*` + number + `\)*(?:[-+*/]\(*` + number + `\)*)*$`)
	numberExpr  = regexp.MustCompile(`^` + number + `$`)
	splitExpr   = regexp.MustCompile(`[-+*/()]`)
)

// lex validates src according to mode and splits it into tokens.
func lex(src string, mode ValidationMode) ([]lexToken, error) {
	if err := validate(src, mode); err != nil {
		return nil, err
	}
	return tokenize(src)
}

// validate checks src against the lexical rules selected by mode.
func validate(src string, mode ValidationMode) error {
	col := 0
	for _, r := range src {
		col++
		if !strings.ContainsRune(charset, r) {
			return &LexError{Text: string(r), Kind: "character", Col: col}
		}
	}
	var ok bool
	switch mode {
	case ValidateGrouped:
		ok = groupedExpr.MatchString(src)
	case ValidateStrict:
		ok = strictExpr.MatchString(src)
	case ValidateCharset:
		ok = src != ""
	default:
		panic("calc: invalid validation mode " + mode.String())
	}
	if !ok {
		return &LexError{Text: src}
	}
	return nil
}

// tokenize splits src at operator and bracket boundaries. src must already
// have passed validate, so every rune is a single byte.
func tokenize(src string) ([]lexToken, error) {
	var toks []lexToken
	last := 0
	for _, loc := range splitExpr.FindAllStringIndex(src, -1) {
		tok, err := numToken(src[last:loc[0]], last+1)
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenNone {
			toks = append(toks, tok)
		}
		toks = append(toks, symToken(src[loc[0]:loc[1]], loc[0]+1))
		last = loc[1]
	}
	tok, err := numToken(src[last:], last+1)
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenNone {
		toks = append(toks, tok)
	}
	// A leading sign is the same as adding to or subtracting from zero.
	if len(toks) > 0 && toks[0].kind == tokenOp && (toks[0].text == "+" || toks[0].text == "-") {
		zero := lexToken{text: "0", kind: tokenNum, pos: toks[0].pos}
		toks = append([]lexToken{zero}, toks...)
	}
	return toks, nil
}

// numToken classifies the text between two symbols. Empty fragments produce
// a token of kind tokenNone, which the caller discards.
func numToken(text string, pos int) (lexToken, error) {
	if strings.TrimSpace(text) == "" {
		return lexToken{}, nil
	}
	if !numberExpr.MatchString(text) {
		return lexToken{}, &LexError{Text: text, Kind: "number", Col: pos}
	}
	return lexToken{text: text, kind: tokenNum, pos: pos}, nil
}

// symToken classifies a single operator or bracket.
func symToken(text string, pos int) lexToken {
	switch text {
	case OpenBracket:
		return lexToken{text: text, kind: tokenOpen, pos: pos}
	case CloseBracket:
		return lexToken{text: text, kind: tokenClose, pos: pos}
	default:
		return lexToken{text: text, kind: tokenOp, pos: pos}
	}
}
