package formula

import (
	"fmt"
	"strings"
	"unicode"
)

// SyntaxError is a positioned lexical or parse error. Pos is a rune offset
// into the input string.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Msg)
}

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenLParen
	tokenRParen
	tokenOp
	tokenEnd
)

type token struct {
	kind tokenKind
	text string
	op   Op
	pos  int
}

// Multi-rune ASCII aliases, longest first so "<->" does not lex as "<", "-",
// ">".
var multiRuneOps = []struct {
	text string
	op   Op
}{
	{"<->", OpIff},
	{"<=>", OpIff},
	{"->", OpImplies},
	{"=>", OpImplies},
}

var singleRuneOps = map[rune]Op{
	'∧': OpAnd,
	'&': OpAnd,
	'∨': OpOr,
	'|': OpOr,
	'→': OpImplies,
	'↔': OpIff,
	'~': OpNot,
	'!': OpNot,
}

var keywordOps = map[string]Op{
	"AND":     OpAnd,
	"OR":      OpOr,
	"IMPLIES": OpImplies,
	"IFF":     OpIff,
	"NOT":     OpNot,
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9') || r == '_'
}

// lex tokenizes the whole input, normalizing every operator alias to its
// canonical tag. The returned slice always ends with a tokenEnd.
func lex(input string) ([]token, error) {
	runes := []rune(input)
	var tokens []token
	i := 0
	for i < len(runes) {
		r := runes[i]
		if unicode.IsSpace(r) {
			i++
			continue
		}
		if r == '(' {
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
			continue
		}
		if r == ')' {
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
			continue
		}
		if op, matched := matchMultiRuneOp(runes, i); matched != "" {
			tokens = append(tokens, token{kind: tokenOp, text: matched, op: op, pos: i})
			i += len([]rune(matched))
			continue
		}
		if op, ok := singleRuneOps[r]; ok {
			tokens = append(tokens, token{kind: tokenOp, text: string(r), op: op, pos: i})
			i++
			continue
		}
		if isIdentStart(r) {
			start := i
			for i < len(runes) && isIdentRune(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			if op, ok := keywordOps[word]; ok {
				tokens = append(tokens, token{kind: tokenOp, text: word, op: op, pos: start})
			} else {
				tokens = append(tokens, token{kind: tokenIdent, text: word, pos: start})
			}
			continue
		}
		return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
	}
	tokens = append(tokens, token{kind: tokenEnd, text: "end of input", pos: len(runes)})
	return tokens, nil
}

func matchMultiRuneOp(runes []rune, i int) (Op, string) {
	rest := string(runes[i:])
	for _, candidate := range multiRuneOps {
		if strings.HasPrefix(rest, candidate.text) {
			return candidate.op, candidate.text
		}
	}
	return "", ""
}
