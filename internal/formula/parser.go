package formula

import "fmt"

// Grammar, lowest to highest precedence:
//
//	formula     := iff
//	iff         := implication ( IFF implication )*      left-associative
//	implication := disjunction ( IMPLIES implication )?  right-associative
//	disjunction := conjunction ( OR conjunction )*       left-associative
//	conjunction := negation ( AND negation )*            left-associative
//	negation    := NOT* primary
//	primary     := IDENTIFIER | '(' formula ')'
type parser struct {
	tokens []token
	i      int
}

// Parse tokenizes and parses the input into a normalized AST. The only
// simplification applied is the recursive double-negation collapse.
func Parse(input string) (Node, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	n, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEnd {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q after complete formula", tok.text)}
	}
	return normalize(n), nil
}

// MustParse is Parse for statically known inputs; it panics on error.
func MustParse(input string) Node {
	n, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return n
}

// Canonical parses the input and renders its canonical fully-parenthesized
// form.
func Canonical(input string) (string, error) {
	n, err := Parse(input)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

func (p *parser) peek() token { return p.tokens[p.i] }

func (p *parser) next() token {
	tok := p.tokens[p.i]
	if p.i < len(p.tokens)-1 {
		p.i++
	}
	return tok
}

func (p *parser) peekOp(op Op) bool {
	tok := p.peek()
	return tok.kind == tokenOp && tok.op == op
}

func (p *parser) parseIff() (Node, error) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	for p.peekOp(OpIff) {
		p.next()
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpIff, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseImplies() (Node, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peekOp(OpImplies) {
		p.next()
		// Right-associative: A → B → C parses as A → (B → C).
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return Binary{Op: OpImplies, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peekOp(OpOr) {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peekOp(OpAnd) {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.peekOp(OpNot) {
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenIdent:
		return Atom{Name: tok.text}, nil
	case tokenLParen:
		inner, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: fmt.Sprintf("expected closing parenthesis, found %q", closing.text)}
		}
		return inner, nil
	case tokenOp:
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("missing operand before %q", tok.text)}
	case tokenRParen:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected closing parenthesis"}
	default:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected end of formula"}
	}
}
