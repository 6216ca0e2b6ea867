// Package formula implements the propositional formula model: a tokenizer and
// precedence-climbing parser producing a canonical AST, plus the canonical
// fully-parenthesized string rendering that the rest of entail treats as the
// identity of a formula. Two ASTs denote the same formula iff their canonical
// strings are equal.
package formula

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Op is one of the five canonical operator tags. Operator aliases in the
// surface syntax (AND, &, ->, <=>, ...) are normalized to these at lex time.
type Op string

const (
	OpNot     Op = "not"
	OpAnd     Op = "and"
	OpOr      Op = "or"
	OpImplies Op = "implies"
	OpIff     Op = "iff"
)

// Symbol returns the canonical rendering symbol for the operator.
func (o Op) Symbol() string {
	switch o {
	case OpNot:
		return "~"
	case OpAnd:
		return "∧"
	case OpOr:
		return "∨"
	case OpImplies:
		return "→"
	case OpIff:
		return "↔"
	}
	return "?"
}

// Node is a formula AST node. The set of implementations is closed: Atom, Not
// and Binary. Nodes are immutable once built.
type Node interface {
	fmt.Stringer
	node()
}

// Atom is an indivisible named proposition.
type Atom struct {
	Name string
}

// Not negates its operand.
type Not struct {
	Operand Node
}

// Binary combines two subformulas with and, or, implies or iff.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

func (Atom) node()   {}
func (Not) node()    {}
func (Binary) node() {}

func (a Atom) String() string { return a.Name }

func (n Not) String() string { return "~" + n.Operand.String() }

func (b Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.Symbol() + " " + b.Right.String() + ")"
}

// NewAtom builds an atom node.
func NewAtom(name string) Node { return Atom{Name: name} }

// NewNot builds a negation node.
func NewNot(operand Node) Node { return Not{Operand: operand} }

// NewBinary builds a binary node.
func NewBinary(op Op, left, right Node) Node {
	return Binary{Op: op, Left: left, Right: right}
}

// Negate wraps n in a negation without simplifying. Negating an already
// negated formula yields a double negation.
func Negate(n Node) Node { return Not{Operand: n} }

var atomName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Validate checks structural well-formedness: no missing children, operator in
// the allowed set, atom names matching the identifier grammar.
func Validate(n Node) error {
	switch v := n.(type) {
	case nil:
		return errors.New("nil formula node")
	case Atom:
		if !atomName.MatchString(v.Name) {
			return fmt.Errorf("invalid atom name %q", v.Name)
		}
		return nil
	case Not:
		if v.Operand == nil {
			return errors.New("negation is missing its operand")
		}
		return Validate(v.Operand)
	case Binary:
		switch v.Op {
		case OpAnd, OpOr, OpImplies, OpIff:
		default:
			return fmt.Errorf("unknown binary operator %q", v.Op)
		}
		if v.Left == nil || v.Right == nil {
			return fmt.Errorf("%s node is missing a child", v.Op)
		}
		if err := Validate(v.Left); err != nil {
			return err
		}
		return Validate(v.Right)
	default:
		return fmt.Errorf("unknown node type %T", n)
	}
}

// Equal reports structural equality of two ASTs.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && x.Name == y.Name
	case Not:
		y, ok := b.(Not)
		return ok && Equal(x.Operand, y.Operand)
	case Binary:
		y, ok := b.(Binary)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	}
	return false
}

// Atoms returns the sorted set of atom names referenced by n. Negation does
// not change an atom's identity: Atoms(~X) is [X].
func Atoms(n Node) []string {
	set := make(map[string]struct{})
	collectAtoms(n, set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectAtoms(n Node, set map[string]struct{}) {
	switch v := n.(type) {
	case Atom:
		set[v.Name] = struct{}{}
	case Not:
		collectAtoms(v.Operand, set)
	case Binary:
		collectAtoms(v.Left, set)
		collectAtoms(v.Right, set)
	}
}

// CountNodes returns the number of AST nodes, for diagnostics.
func CountNodes(n Node) int {
	switch v := n.(type) {
	case Atom:
		return 1
	case Not:
		return 1 + CountNodes(v.Operand)
	case Binary:
		return 1 + CountNodes(v.Left) + CountNodes(v.Right)
	}
	return 0
}

// Depth returns the height of the AST, for diagnostics. An atom has depth 1.
func Depth(n Node) int {
	switch v := n.(type) {
	case Atom:
		return 1
	case Not:
		return 1 + Depth(v.Operand)
	case Binary:
		left, right := Depth(v.Left), Depth(v.Right)
		if left > right {
			return 1 + left
		}
		return 1 + right
	}
	return 0
}

// normalize collapses Not(Not(x)) into normalize(x), recursively. This is the
// only simplification applied to parsed formulas.
func normalize(n Node) Node {
	switch v := n.(type) {
	case Atom:
		return v
	case Not:
		if inner, ok := v.Operand.(Not); ok {
			return normalize(inner.Operand)
		}
		return Not{Operand: normalize(v.Operand)}
	case Binary:
		return Binary{Op: v.Op, Left: normalize(v.Left), Right: normalize(v.Right)}
	}
	return n
}

// StripDoubleNegation removes any leading run of "~~" pairs from a canonical
// formula string. It is a comparison aid for signatures and fast equality
// checks; it never alters stored formulas.
func StripDoubleNegation(s string) string {
	for strings.HasPrefix(s, "~~") {
		s = s[2:]
	}
	return s
}
