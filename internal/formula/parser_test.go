package formula

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Precedence(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"A ∧ B ∨ C", "((A ∧ B) ∨ C)"},
		{"A ∨ B ∧ C", "(A ∨ (B ∧ C))"},
		{"A ∨ B → C", "((A ∨ B) → C)"},
		{"A → B → C", "(A → (B → C))"},
		{"A ↔ B ↔ C", "((A ↔ B) ↔ C)"},
		{"A ↔ B → C", "(A ↔ (B → C))"},
		{"~A ∧ B", "(~A ∧ B)"},
		{"~(A ∧ B)", "~(A ∧ B)"},
		{"A ∧ (B ∨ C)", "(A ∧ (B ∨ C))"},
		{"A", "A"},
		{"( A )", "A"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Canonical(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_OperatorAliases(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"A AND B", "(A ∧ B)"},
		{"A & B", "(A ∧ B)"},
		{"A OR B", "(A ∨ B)"},
		{"A | B", "(A ∨ B)"},
		{"A IMPLIES B", "(A → B)"},
		{"A -> B", "(A → B)"},
		{"A => B", "(A → B)"},
		{"A IFF B", "(A ↔ B)"},
		{"A <-> B", "(A ↔ B)"},
		{"A <=> B", "(A ↔ B)"},
		{"NOT A", "~A"},
		{"!A", "~A"},
		{"A<->B", "(A ↔ B)"},
		{"A->B->C", "(A → (B → C))"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Canonical(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_DoubleNegationCollapse(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"~~~~X", "X"},
		{"~~~X", "~X"},
		{"~~X", "X"},
		{"~X", "~X"},
		{"~~(A ∧ ~~B)", "(A ∧ B)"},
		{"NOT NOT A -> B", "(A → B)"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Canonical(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"A",
		"~A",
		"A AND B OR C",
		"(A -> B) <-> (~B -> ~A)",
		"CustomerIsVIP & PaymentProcessed => ProcessOrder",
		"~(A | ~B) -> C IFF D",
		"~~~Deep ∧ (X ∨ ~Y)",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Parse(input)
			require.NoError(t, err)
			again, err := Parse(first.String())
			require.NoError(t, err)
			assert.True(t, Equal(first, again), "round-trip changed the AST:\n%s", cmp.Diff(first.String(), again.String()))
			// Rendering is a fixed point after one parse.
			assert.Equal(t, first.String(), again.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantPos int
	}{
		{"unexpected character", "A @ B", 2},
		{"identifier starting with digit", "1abc", 0},
		{"unbalanced parenthesis", "(A ∧ B", 6},
		{"missing operand after operator", "A ∧", 3},
		{"leading binary operator", "∧ A", 0},
		{"trailing tokens", "A B", 2},
		{"stray closing parenthesis", ")", 0},
		{"empty input", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "want *SyntaxError, got %T", err)
			assert.Equal(t, tc.wantPos, syntaxErr.Pos)
		})
	}
}

func TestCanonical_PropagatesErrors(t *testing.T) {
	_, err := Canonical("A ∧ ∧ B")
	require.Error(t, err)
}

func TestMustParse_PanicsOnBadInput(t *testing.T) {
	assert.Panics(t, func() { MustParse("((") })
	assert.NotPanics(t, func() { MustParse("A -> B") })
}
