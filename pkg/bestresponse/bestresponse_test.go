package bestresponse

import (
	"math"
	"testing"

	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

func buildTree(t *testing.T) *gametree.GameTree {
	t.Helper()
	tree, err := gametree.Build()
	if err != nil {
		t.Fatalf("gametree.Build() error: %v", err)
	}
	return tree
}

func rootEV(tree *gametree.GameTree, s strategy.Strategy, v payoff.OutcomeValues) float64 {
	ev := strategy.ExpectedValues(tree, s, v)
	sum := 0.0
	for _, ms := range meta.AllMetaStates(gametree.Root) {
		sum += ev[ms]
	}
	return sum / 9.0
}

// Property 6 (spec.md 8): best-response extremality. EV at the root of
// sigma_p2_exploiter >= EV(sigma), and EV of sigma_p1_exploiter <= EV(sigma).
func TestBestResponseExtremality(t *testing.T) {
	tree := buildTree(t)
	sigma := strategy.Uniform(tree)
	v := payoff.Default

	base := rootEV(tree, sigma, v)

	result := Compute(tree, sigma, v)
	p1Exploiter := strategy.Splice(sigma, result.BR, tree)
	p2Exploiter := strategy.Splice(result.BR, sigma, tree)

	evP1Exploiter := rootEV(tree, p1Exploiter, v)
	evP2Exploiter := rootEV(tree, p2Exploiter, v)

	const tol = 1e-9
	if evP2Exploiter < base-tol {
		t.Fatalf("EV(p2 exploiter)=%v should be >= EV(sigma)=%v", evP2Exploiter, base)
	}
	if evP1Exploiter > base+tol {
		t.Fatalf("EV(p1 exploiter)=%v should be <= EV(sigma)=%v", evP1Exploiter, base)
	}
}

func TestExploitabilityNonNegative(t *testing.T) {
	tree := buildTree(t)
	sigma := strategy.Uniform(tree)
	exp := Exploitability(tree, sigma, payoff.Default)
	if exp < 0 || math.IsNaN(exp) {
		t.Fatalf("exploitability = %v, want a finite non-negative number", exp)
	}
}

// Every row of the best response is a single one-hot action over that
// board's children.
func TestBestResponseOneHot(t *testing.T) {
	tree := buildTree(t)
	sigma := strategy.Uniform(tree)
	result := Compute(tree, sigma, payoff.Default)

	for is, row := range result.BR {
		n := strategy.NumActions(tree, is.Board)
		if len(row) != n {
			t.Fatalf("BR row at %v has length %d, want %d", is, len(row), n)
		}
		sum := 0.0
		ones := 0
		for _, p := range row {
			if p != 0 && p != 1 {
				t.Fatalf("BR row at %v is not one-hot: %v", is, row)
			}
			if p == 1 {
				ones++
			}
			sum += p
		}
		if ones != 1 || math.Abs(sum-1) > 1e-12 {
			t.Fatalf("BR row at %v is not a single one-hot action: %v", is, row)
		}
	}
}
