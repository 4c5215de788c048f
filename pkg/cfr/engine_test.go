package cfr

import (
	"math"
	"testing"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/bestresponse"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
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

func TestRoundProducesSimplex(t *testing.T) {
	tree := buildTree(t)
	e := NewEngine(tree)
	sigma := strategy.Uniform(tree)

	for i := 0; i < 10; i++ {
		sigma = e.Round(sigma, payoff.Default)
	}

	for is, row := range sigma {
		sum := 0.0
		for _, p := range row {
			if p < -1e-12 {
				t.Fatalf("negative probability at %v: %v", is, row)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("action vector at %v sums to %v, want 1", is, sum)
		}
	}
	if e.T != 10 {
		t.Fatalf("T = %d, want 10", e.T)
	}
}

func TestAlternatingUpdatesFlipAndPairUp(t *testing.T) {
	tree := buildTree(t)
	e := NewEngine(tree)
	e.EnableAlternating()
	sigma := strategy.Uniform(tree)

	if *e.PlayerToUpdate != board.Player1 {
		t.Fatalf("expected Player1 to update first")
	}

	sigma = e.Round(sigma, payoff.Default)
	if e.T != 0 {
		t.Fatalf("T = %d after Player1's round, want 0 (pairs with Player2)", e.T)
	}
	if *e.PlayerToUpdate != board.Player2 {
		t.Fatalf("expected Player2 to update next")
	}

	sigma = e.Round(sigma, payoff.Default)
	if e.T != 1 {
		t.Fatalf("T = %d after Player2's round, want 1", e.T)
	}
	if *e.PlayerToUpdate != board.Player1 {
		t.Fatalf("expected Player1 to update again")
	}
}

func TestDiscountedRegretsStayFinite(t *testing.T) {
	tree := buildTree(t)
	e := NewEngine(tree)
	e.Discount = &DiscountParams{Alpha: 1.5, Beta: 0, Gamma: 2}
	sigma := strategy.Uniform(tree)

	for i := 0; i < 20; i++ {
		sigma = e.Round(sigma, payoff.Default)
	}

	for is, row := range e.TotalRegrets {
		for _, r := range row {
			if math.IsNaN(r) || math.IsInf(r, 0) {
				t.Fatalf("regret at %v is not finite: %v", is, row)
			}
		}
	}
}

// Property 7 (spec.md 8, trend form): under CFR+ (alpha=1.5, beta=0,
// gamma=2) the exploitability of the average strategy trends down over a
// coarse window, even if not monotonically at every single step.
func TestExploitabilityTrendsDownUnderCFRPlus(t *testing.T) {
	tree := buildTree(t)
	e := NewEngine(tree)
	e.Discount = &DiscountParams{Alpha: 1.5, Beta: 0, Gamma: 2}
	sigma := strategy.Uniform(tree)

	const window = 25
	const windows = 4

	var means []float64
	for w := 0; w < windows; w++ {
		sum := 0.0
		for i := 0; i < window; i++ {
			sigma = e.Round(sigma, payoff.Default)
			avg := e.AverageStrategy
			if len(avg) == 0 {
				avg = sigma
			}
			sum += bestresponse.Exploitability(tree, avg, payoff.Default)
		}
		means = append(means, sum/window)
	}

	if means[len(means)-1] > means[0]+0.05 {
		t.Fatalf("exploitability trend did not decrease: %v", means)
	}
}
