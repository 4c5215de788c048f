package strategy

import (
	"math"
	"testing"

	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
)

func buildTree(t *testing.T) *gametree.GameTree {
	t.Helper()
	tree, err := gametree.Build()
	if err != nil {
		t.Fatalf("gametree.Build() error: %v", err)
	}
	return tree
}

// Property 3 (spec.md 8): every action vector sums to 1 and is nonnegative.
func TestUniformIsSimplex(t *testing.T) {
	tree := buildTree(t)
	s := Uniform(tree)
	for is, v := range s {
		sum := 0.0
		for _, p := range v {
			if p < 0 {
				t.Fatalf("negative probability at %v", is)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("action vector at %v sums to %f, want 1", is, sum)
		}
	}
}

// Property 4 (spec.md 8): all-non-positive regrets yield a uniform
// regret-matching strategy.
func TestRegretMatchingUniformWhenNonPositive(t *testing.T) {
	tree := buildTree(t)
	regrets := make(InfoStateRegrets)
	for i := 0; i < tree.NumBoards(); i++ {
		id := gametree.ID(i)
		if tree.IsTerminal(id) {
			continue
		}
		n := NumActions(tree, id)
		for _, g := range meta.Goals {
			is := meta.InfoState{Board: id, Goal: g}
			row := make([]float64, n)
			for i := range row {
				row[i] = -float64(i)
			}
			regrets[is] = row
		}
	}
	strat := regrets.RegretMatchingStrategy()
	for is, v := range strat {
		n := len(v)
		want := 1.0 / float64(n)
		for _, p := range v {
			if math.Abs(p-want) > 1e-12 {
				t.Fatalf("expected uniform strategy at %v, got %v", is, v)
			}
		}
	}
}

func TestExpectedValuesRootIsFinite(t *testing.T) {
	tree := buildTree(t)
	s := Uniform(tree)
	ev := ExpectedValues(tree, s, payoff.Default)
	for _, ms := range meta.AllMetaStates(gametree.Root) {
		v, ok := ev[ms]
		if !ok {
			t.Fatalf("missing EV for root metastate %v", ms)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("EV at %v is not finite: %v", ms, v)
		}
	}
}

func TestCounterfactualProbsRootSeededAtNinth(t *testing.T) {
	tree := buildTree(t)
	s := Uniform(tree)
	cf := CounterfactualProbs(tree, s)
	for _, ms := range meta.AllMetaStates(gametree.Root) {
		v := cf[ms]
		if math.Abs(v-1.0/9.0) > 1e-12 {
			t.Fatalf("root counterfactual reach = %v, want 1/9", v)
		}
	}
}

func TestSpliceTakesPlayerRows(t *testing.T) {
	tree := buildTree(t)
	s1 := Uniform(tree)
	s2 := Uniform(tree)
	// Perturb s2 so we can tell splice picked it up for Player2 boards.
	for is, v := range s2 {
		if tree.CurrentPlayer(is.Board).String() == "P2" {
			v[0] = 1
			for i := 1; i < len(v); i++ {
				v[i] = 0
			}
		}
	}
	spliced := Splice(s1, s2, tree)
	for is, v := range spliced {
		if tree.CurrentPlayer(is.Board).String() == "P2" {
			if v[0] != 1 {
				t.Fatalf("expected Player2 row to come from s2 at %v", is)
			}
		}
	}
}
