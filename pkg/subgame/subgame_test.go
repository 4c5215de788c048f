package subgame

import (
	"math"
	"testing"

	"github.com/behrlich/goalttt-solver/pkg/gametree"
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

func TestValueOfScoreTerminalCases(t *testing.T) {
	ev := map[ScoreCell]float64{{1, 1}: 0.25}
	w := 2

	if got := ValueOfScore(ev, w, 2, 2); got != -0.25 {
		t.Fatalf("double-over collapse: got %v, want -0.25", got)
	}
	if got := ValueOfScore(ev, w, 2, 0); got != 1 {
		t.Fatalf("p1 won: got %v, want 1", got)
	}
	if got := ValueOfScore(ev, w, 0, 2); got != -1 {
		t.Fatalf("p2 won: got %v, want -1", got)
	}
	ev[ScoreCell{0, 1}] = 0.5
	if got := ValueOfScore(ev, w, 1, 0); got != -0.5 {
		t.Fatalf("mirror lookup: got %v, want -0.5", got)
	}
}

func TestSolverRunStaysOnSimplex(t *testing.T) {
	tree := buildTree(t)
	solver := NewSolver(tree, payoff.Default, nil, false)
	sigma, report, err := solver.Run(20, nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Iteration != 19 {
		t.Fatalf("last report iteration = %d, want 19", report.Iteration)
	}
	for is, row := range sigma {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("row at %v sums to %v, want 1", is, sum)
		}
	}
}

// A small winning-score-1 grid has a single cell, (0,0), whose mirror is
// itself: exercises the self-mirrored branch of the cell-pair loop.
func TestSolveMultiRoundSingleCell(t *testing.T) {
	tree := buildTree(t)
	cfg := MultiRoundConfig{
		WinningScore:             1,
		IterationsPerCell:        15,
		CheckExploitabilityEvery: 5,
		MaxSubgameExploitability: 0, // run the full budget, no early stop
		InnerPairRounds:          1,
	}
	result, err := SolveMultiRound(tree, cfg)
	if err != nil {
		t.Fatalf("SolveMultiRound error: %v", err)
	}
	cell := ScoreCell{0, 0}
	if _, ok := result.EV[cell]; !ok {
		t.Fatalf("expected cell (0,0) to be solved")
	}
	if _, ok := result.Sigma[cell]; !ok {
		t.Fatalf("expected cell (0,0) to have a strategy")
	}
}

func TestTightenProducesOrderedBounds(t *testing.T) {
	tree := buildTree(t)
	cfg := MultiRoundConfig{
		WinningScore:             1,
		IterationsPerCell:        15,
		CheckExploitabilityEvery: 5,
		InnerPairRounds:          1,
	}
	result, err := SolveMultiRound(tree, cfg)
	if err != nil {
		t.Fatalf("SolveMultiRound error: %v", err)
	}
	tightened := Tighten(tree, result, 25)
	cell := ScoreCell{0, 0}
	maxEV, minEV := tightened.MaxEV[cell], tightened.MinEV[cell]
	if math.IsNaN(maxEV) || math.IsNaN(minEV) || maxEV < -1-1e-9 || minEV > 1+1e-9 {
		t.Fatalf("max_EV=%v, min_EV=%v out of the expected [-1,1] range", maxEV, minEV)
	}
}
