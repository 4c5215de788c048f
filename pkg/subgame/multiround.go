package subgame

import (
	"math"

	"github.com/pkg/errors"

	"github.com/behrlich/goalttt-solver/pkg/bestresponse"
	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// ScoreCell identifies a subgame by each player's current score, per
// spec.md 3.
type ScoreCell struct {
	P1, P2 int
}

// Mirror swaps the two scores, the cell reached by exchanging players.
func (c ScoreCell) Mirror() ScoreCell { return ScoreCell{P1: c.P2, P2: c.P1} }

// ValueOfScore is spec.md 4.9's scalar recurrence: the value (for Player1)
// of reaching score (s1, s2) under winning score w, given the current EV
// table of already-solved cells.
func ValueOfScore(ev map[ScoreCell]float64, w, s1, s2 int) float64 {
	switch {
	case s1 >= w && s2 >= w:
		return -ev[ScoreCell{w - 1, w - 1}]
	case s1 >= w && s2 < w:
		return 1
	case s1 < w && s2 >= w:
		return -1
	default:
		return -ev[ScoreCell{s2, s1}]
	}
}

// ChildPayoff builds the OutcomeValues a cell's subgame is solved under:
// each of the four terminal realizations maps to the scalar value of the
// score cell it leads to next round.
func ChildPayoff(ev map[ScoreCell]float64, w int, cell ScoreCell, epsilon float64) payoff.OutcomeValues {
	p1, p2 := cell.P1, cell.P2
	return payoff.OutcomeValues{
		BothWin:          ValueOfScore(ev, w, p1+1, p2+1),
		P1Win:            ValueOfScore(ev, w, p1+1, p2),
		P2Win:            ValueOfScore(ev, w, p1, p2+1),
		BothLose:         ValueOfScore(ev, w, p1, p2),
		FirstMoveEpsilon: epsilon,
	}
}

// MultiRoundConfig parameterizes the score-grid solve.
type MultiRoundConfig struct {
	WinningScore              int
	IterationsPerCell         int
	CheckExploitabilityEvery  int
	MaxSubgameExploitability  float64
	Epsilon                   float64
	EpsilonDecay              float64
	Discount                  *cfr.DiscountParams
	AlternateUpdates          bool

	// InnerPairRounds bounds the number of times a mirrored pair of cells
	// ((p1,p2) and (p2,p1), whose payoffs reference each other's EV) is
	// re-solved against each other's latest EV estimate before moving on.
	// The pair's own-cell recurrence (the both_lose branch referencing the
	// mirror's EV) is otherwise circular within a single solve; this inner
	// loop is this implementation's fixed point for that circularity.
	InnerPairRounds int

	// OnCellSolved, when non-nil, is invoked once a cell's CFR run
	// finishes, letting callers persist its engine/strategy.
	OnCellSolved func(cell ScoreCell, engine *cfr.Engine, sigma strategy.Strategy, report IterationReport) error
}

// MultiRoundResult holds the converged per-cell EV, strategy and engine
// state produced by SolveMultiRound.
type MultiRoundResult struct {
	Config   MultiRoundConfig
	EV       map[ScoreCell]float64
	Sigma    map[ScoreCell]strategy.Strategy
	Engines  map[ScoreCell]*cfr.Engine
	Cells    []ScoreCell // in solve order
}

// SolveMultiRound solves every cell of the {0..W-1}^2 score grid in
// reverse order of max-coordinate, per spec.md 4.9.
func SolveMultiRound(tree *gametree.GameTree, cfg MultiRoundConfig) (*MultiRoundResult, error) {
	w := cfg.WinningScore
	if w <= 0 {
		return nil, errors.Errorf("subgame: winning score must be positive, got %d", w)
	}
	if cfg.InnerPairRounds <= 0 {
		cfg.InnerPairRounds = 3
	}

	result := &MultiRoundResult{
		Config:  cfg,
		EV:      make(map[ScoreCell]float64),
		Sigma:   make(map[ScoreCell]strategy.Strategy),
		Engines: make(map[ScoreCell]*cfr.Engine),
	}

	solveCell := func(cell ScoreCell) error {
		v := ChildPayoff(result.EV, w, cell, cfg.Epsilon)
		solver := NewSolver(tree, v, cfg.Discount, cfg.AlternateUpdates)
		solver.CheckEvery = cfg.CheckExploitabilityEvery
		solver.MaxExploitability = cfg.MaxSubgameExploitability
		solver.EpsilonDecay = cfg.EpsilonDecay

		sigma, lastReport, err := solver.Run(cfg.IterationsPerCell, nil)
		if err != nil {
			return errors.Wrapf(err, "subgame: solving cell (%d,%d)", cell.P1, cell.P2)
		}

		result.EV[cell] = lastReport.EV
		result.Sigma[cell] = sigma
		result.Engines[cell] = solver.Engine

		if cfg.OnCellSolved != nil {
			if err := cfg.OnCellSolved(cell, solver.Engine, sigma, lastReport); err != nil {
				return errors.Wrapf(err, "subgame: cell callback for (%d,%d)", cell.P1, cell.P2)
			}
		}
		return nil
	}

	for larger := w - 1; larger >= 0; larger-- {
		for smaller := larger; smaller >= 0; smaller-- {
			a := ScoreCell{P1: larger, P2: smaller}
			b := ScoreCell{P1: smaller, P2: larger}

			for round := 0; round < cfg.InnerPairRounds; round++ {
				if err := solveCell(a); err != nil {
					return nil, err
				}
				result.Cells = append(result.Cells, a)
				if a == b {
					break
				}
				if err := solveCell(b); err != nil {
					return nil, err
				}
				result.Cells = append(result.Cells, b)
			}
		}
	}

	return result, nil
}

// MeanExploitability reports |EV(sigma_p2_exploiter) - EV(sigma_p1_exploiter)|
// for the grand-total overall solve: the mean absolute exploitability
// across every solved cell, used as the multi-round driver's final report.
func (r *MultiRoundResult) MeanExploitability(tree *gametree.GameTree) float64 {
	if len(r.Cells) == 0 {
		return math.NaN()
	}
	seen := make(map[ScoreCell]bool, len(r.Cells))
	sum := 0.0
	n := 0
	for _, cell := range r.Cells {
		if seen[cell] {
			continue
		}
		seen[cell] = true
		v := ChildPayoff(r.EV, r.Config.WinningScore, cell, 0)
		sum += bestresponse.Exploitability(tree, r.Sigma[cell], v)
		n++
	}
	return sum / float64(n)
}
