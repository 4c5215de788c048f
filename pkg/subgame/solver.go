// Package subgame drives the CFR engine to convergence against a fixed
// payoff vector (spec.md 4.8: the single-subgame solver) and composes that
// driver over a score grid to solve the multi-round fixed point (spec.md
// 4.9).
package subgame

import (
	"math"

	"github.com/pkg/errors"

	"github.com/behrlich/goalttt-solver/pkg/bestresponse"
	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// IterationReport is emitted after every CFR round, letting callers persist
// snapshots or print progress without the solver knowing about I/O.
type IterationReport struct {
	Iteration      int
	Sigma          strategy.Strategy
	Drift          float64
	EV             float64
	Exploitability float64 // NaN unless this iteration was checked
}

// Solver repeatedly calls cfr.Engine.Round against a (possibly decaying)
// payoff vector, per spec.md 4.8.
type Solver struct {
	Tree   *gametree.GameTree
	Engine *cfr.Engine
	Payoff payoff.OutcomeValues

	// CheckEvery, when > 0, checks exploitability every CheckEvery
	// iterations. MaxExploitability, when > 0, stops the run early once
	// a checked exploitability falls at or below it.
	CheckEvery        int
	MaxExploitability float64

	// EpsilonDecay, when nonzero, shrinks Payoff.FirstMoveEpsilon by a
	// factor of (1-EpsilonDecay) every iteration.
	EpsilonDecay float64

	// OnIteration, when non-nil, is called after each round (including
	// the final one), before the early-stop check.
	OnIteration func(IterationReport) error
}

// NewSolver builds a Solver with a fresh CFR engine and a uniform starting
// strategy is implied by Run's first call.
func NewSolver(tree *gametree.GameTree, v payoff.OutcomeValues, discount *cfr.DiscountParams, alternating bool) *Solver {
	engine := cfr.NewEngine(tree)
	engine.Discount = discount
	if alternating {
		engine.EnableAlternating()
	}
	return &Solver{Tree: tree, Engine: engine, Payoff: v}
}

// Run executes up to maxIterations CFR rounds starting from sigma (uniform
// if nil), stopping early once a checked exploitability is at or below
// MaxExploitability. It returns the final average strategy (or the final
// current strategy, if the engine has not accumulated an average yet) and
// the last report.
func (s *Solver) Run(maxIterations int, sigma strategy.Strategy) (strategy.Strategy, IterationReport, error) {
	if sigma == nil {
		sigma = strategy.Uniform(s.Tree)
	}
	currentPayoff := s.Payoff

	var last IterationReport
	for i := 0; i < maxIterations; i++ {
		prev := sigma
		sigma = s.Engine.Round(prev, currentPayoff)

		report := IterationReport{
			Iteration:      i,
			Sigma:          sigma,
			Drift:          prev.MaxDifference(sigma),
			Exploitability: math.NaN(),
		}
		report.EV = rootEV(s.Tree, sigma, currentPayoff)

		checked := s.CheckEvery > 0 && (i+1)%s.CheckEvery == 0
		if checked {
			evalStrategy := s.Engine.AverageStrategy
			if len(evalStrategy) == 0 {
				evalStrategy = sigma
			}
			report.Exploitability = bestresponse.Exploitability(s.Tree, evalStrategy, currentPayoff)
		}

		if s.OnIteration != nil {
			if err := s.OnIteration(report); err != nil {
				return sigma, report, errors.Wrap(err, "subgame: iteration callback failed")
			}
		}
		last = report

		if s.EpsilonDecay != 0 {
			currentPayoff = currentPayoff.Decayed(s.EpsilonDecay)
		}

		if checked && s.MaxExploitability > 0 && report.Exploitability <= s.MaxExploitability {
			break
		}
	}

	result := s.Engine.AverageStrategy
	if len(result) == 0 {
		result = sigma
	}
	return result, last, nil
}

func rootEV(tree *gametree.GameTree, s strategy.Strategy, v payoff.OutcomeValues) float64 {
	ev := strategy.ExpectedValues(tree, s, v)
	sum := 0.0
	for _, ms := range meta.AllMetaStates(gametree.Root) {
		sum += ev[ms]
	}
	return sum / 9.0
}
