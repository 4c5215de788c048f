// Package cfr implements the counterfactual regret minimization engine of
// spec.md 4.5: per-iteration regret updates, regret matching, a
// time-weighted average strategy, and optional CFR+/DCFR-style discounting
// with alternating-player updates.
package cfr

import (
	"math"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// DiscountParams is the (alpha, beta, gamma) CFR+/DCFR-family schedule:
// alpha damps positive regrets, beta damps negative regrets (beta=0
// halves accumulated negative regrets every round), gamma governs the
// running average's weight.
type DiscountParams struct {
	Alpha, Beta, Gamma float64
}

// Engine holds the mutable CFR solver state for a single tree: the
// running regret totals, the time-weighted average strategy, the
// iteration counter, and the optional discount/alternation configuration.
type Engine struct {
	Tree *gametree.GameTree

	TotalRegrets    strategy.InfoStateRegrets
	AverageStrategy strategy.Strategy
	T               int

	// Discount is nil for plain (undiscounted) CFR.
	Discount *DiscountParams
	// PlayerToUpdate is nil unless alternating updates are enabled, in
	// which case it names whose rows update this round and flips every
	// round.
	PlayerToUpdate *board.Player
}

// NewEngine creates a fresh CFR engine over tree with empty regret/average
// tables. Configure Discount and PlayerToUpdate (via EnableAlternating)
// before the first Round call.
func NewEngine(tree *gametree.GameTree) *Engine {
	return &Engine{
		Tree:            tree,
		TotalRegrets:    make(strategy.InfoStateRegrets),
		AverageStrategy: make(strategy.Strategy),
	}
}

// EnableAlternating turns on alternating-player updates, starting with
// Player1 updating in the next round.
func (e *Engine) EnableAlternating() {
	p := board.Player1
	e.PlayerToUpdate = &p
}

// Round runs one CFR update given the current strategy sigma and payoff
// vector v, per spec.md 4.5 steps 1-10, and returns sigma_{t+1}.
func (e *Engine) Round(sigma strategy.Strategy, v payoff.OutcomeValues) strategy.Strategy {
	ev := strategy.ExpectedValues(e.Tree, sigma, v)
	cf := strategy.CounterfactualProbs(e.Tree, sigma)
	metaRegrets := strategy.MetastateRegrets(e.Tree, ev, cf)
	infoRegrets := strategy.FromMetastateRegrets(metaRegrets, e.Tree)

	if e.Discount != nil {
		e.TotalRegrets.Discount(e.Tree, e.PlayerToUpdate, e.Discount.Alpha, e.Discount.Beta, e.T)
	}

	infoRegrets = infoRegrets.ForPlayer(e.Tree, e.PlayerToUpdate)
	e.TotalRegrets.Add(infoRegrets)

	sigmaNext := e.TotalRegrets.RegretMatchingStrategy()

	e.updateAverageStrategy(sigmaNext)
	e.advance()

	return sigmaNext
}

// updateAverageStrategy folds sigmaNext into the running gamma-weighted
// mean, restricted to the updating player's rows when alternating.
func (e *Engine) updateAverageStrategy(sigmaNext strategy.Strategy) {
	gamma := 1.0
	if e.Discount != nil {
		gamma = e.Discount.Gamma
	}

	ratio := 0.0
	if e.T > 0 {
		ratio = math.Pow(float64(e.T)/float64(e.T+1), gamma)
	}

	for is, v := range sigmaNext {
		if e.PlayerToUpdate != nil && e.Tree.CurrentPlayer(is.Board) != *e.PlayerToUpdate {
			continue
		}
		avg, ok := e.AverageStrategy[is]
		if !ok {
			avg = make([]float64, len(v))
			e.AverageStrategy[is] = avg
		}
		for i := range v {
			avg[i] = ratio*avg[i] + (1-ratio)*v[i]
		}
	}
}

// advance moves the iteration counter and flips PlayerToUpdate. In
// alternating mode, t only advances when the just-updated player was
// Player2 (so a full round pairs one Player1 update with one Player2
// update); otherwise t always advances.
func (e *Engine) advance() {
	if e.PlayerToUpdate == nil {
		e.T++
		return
	}
	justUpdated := *e.PlayerToUpdate
	if justUpdated == board.Player2 {
		e.T++
	}
	next := justUpdated.Other()
	e.PlayerToUpdate = &next
}
