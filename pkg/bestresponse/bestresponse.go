// Package bestresponse computes the exact best response of each player
// against a fixed strategy, and the exploitability bound it yields
// (spec.md 4.7).
package bestresponse

import (
	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// Strategy is an alias so callers don't need to import pkg/strategy just
// to name the type.
type Strategy = strategy.Strategy

// Result holds the combined best-response Strategy (one-hot rows at every
// non-terminal InfoState, for whichever player owns that node) along with
// the InfoState-level aggregated values Pass 1 accumulates, exposed for
// diagnostics.
type Result struct {
	// BR is a single combined Strategy: at a board owned by Player P, BR's
	// row is P's best deviation against sigma. Splicing BR in for one
	// player's rows (keeping sigma for the other) produces that player's
	// exploiter strategy.
	BR Strategy

	// ActiveValue[is] is the normalized best-response value at an
	// InfoState where that player is the mover (Pass 1's "active" table).
	ActiveValue map[meta.InfoState]float64
	// PassiveValue[is] is the normalized sigma-weighted value at an
	// InfoState where that player is NOT the mover (Pass 1's "passive"
	// table), averaged over the mover's hidden goal.
	PassiveValue map[meta.InfoState]float64
}

// Compute runs the two-pass best-response algorithm. For every metastate it
// maintains two value tracks, both expressed on Player1's payoff scale:
// value1 is the value when Player1 deviates optimally against sigma and
// Player2 follows sigma; value2 is the value when Player2 deviates and
// Player1 follows sigma. At a board owned by Player P, track P is "active"
// (Pass 1 aggregates it per InfoState over the opponent's hidden goal,
// weighted by sigma's counterfactual reach, then Pass 2 extremizes over
// actions and extracts a one-hot row) while the other track is "passive"
// (a plain sigma-weighted average over actions, also aggregated per
// InfoState purely for reporting).
func Compute(tree *gametree.GameTree, sigma strategy.Strategy, v payoff.OutcomeValues) Result {
	cf := strategy.CounterfactualProbs(tree, sigma)

	value1 := make(map[meta.MetaState]float64, tree.NumBoards()*9)
	value2 := make(map[meta.MetaState]float64, tree.NumBoards()*9)

	br := make(Strategy)
	activeValue := make(map[meta.InfoState]float64)
	passiveValue := make(map[meta.InfoState]float64)

	for i := tree.NumBoards() - 1; i >= 0; i-- {
		id := gametree.ID(i)
		b := tree.Board(id)
		p1Sum, p2Sum := b.MoveSums()

		if tree.IsTerminal(id) {
			outcome := tree.Outcome(id)
			for _, ms := range meta.AllMetaStates(id) {
				val := payoff.EvaluateOutcome(v, ms.P1Goal, ms.P2Goal, outcome, p1Sum, p2Sum)
				value1[ms] = val
				value2[ms] = val
			}
			continue
		}

		current := tree.CurrentPlayer(id)
		children := tree.Children(id)
		n := len(children)

		// Pass 1: accumulate the active player's per-action, per-InfoState
		// weighted sums, and compute the passive player's per-metastate
		// sigma-weighted value directly (no action choice is made there).
		activeSum := make(map[meta.InfoState][]float64)
		activeWeight := make(map[meta.InfoState]float64)
		passiveSum := make(map[meta.InfoState]float64)
		passiveWeight := make(map[meta.InfoState]float64)

		activePlayer := current
		passivePlayer := current.Other()

		activeValueAt := value1
		passiveValueAt := value2
		if current == board.Player2 {
			activeValueAt, passiveValueAt = value2, value1
		}

		for _, ms := range meta.AllMetaStates(id) {
			w := cf[ms]

			is := ms.InfoStateFor(activePlayer)
			row, ok := activeSum[is]
			if !ok {
				row = make([]float64, n)
				activeSum[is] = row
			}
			activeWeight[is] += w
			for a, childID := range children {
				child := meta.MetaState{Board: childID, P1Goal: ms.P1Goal, P2Goal: ms.P2Goal}
				row[a] += w * activeValueAt[child]
			}

			passiveIs := ms.InfoStateFor(passivePlayer)
			sigRow := sigma.Get(passiveIs, n)
			val := 0.0
			for a, childID := range children {
				child := meta.MetaState{Board: childID, P1Goal: ms.P1Goal, P2Goal: ms.P2Goal}
				val += sigRow[a] * passiveValueAt[child]
			}
			passiveValueAt[ms] = val
			passiveWeight[passiveIs] += w
			passiveSum[passiveIs] += w * val
		}

		// Pass 2: normalize and extremize per InfoState, record the
		// one-hot best-response row, then backfill each metastate's
		// active value from the chosen action's child.
		chosenAction := make(map[meta.InfoState]int, len(activeSum))
		for is, row := range activeSum {
			w := activeWeight[is]
			best := 0
			bestVal := 0.0
			if w > 0 {
				bestVal = row[0] / w
				for a := 1; a < len(row); a++ {
					val := row[a] / w
					if activePlayer == board.Player1 {
						if val > bestVal {
							bestVal, best = val, a
						}
					} else if val < bestVal {
						bestVal, best = val, a
					}
				}
			}
			chosenAction[is] = best
			activeValue[is] = bestVal

			strat := make([]float64, n)
			strat[best] = 1
			br[is] = strat
		}
		for is, w := range passiveWeight {
			if w != 0 {
				passiveValue[is] = passiveSum[is] / w
			}
		}

		for _, ms := range meta.AllMetaStates(id) {
			is := ms.InfoStateFor(activePlayer)
			a := chosenAction[is]
			child := meta.MetaState{Board: children[a], P1Goal: ms.P1Goal, P2Goal: ms.P2Goal}
			activeValueAt[ms] = activeValueAt[child]
		}
	}

	return Result{BR: br, ActiveValue: activeValue, PassiveValue: passiveValue}
}

// Exploitability computes the exploitability bound of sigma: with br the
// combined best response against it, p1Exploiter splices sigma in for
// Player1's rows and br for Player2's (Player2 exploits Player1), and
// p2Exploiter splices br in for Player1's rows and sigma for Player2's
// (Player1 exploits Player2). The exploitability is the absolute
// difference of their root expected values, averaged over the 9
// (p1goal, p2goal) root metastates (spec.md 4.7).
func Exploitability(tree *gametree.GameTree, sigma strategy.Strategy, v payoff.OutcomeValues) float64 {
	result := Compute(tree, sigma, v)
	br := result.BR

	p1Exploiter := strategy.Splice(sigma, br, tree)
	p2Exploiter := strategy.Splice(br, sigma, tree)

	evP1 := strategy.ExpectedValues(tree, p1Exploiter, v)
	evP2 := strategy.ExpectedValues(tree, p2Exploiter, v)

	diff := 0.0
	for _, ms := range meta.AllMetaStates(gametree.Root) {
		diff += evP2[ms] - evP1[ms]
	}
	diff /= 9.0
	if diff < 0 {
		diff = -diff
	}
	return diff
}
