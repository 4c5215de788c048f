package subgame

import (
	"github.com/behrlich/goalttt-solver/pkg/bestresponse"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// TightenResult holds the converged per-cell exploitability bounds the
// value-iteration tightening fixed point (spec.md 4.9) produces.
type TightenResult struct {
	MaxEV map[ScoreCell]float64
	MinEV map[ScoreCell]float64
}

// Exploitability returns max_EV - min_EV at cell, the per-cell
// exploitability report spec.md 4.9 names.
func (t *TightenResult) Exploitability(cell ScoreCell) float64 {
	return t.MaxEV[cell] - t.MinEV[cell]
}

// scoredProbs converts a spliced exploiter strategy's visit probabilities
// into the joint probability, over (p1scored, p2scored) in {0,1}^2, that
// each player realized their private goal this round.
func scoredProbs(tree *gametree.GameTree, spliced strategy.Strategy) (p00, p01, p10, p11 float64) {
	visits := strategy.VisitProbs(tree, spliced)
	for id := gametree.ID(0); int(id) < tree.NumBoards(); id++ {
		if !tree.IsTerminal(id) {
			continue
		}
		outcome := tree.Outcome(id)
		for _, ms := range meta.AllMetaStates(id) {
			p1Scored, p2Scored := ms.Realization(outcome)
			w := visits[ms]
			switch {
			case p1Scored && p2Scored:
				p11 += w
			case p1Scored:
				p10 += w
			case p2Scored:
				p01 += w
			default:
				p00 += w
			}
		}
	}
	return
}

// cellUpdate computes the direct_sum and transition_prob terms of one
// cell's Bellman-like value (combined by bellman) under an exploiter built
// from ev (max_EV when solving for the max-exploiter, min_EV for the
// min-exploiter), per spec.md 4.9's "Value-iteration tightening".
func cellUpdate(tree *gametree.GameTree, w int, cell ScoreCell, sigma strategy.Strategy, ev map[ScoreCell]float64, maximizing bool) (directSum, transitionProb float64) {
	v := ChildPayoff(ev, w, cell, 0)
	result := bestresponse.Compute(tree, sigma, v)

	var exploiter strategy.Strategy
	if maximizing {
		exploiter = strategy.Splice(result.BR, sigma, tree)
	} else {
		exploiter = strategy.Splice(sigma, result.BR, tree)
	}

	p00, p01, p10, p11 := scoredProbs(tree, exploiter)

	directSum = p01*ValueOfScore(ev, w, cell.P1, cell.P2+1) +
		p10*ValueOfScore(ev, w, cell.P1+1, cell.P2)

	transitionProb = p00
	if cell.P1 == w-1 && cell.P2 == w-1 {
		// Double-scoring no longer exits the cell at the winning-score
		// boundary: both "neither scores" and "both score" loop back.
		transitionProb += p11
	} else {
		directSum += p11 * ValueOfScore(ev, w, cell.P1+1, cell.P2+1)
	}

	return directSum, transitionProb
}

// Tighten runs the secondary max_EV/min_EV fixed point over every cell
// solved in result, seeding max_EV=-1, min_EV=+1 and only ever relaxing
// max_EV upward / min_EV downward, until a full sweep changes nothing or
// maxOuterIterations is reached.
func Tighten(tree *gametree.GameTree, result *MultiRoundResult, maxOuterIterations int) *TightenResult {
	w := result.Config.WinningScore
	maxEV := make(map[ScoreCell]float64, len(result.Sigma))
	minEV := make(map[ScoreCell]float64, len(result.Sigma))
	for cell := range result.Sigma {
		maxEV[cell] = -1
		minEV[cell] = 1
	}

	seen := make(map[ScoreCell]bool, len(result.Cells))
	var cells []ScoreCell
	for _, c := range result.Cells {
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}

	for iter := 0; iter < maxOuterIterations; iter++ {
		changed := false
		for _, cell := range cells {
			mirror := cell.Mirror()
			sigma := result.Sigma[cell]
			mirrorSigma := result.Sigma[mirror]
			if sigma == nil || mirrorSigma == nil {
				continue
			}

			maxDirect, maxTrans := cellUpdate(tree, w, cell, sigma, maxEV, true)
			maxDirectMirror, maxTransMirror := cellUpdate(tree, w, mirror, mirrorSigma, maxEV, true)
			newMax := bellman(maxDirect, maxDirectMirror, maxTrans, maxTransMirror)
			if newMax > maxEV[cell] {
				maxEV[cell] = newMax
				changed = true
			}

			minDirect, minTrans := cellUpdate(tree, w, cell, sigma, minEV, false)
			minDirectMirror, minTransMirror := cellUpdate(tree, w, mirror, mirrorSigma, minEV, false)
			newMin := bellman(minDirect, minDirectMirror, minTrans, minTransMirror)
			if newMin < minEV[cell] {
				minEV[cell] = newMin
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return &TightenResult{MaxEV: maxEV, MinEV: minEV}
}

// bellman solves the coupled pair V_a = directA - transA*V_b,
// V_b = directB - transB*V_a for V_a, per spec.md 4.9's closed-form
// substitution: V(p1,p2) = (direct_sum - other_sum*transition_prob) /
// (1 - transition*reverse_transition).
func bellman(directA, directB, transA, transB float64) float64 {
	denom := 1 - transA*transB
	if denom == 0 {
		return directA
	}
	return (directA - directB*transA) / denom
}
