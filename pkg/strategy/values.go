package strategy

import (
	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
)

// rootReachPrior is the counterfactual reach seeded at the root for every
// metastate: a uniform joint prior over the 3 possible goals of the
// opponent AND the player's own goal (1/3 * 1/3), per spec.md 4.3/9.
const rootReachPrior = 1.0 / 9.0

// ExpectedValues computes, for every MetaState in the tree, the expected
// value for Player1 under strategy s and payoff vector v, evaluated in
// reverse topological order (leaves first). Terminal metastates are
// evaluated directly; non-terminal metastates average their children's
// values weighted by the current player's own action distribution (the
// opponent's goal stays frozen per metastate).
func ExpectedValues(tree *gametree.GameTree, s Strategy, v payoff.OutcomeValues) map[meta.MetaState]float64 {
	out := make(map[meta.MetaState]float64, tree.NumBoards()*9)
	for i := tree.NumBoards() - 1; i >= 0; i-- {
		id := gametree.ID(i)
		b := tree.Board(id)
		p1Sum, p2Sum := b.MoveSums()

		for _, ms := range meta.AllMetaStates(id) {
			if tree.IsTerminal(id) {
				outcome := tree.Outcome(id)
				out[ms] = payoff.EvaluateOutcome(v, ms.P1Goal, ms.P2Goal, outcome, p1Sum, p2Sum)
				continue
			}

			current := tree.CurrentPlayer(id)
			children := tree.Children(id)
			strat := s.Get(ms.InfoStateFor(current), len(children))

			val := 0.0
			for a, childID := range children {
				child := meta.MetaState{Board: childID, P1Goal: ms.P1Goal, P2Goal: ms.P2Goal}
				val += strat[a] * out[child]
			}
			out[ms] = val
		}
	}
	return out
}

// CounterfactualProbs computes, for every MetaState, the counterfactual
// reach of the player who is NOT about to act there: the probability of
// reaching that state under s, factoring out the acting player's own
// contribution (spec.md 4.3).
//
// Two parallel reach tracks are propagated forward from the root, one per
// player, each seeded at 1/9. reach1 accumulates only Player1's action
// probabilities along the path; reach2 accumulates only Player2's. At a
// node where Player P acts, reach_P is multiplied by P's action
// probability and reach_{other} is left unchanged. The value stored for a
// metastate is the reach track of the player who is NOT acting there.
func CounterfactualProbs(tree *gametree.GameTree, s Strategy) map[meta.MetaState]float64 {
	reach1 := make(map[meta.MetaState]float64, tree.NumBoards()*9)
	reach2 := make(map[meta.MetaState]float64, tree.NumBoards()*9)
	out := make(map[meta.MetaState]float64, tree.NumBoards()*9)

	for _, ms := range meta.AllMetaStates(gametree.Root) {
		reach1[ms] = rootReachPrior
		reach2[ms] = rootReachPrior
	}

	for i := 0; i < tree.NumBoards(); i++ {
		id := gametree.ID(i)
		if tree.IsTerminal(id) {
			continue
		}
		current := tree.CurrentPlayer(id)
		children := tree.Children(id)

		for _, ms := range meta.AllMetaStates(id) {
			r1 := reach1[ms]
			r2 := reach2[ms]

			if current == board.Player1 {
				out[ms] = r2
			} else {
				out[ms] = r1
			}

			strat := s.Get(ms.InfoStateFor(current), len(children))
			for a, childID := range children {
				child := meta.MetaState{Board: childID, P1Goal: ms.P1Goal, P2Goal: ms.P2Goal}
				if current == board.Player1 {
					reach1[child] = r1 * strat[a]
					reach2[child] = r2
				} else {
					reach1[child] = r1
					reach2[child] = r2 * strat[a]
				}
			}
		}
	}
	return out
}

// VisitProbs computes the unconditional reach of every MetaState: both
// players' action probabilities multiplied in along the path (unlike
// CounterfactualProbs, which factors out the acting player). Used by the
// multi-round fixed point to compute realized outcome distributions.
func VisitProbs(tree *gametree.GameTree, s Strategy) map[meta.MetaState]float64 {
	out := make(map[meta.MetaState]float64, tree.NumBoards()*9)
	for _, ms := range meta.AllMetaStates(gametree.Root) {
		out[ms] = rootReachPrior
	}

	for i := 0; i < tree.NumBoards(); i++ {
		id := gametree.ID(i)
		if tree.IsTerminal(id) {
			continue
		}
		current := tree.CurrentPlayer(id)
		children := tree.Children(id)

		for _, ms := range meta.AllMetaStates(id) {
			reach := out[ms]
			strat := s.Get(ms.InfoStateFor(current), len(children))
			for a, childID := range children {
				child := meta.MetaState{Board: childID, P1Goal: ms.P1Goal, P2Goal: ms.P2Goal}
				out[child] = reach * strat[a]
			}
		}
	}
	return out
}

// MetastateRegrets computes, for every non-terminal parent metastate and
// each action leading to a child, that child's counterfactual regret
// contribution: cf(parent) * (EV(child) - EV(parent)). The sign is flipped
// when Player2 is acting, since EV is always stored from Player1's
// perspective but regret must be oriented to the acting player.
func MetastateRegrets(tree *gametree.GameTree, ev, cf map[meta.MetaState]float64) map[meta.MetaState]float64 {
	out := make(map[meta.MetaState]float64, tree.NumBoards()*9)
	for i := 0; i < tree.NumBoards(); i++ {
		id := gametree.ID(i)
		if tree.IsTerminal(id) {
			continue
		}
		current := tree.CurrentPlayer(id)
		children := tree.Children(id)

		for _, ms := range meta.AllMetaStates(id) {
			parentValue := ev[ms]
			reach := cf[ms]
			sign := 1.0
			if current == board.Player2 {
				sign = -1.0
			}
			for _, childID := range children {
				child := meta.MetaState{Board: childID, P1Goal: ms.P1Goal, P2Goal: ms.P2Goal}
				out[child] = sign * reach * (ev[child] - parentValue)
			}
		}
	}
	return out
}
