// Package strategy implements the probability-table algebra of spec.md 4.3:
// Strategy (InfoState -> action distribution) and the evaluation,
// counterfactual-reach, regret, splice and visit-probability operations
// built on top of it.
package strategy

import (
	"math"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
)

// Strategy maps InfoState to a probability vector over that board's
// children, in the same order as gametree.GameTree.Children.
type Strategy map[meta.InfoState][]float64

// NumActions returns the number of legal actions (children) at a board id.
func NumActions(tree *gametree.GameTree, id gametree.ID) int {
	return len(tree.Children(id))
}

// Get returns the action distribution at is, or a uniform distribution
// over n actions if is is absent (matching the "uniform at uninformed
// non-terminal nodes" invariant of spec.md 3).
func (s Strategy) Get(is meta.InfoState, n int) []float64 {
	if v, ok := s[is]; ok {
		return v
	}
	return uniformVector(n)
}

func uniformVector(n int) []float64 {
	v := make([]float64, n)
	if n == 0 {
		return v
	}
	p := 1.0 / float64(n)
	for i := range v {
		v[i] = p
	}
	return v
}

// Uniform returns a Strategy with 1/|children| at every InfoState reachable
// in tree, for all three goals at every non-terminal board.
func Uniform(tree *gametree.GameTree) Strategy {
	s := make(Strategy)
	for i := 0; i < tree.NumBoards(); i++ {
		id := gametree.ID(i)
		if tree.IsTerminal(id) {
			continue
		}
		n := NumActions(tree, id)
		for _, g := range meta.Goals {
			is := meta.InfoState{Board: id, Goal: g}
			s[is] = uniformVector(n)
		}
	}
	return s
}

// Splice returns a Strategy that takes Player1 rows from p1Strategy and
// Player2 rows from p2Strategy, keyed by which player is to act at each
// InfoState's board.
func Splice(p1Strategy, p2Strategy Strategy, tree *gametree.GameTree) Strategy {
	out := make(Strategy)
	for i := 0; i < tree.NumBoards(); i++ {
		id := gametree.ID(i)
		if tree.IsTerminal(id) {
			continue
		}
		n := NumActions(tree, id)
		player := tree.CurrentPlayer(id)
		for _, g := range meta.Goals {
			is := meta.InfoState{Board: id, Goal: g}
			if player == board.Player1 {
				out[is] = p1Strategy.Get(is, n)
			} else {
				out[is] = p2Strategy.Get(is, n)
			}
		}
	}
	return out
}

// MaxDifference returns the l-infinity distance between s and other over
// their shared InfoStates.
func (s Strategy) MaxDifference(other Strategy) float64 {
	max := 0.0
	for is, v := range s {
		ov, ok := other[is]
		if !ok {
			continue
		}
		for i := range v {
			d := math.Abs(v[i] - ov[i])
			if d > max {
				max = d
			}
		}
	}
	return max
}
