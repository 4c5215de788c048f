package strategy

import (
	"math"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
)

// InfoStateRegrets maps InfoState to a signed regret vector over that
// board's actions, indexed the same way Strategy is (spec.md 3/4.4).
type InfoStateRegrets map[meta.InfoState][]float64

// FromMetastateRegrets marginalizes the hidden opponent-goal variable: for
// each InfoState (b, g), action a's regret is the sum over the opponent's
// three possible goals of the corresponding child metastate's regret.
func FromMetastateRegrets(metaRegrets map[meta.MetaState]float64, tree *gametree.GameTree) InfoStateRegrets {
	out := make(InfoStateRegrets)
	for i := 0; i < tree.NumBoards(); i++ {
		id := gametree.ID(i)
		if tree.IsTerminal(id) {
			continue
		}
		current := tree.CurrentPlayer(id)
		children := tree.Children(id)
		n := len(children)

		for _, ms := range meta.AllMetaStates(id) {
			ownGoal := ms.P1Goal
			if current == board.Player2 {
				ownGoal = ms.P2Goal
			}
			is := meta.InfoState{Board: id, Goal: ownGoal}
			row, ok := out[is]
			if !ok {
				row = make([]float64, n)
				out[is] = row
			}
			for a, childID := range children {
				child := meta.MetaState{Board: childID, P1Goal: ms.P1Goal, P2Goal: ms.P2Goal}
				row[a] += metaRegrets[child]
			}
		}
	}
	return out
}

// Add accumulates other into r element-wise, in place, creating zero rows
// on first touch.
func (r InfoStateRegrets) Add(other InfoStateRegrets) {
	for is, row := range other {
		existing, ok := r[is]
		if !ok {
			existing = make([]float64, len(row))
			r[is] = existing
		}
		for i, v := range row {
			existing[i] += v
		}
	}
}

// ForPlayer returns a copy of r with the rows belonging to boards whose
// current player is not updating zeroed out, when alternating updates are
// active (updating != nil). When updating is nil (no alternation), r is
// returned unchanged.
func (r InfoStateRegrets) ForPlayer(tree *gametree.GameTree, updating *board.Player) InfoStateRegrets {
	if updating == nil {
		return r
	}
	out := make(InfoStateRegrets, len(r))
	for is, row := range r {
		id := is.Board
		if tree.CurrentPlayer(id) == *updating {
			cp := make([]float64, len(row))
			copy(cp, row)
			out[is] = cp
		} else {
			out[is] = make([]float64, len(row))
		}
	}
	return out
}

// Discount applies the CFR+/DCFR discount schedule in place, before the
// new iteration's regrets are added: non-negative regrets are scaled by
// (t+1)^alpha / ((t+1)^alpha + 1); negative regrets by (t+1)^beta /
// ((t+1)^beta + 1). When updating is non-nil (alternating mode), only
// rows belonging to that player are discounted.
func (r InfoStateRegrets) Discount(tree *gametree.GameTree, updating *board.Player, alpha, beta float64, t int) {
	tp1 := float64(t + 1)
	posScale := math.Pow(tp1, alpha) / (math.Pow(tp1, alpha) + 1)
	negScale := math.Pow(tp1, beta) / (math.Pow(tp1, beta) + 1)

	for is, row := range r {
		if updating != nil && tree.CurrentPlayer(is.Board) != *updating {
			continue
		}
		for i, v := range row {
			if v >= 0 {
				row[i] = v * posScale
			} else {
				row[i] = v * negScale
			}
		}
	}
}

// RegretMatchingStrategy derives a Strategy from r: at each InfoState,
// sigma(a) = max(r(a),0) / sum_a max(r(a),0), falling back to uniform when
// the denominator is 0.
func (r InfoStateRegrets) RegretMatchingStrategy() Strategy {
	out := make(Strategy, len(r))
	for is, row := range r {
		n := len(row)
		strat := make([]float64, n)
		sum := 0.0
		for i, v := range row {
			if v > 0 {
				strat[i] = v
				sum += v
			}
		}
		if sum > 0 {
			for i := range strat {
				strat[i] /= sum
			}
		} else {
			p := 1.0 / float64(n)
			for i := range strat {
				strat[i] = p
			}
		}
		out[is] = strat
	}
	return out
}
