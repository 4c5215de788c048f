// Package meta encodes the private-goal cross product over boards: each
// player is independently assigned a goal (Win/Lose/Tie) and the
// MetaState/InfoState types project a board into that hidden-information
// space (spec.md 3).
package meta

import (
	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
)

// Goal is a player's private payoff target: the realized outcome they want
// to see at the terminal board. It shares board.Outcome's representation
// since a goal is literally "the outcome I'm hoping for".
type Goal = board.Outcome

// Goals enumerates the three possible private goals, in a fixed order used
// throughout the solver whenever "all goals" must be iterated.
var Goals = [3]Goal{board.Win, board.Lose, board.Tie}

// MetaState is the full state used for value computation: a board plus
// both players' private goals.
type MetaState struct {
	Board    gametree.ID
	P1Goal   Goal
	P2Goal   Goal
}

// InfoState is a MetaState projected onto the current player's visible
// information: the board and that player's own goal (the opponent's goal
// is private). It is the key strategies and regret tables are indexed by.
type InfoState struct {
	Board gametree.ID
	Goal  Goal
}

// Realization returns, for a terminal MetaState with the given realized
// outcome, whether each player's goal was satisfied: (p1goal == outcome,
// p2goal == reverse(outcome)).
func (m MetaState) Realization(outcome board.Outcome) (p1Realized, p2Realized bool) {
	return m.P1Goal == outcome, m.P2Goal == outcome.Reverse()
}

// InfoStateFor projects m onto the goal of the given player. The caller is
// responsible for passing the board's actual current player (InfoState
// only makes sense at non-terminal boards).
func (m MetaState) InfoStateFor(p board.Player) InfoState {
	if p == board.Player1 {
		return InfoState{Board: m.Board, Goal: m.P1Goal}
	}
	return InfoState{Board: m.Board, Goal: m.P2Goal}
}

// AllMetaStates returns the 9 MetaStates over a given board id, in a fixed
// deterministic order (P1Goal outer, P2Goal inner, both following Goals
// order). This order is relied upon by components that divide root
// averages by 9 (spec.md 9, Open Question 1).
func AllMetaStates(id gametree.ID) []MetaState {
	out := make([]MetaState, 0, 9)
	for _, g1 := range Goals {
		for _, g2 := range Goals {
			out = append(out, MetaState{Board: id, P1Goal: g1, P2Goal: g2})
		}
	}
	return out
}
