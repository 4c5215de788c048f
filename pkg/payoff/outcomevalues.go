// Package payoff defines OutcomeValues, the payoff vector that
// parameterizes how a terminal MetaState's realization converts into a
// scalar value for Player1 (spec.md 4.6).
package payoff

import "github.com/behrlich/goalttt-solver/pkg/board"

// OutcomeValues is the 5-tuple payoff vector: values for each of the four
// (p1realized, p2realized) combinations, plus a regularizer weight.
type OutcomeValues struct {
	BothWin  float64 // r1=true,  r2=true
	P1Win    float64 // r1=true,  r2=false
	P2Win    float64 // r1=false, r2=true
	BothLose float64 // r1=false, r2=false

	// FirstMoveEpsilon imposes a soft lexicographic tie-break preferring
	// Player1 to take earlier-numbered cells. Set to 0 to disable.
	FirstMoveEpsilon float64
}

// Default is the standard zero-sum payoff vector used for the one-round
// game before any score-grid coupling is applied: +1 when only Player1
// realizes its goal, -1 when only Player2 realizes its goal, and both
// realizing or neither realizing is a wash.
var Default = OutcomeValues{
	BothWin:  0,
	P1Win:    1,
	P2Win:    -1,
	BothLose: 0,
}

// Evaluate returns the scalar value (for Player1; Player2's value is
// always its negation since this is a zero-sum payoff) of a terminal
// realization (r1, r2), given the board's move sums for the first-move
// regularizer.
func (v OutcomeValues) Evaluate(r1, r2 bool, p1MoveSum, p2MoveSum int) float64 {
	idx := 0
	if r1 {
		idx += 2
	}
	if r2 {
		idx += 1
	}
	// base = [both_lose, p2_win, p1_win, both_win][2*r1 + r2]
	table := [4]float64{v.BothLose, v.P2Win, v.P1Win, v.BothWin}
	base := table[idx]

	bonus := 0.0
	if v.FirstMoveEpsilon != 0 {
		bonus = v.FirstMoveEpsilon * float64(p2MoveSum-p1MoveSum)
	}
	return base + bonus
}

// EvaluateOutcome evaluates the payoff for a terminal board's realized
// outcome against a MetaState's two goals, via board.Outcome.Reverse and
// the move-sum regularizer.
func EvaluateOutcome(v OutcomeValues, p1Goal, p2Goal board.Outcome, outcome board.Outcome, p1MoveSum, p2MoveSum int) float64 {
	r1 := p1Goal == outcome
	r2 := p2Goal == outcome.Reverse()
	return v.Evaluate(r1, r2, p1MoveSum, p2MoveSum)
}

// Decayed returns a copy of v with FirstMoveEpsilon scaled by (1-decay),
// used by the single-subgame solver's per-iteration epsilon decay
// (spec.md 4.8) and by the multi-round fixed point's epsilon * (1-delta)^i
// schedule (spec.md 4.9).
func (v OutcomeValues) Decayed(decay float64) OutcomeValues {
	out := v
	out.FirstMoveEpsilon *= (1 - decay)
	return out
}
