// Package randsrc is the RNG collaborator for the interactive players:
// sampling an action from a Strategy row and the initial-goal/first-mover
// coin flips used by play-subgame and play-multiround (spec.md 6). The
// core solver is itself fully deterministic and never touches this
// package.
package randsrc

import (
	"math/rand/v2"

	"github.com/behrlich/goalttt-solver/pkg/board"
)

// Source wraps a math/rand/v2 generator, seedable for reproducible
// interactive sessions.
type Source struct {
	rng *rand.Rand
}

// New returns a Source seeded deterministically from seed.
func New(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed))}
}

// NewUnseeded returns a Source seeded from the runtime's entropy source.
func NewUnseeded() *Source {
	return &Source{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// SampleAction draws an action index from a probability row, weighted by
// its non-negative entries. Falls back to a uniform draw if the row sums
// to zero (or is empty, returning 0).
func (s *Source) SampleAction(row []float64) int {
	if len(row) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range row {
		if p > 0 {
			total += p
		}
	}
	if total <= 0 {
		return s.rng.IntN(len(row))
	}
	r := s.rng.Float64() * total
	acc := 0.0
	for i, p := range row {
		if p <= 0 {
			continue
		}
		acc += p
		if r <= acc {
			return i
		}
	}
	return len(row) - 1
}

// Goal draws a uniform private goal (Win/Lose/Tie) for a human or bot
// player entering a fresh round.
func (s *Source) Goal() board.Outcome {
	switch s.rng.IntN(3) {
	case 0:
		return board.Win
	case 1:
		return board.Lose
	default:
		return board.Tie
	}
}

// FirstMover flips a fair coin to decide which player moves first in a
// fresh interactive round.
func (s *Source) FirstMover() board.Player {
	if s.rng.IntN(2) == 0 {
		return board.Player1
	}
	return board.Player2
}
