// Package snapshot implements the binary CFR-state codec, the directory-
// style LevelDB blob store snapshots are written to, and a human-facing
// JSON export of a strategy (spec.md 6).
package snapshot

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// engineState is the gob-friendly shadow of cfr.Engine: everything except
// the GameTree pointer, which is re-attached from the caller's already-
// built tree on decode (the tree is immutable and never itself persisted
// per snapshot, per spec.md 3's "GameTree is built once" lifecycle).
type engineState struct {
	TotalRegrets    strategy.InfoStateRegrets
	AverageStrategy strategy.Strategy
	T               int
	HasDiscount     bool
	Discount        cfr.DiscountParams
	HasPlayerToUpdate bool
	PlayerToUpdate  board.Player
}

// EncodeEngine serializes a CFR engine's mutable state (total regrets,
// average strategy, iteration count, discount params, alternating-player
// cursor) to the debug_{i} blob format.
func EncodeEngine(e *cfr.Engine) ([]byte, error) {
	state := engineState{
		TotalRegrets:    e.TotalRegrets,
		AverageStrategy: e.AverageStrategy,
		T:               e.T,
	}
	if e.Discount != nil {
		state.HasDiscount = true
		state.Discount = *e.Discount
	}
	if e.PlayerToUpdate != nil {
		state.HasPlayerToUpdate = true
		state.PlayerToUpdate = *e.PlayerToUpdate
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, errors.Wrap(err, "snapshot: encoding engine state")
	}
	return buf.Bytes(), nil
}

// DecodeEngine reconstructs a CFR engine over tree from a debug_{i} blob.
func DecodeEngine(data []byte, tree *gametree.GameTree) (*cfr.Engine, error) {
	var state engineState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return nil, errors.Wrap(err, "snapshot: decoding engine state")
	}

	e := cfr.NewEngine(tree)
	e.TotalRegrets = state.TotalRegrets
	e.AverageStrategy = state.AverageStrategy
	e.T = state.T
	if state.HasDiscount {
		d := state.Discount
		e.Discount = &d
	}
	if state.HasPlayerToUpdate {
		p := state.PlayerToUpdate
		e.PlayerToUpdate = &p
	}
	return e, nil
}

// EncodeStrategy serializes sigma to the strategy_{i} blob format.
func EncodeStrategy(sigma strategy.Strategy) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(sigma); err != nil {
		return nil, errors.Wrap(err, "snapshot: encoding strategy")
	}
	return buf.Bytes(), nil
}

// DecodeStrategy deserializes a strategy_{i} blob.
func DecodeStrategy(data []byte) (strategy.Strategy, error) {
	var sigma strategy.Strategy
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sigma); err != nil {
		return nil, errors.Wrap(err, "snapshot: decoding strategy")
	}
	return sigma, nil
}
