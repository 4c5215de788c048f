package snapshot

import (
	"math"
	"testing"

	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

func buildTree(t *testing.T) *gametree.GameTree {
	t.Helper()
	tree, err := gametree.Build()
	if err != nil {
		t.Fatalf("gametree.Build() error: %v", err)
	}
	return tree
}

// Property 5 (spec.md 8): serialize(sigma) then deserialize reproduces
// sigma bit-identically for probabilities.
func TestEncodeDecodeStrategyRoundTrip(t *testing.T) {
	tree := buildTree(t)
	sigma := strategy.Uniform(tree)

	data, err := EncodeStrategy(sigma)
	if err != nil {
		t.Fatalf("EncodeStrategy error: %v", err)
	}
	decoded, err := DecodeStrategy(data)
	if err != nil {
		t.Fatalf("DecodeStrategy error: %v", err)
	}

	for is, row := range sigma {
		drow, ok := decoded[is]
		if !ok {
			t.Fatalf("missing InfoState %v after round-trip", is)
		}
		for i, p := range row {
			if drow[i] != p {
				t.Fatalf("action %d at %v: got %v, want %v", i, is, drow[i], p)
			}
		}
	}
}

func TestEncodeDecodeEngineRoundTrip(t *testing.T) {
	tree := buildTree(t)
	e := cfr.NewEngine(tree)
	e.Discount = &cfr.DiscountParams{Alpha: 1.5, Beta: 0, Gamma: 2}
	e.EnableAlternating()
	sigma := strategy.Uniform(tree)
	for i := 0; i < 3; i++ {
		sigma = e.Round(sigma, payoff.Default)
	}

	data, err := EncodeEngine(e)
	if err != nil {
		t.Fatalf("EncodeEngine error: %v", err)
	}
	decoded, err := DecodeEngine(data, tree)
	if err != nil {
		t.Fatalf("DecodeEngine error: %v", err)
	}

	if decoded.T != e.T {
		t.Fatalf("T = %d, want %d", decoded.T, e.T)
	}
	if (decoded.Discount == nil) != (e.Discount == nil) {
		t.Fatalf("discount presence mismatch")
	}
	if *decoded.Discount != *e.Discount {
		t.Fatalf("discount = %+v, want %+v", *decoded.Discount, *e.Discount)
	}
	if (decoded.PlayerToUpdate == nil) != (e.PlayerToUpdate == nil) {
		t.Fatalf("alternating cursor presence mismatch")
	}
	if *decoded.PlayerToUpdate != *e.PlayerToUpdate {
		t.Fatalf("player to update = %v, want %v", *decoded.PlayerToUpdate, *e.PlayerToUpdate)
	}

	for is, row := range e.TotalRegrets {
		drow, ok := decoded.TotalRegrets[is]
		if !ok {
			t.Fatalf("missing regret row at %v", is)
		}
		for i, v := range row {
			if math.Abs(drow[i]-v) > 1e-12 {
				t.Fatalf("regret at %v[%d]: got %v, want %v", is, i, drow[i], v)
			}
		}
	}
}

func TestJSONExportImportRoundTrip(t *testing.T) {
	tree := buildTree(t)
	sigma := strategy.Uniform(tree)

	data, err := ExportJSON(sigma)
	if err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}
	decoded, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON error: %v", err)
	}
	if len(decoded) != len(sigma) {
		t.Fatalf("decoded %d InfoStates, want %d", len(decoded), len(sigma))
	}
	for is, row := range sigma {
		drow, ok := decoded[is]
		if !ok || len(drow) != len(row) {
			t.Fatalf("missing or mismatched row at %v", is)
		}
	}
}
