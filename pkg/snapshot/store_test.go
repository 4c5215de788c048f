package snapshot

import (
	"testing"

	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

func TestStorePutGetStrategy(t *testing.T) {
	tree := buildTree(t)
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer store.Close()

	sigma := strategy.Uniform(tree)
	if err := store.PutStrategy(0, sigma); err != nil {
		t.Fatalf("PutStrategy error: %v", err)
	}
	if err := store.PutStrategy(5, sigma); err != nil {
		t.Fatalf("PutStrategy error: %v", err)
	}

	latest, err := store.LatestIteration()
	if err != nil {
		t.Fatalf("LatestIteration error: %v", err)
	}
	if latest != 5 {
		t.Fatalf("LatestIteration = %d, want 5", latest)
	}

	loaded, err := store.GetStrategy(5)
	if err != nil {
		t.Fatalf("GetStrategy error: %v", err)
	}
	if len(loaded) != len(sigma) {
		t.Fatalf("loaded %d InfoStates, want %d", len(loaded), len(sigma))
	}
}

func TestStorePutGetEngine(t *testing.T) {
	tree := buildTree(t)
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer store.Close()

	e := cfr.NewEngine(tree)
	sigma := strategy.Uniform(tree)
	sigma = e.Round(sigma, payoff.Default)
	_ = sigma

	if err := store.PutEngine(0, e); err != nil {
		t.Fatalf("PutEngine error: %v", err)
	}
	loaded, err := store.GetEngine(0, tree)
	if err != nil {
		t.Fatalf("GetEngine error: %v", err)
	}
	if loaded.T != e.T {
		t.Fatalf("T = %d, want %d", loaded.T, e.T)
	}
}

func TestStoreSubgameKeys(t *testing.T) {
	tree := buildTree(t)
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer store.Close()

	sigma := strategy.Uniform(tree)
	if err := store.PutSubgameStrategy(1, 2, 3, sigma); err != nil {
		t.Fatalf("PutSubgameStrategy error: %v", err)
	}
	loaded, err := store.GetSubgameStrategy(1, 2, 3)
	if err != nil {
		t.Fatalf("GetSubgameStrategy error: %v", err)
	}
	if len(loaded) != len(sigma) {
		t.Fatalf("loaded %d InfoStates, want %d", len(loaded), len(sigma))
	}
}
