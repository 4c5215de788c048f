package main

import (
	"flag"
	"fmt"

	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/randsrc"
	"github.com/behrlich/goalttt-solver/pkg/snapshot"
)

func runSubgame() error {
	solutionsDir := flag.String("solutions-dir", "", "Directory (LevelDB store) holding a solve run")
	iteration := flag.Int("iteration", -1, "Snapshot iteration to load (default: latest)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = unseeded, non-reproducible)")
	flag.Parse()

	if *solutionsDir == "" {
		return fmt.Errorf("play subgame: --solutions-dir is required")
	}

	tree, err := gametree.Build()
	if err != nil {
		return err
	}

	store, err := snapshot.Open(*solutionsDir)
	if err != nil {
		return err
	}
	defer store.Close()

	iter := *iteration
	if iter < 0 {
		iter, err = store.LatestIteration()
		if err != nil {
			return err
		}
	}
	sigma, err := store.GetStrategy(iter)
	if err != nil {
		return err
	}

	rng := newRNG(*seed)
	humanPlayer := rng.FirstMover()
	humanGoal := rng.Goal()
	botGoal := rng.Goal()

	fmt.Printf("You are %v. Your goal: %v. Good luck.\n", humanPlayer, humanGoal)

	reader := newStdinReader()
	_, err = playRound(tree, sigma, humanPlayer, humanGoal, botGoal, rng, reader)
	return err
}

func newRNG(seed uint64) *randsrc.Source {
	if seed == 0 {
		return randsrc.NewUnseeded()
	}
	return randsrc.New(seed)
}
