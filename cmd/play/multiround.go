package main

import (
	"flag"
	"fmt"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/snapshot"
)

func runMultiround() error {
	solutionsDir := flag.String("solutions-dir", "", "Directory (LevelDB store) holding a solve-multiround run")
	winningScore := flag.Int("winning-score", 2, "Winning score W matching the solved grid")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = unseeded, non-reproducible)")
	flag.Parse()

	if *solutionsDir == "" {
		return fmt.Errorf("play multiround: --solutions-dir is required")
	}
	if *winningScore <= 0 {
		return fmt.Errorf("play multiround: --winning-score must be positive")
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

	rng := newRNG(*seed)
	humanPlayer := rng.FirstMover()
	fmt.Printf("You are %v for the whole match. First to %d wins.\n", humanPlayer, *winningScore)

	reader := newStdinReader()
	p1Score, p2Score := 0, 0

	for p1Score < *winningScore && p2Score < *winningScore {
		iter, err := store.LatestSubgameIteration(p1Score, p2Score)
		if err != nil {
			return fmt.Errorf("no solved strategy for cell (%d,%d): %w", p1Score, p2Score, err)
		}
		sigma, err := store.GetSubgameStrategy(p1Score, p2Score, iter)
		if err != nil {
			return err
		}

		fmt.Printf("\n--- Score: P1=%d P2=%d ---\n", p1Score, p2Score)

		p1Goal, p2Goal := rng.Goal(), rng.Goal()
		humanGoal, botGoal := p1Goal, p2Goal
		if humanPlayer == board.Player2 {
			humanGoal, botGoal = p2Goal, p1Goal
		}

		outcome, err := playRound(tree, sigma, humanPlayer, humanGoal, botGoal, rng, reader)
		if err != nil {
			return err
		}

		if p1Goal == outcome {
			p1Score++
		}
		if p2Goal == outcome.Reverse() {
			p2Score++
		}
	}

	if p1Score >= *winningScore && p2Score >= *winningScore {
		fmt.Println("Both players reached the winning score simultaneously: match tied.")
	} else if (p1Score >= *winningScore && humanPlayer == board.Player1) || (p2Score >= *winningScore && humanPlayer == board.Player2) {
		fmt.Println("You win the match!")
	} else {
		fmt.Println("The opponent wins the match.")
	}
	return nil
}
