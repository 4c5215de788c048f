// Command best-response-multiround loads a previously solved score grid
// (spec.md 4.9) and runs the value-iteration tightening fixed point,
// reporting max_EV - min_EV per cell.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/cliutil"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/snapshot"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
	"github.com/behrlich/goalttt-solver/pkg/subgame"
)

func main() {
	solutionsDir := flag.String("solutions-dir", "", "Directory (LevelDB store) holding a solve-multiround run")
	winningScore := flag.Int("winning-score", 2, "Winning score W matching the solved grid")
	maxOuterIterations := flag.Int("max-outer-iterations", 200, "Cap on the tightening sweep count")
	useAverage := flag.Bool("average-strategy", true, "Use each cell's stored average strategy rather than its raw engine strategy")
	verbose := flag.Bool("verbose", false, "Show per-cell debug logging")

	flag.Parse()

	log := cliutil.NewLogger(*verbose)

	var checks cliutil.FlagChecks
	checks.Require(*solutionsDir != "", "--solutions-dir is required")
	checks.Require(*winningScore > 0, "--winning-score must be positive")
	if err := checks.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	tree, err := gametree.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building game tree: %v\n", err)
		os.Exit(1)
	}

	store, err := snapshot.Open(*solutionsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", *solutionsDir, err)
		os.Exit(1)
	}
	defer store.Close()

	grid, err := loadGrid(store, tree, *winningScore, *useAverage, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading solved grid: %v\n", err)
		os.Exit(1)
	}

	tightened := subgame.Tighten(tree, grid, *maxOuterIterations)

	for _, cell := range grid.Cells {
		fmt.Printf("cell (%d,%d): max_EV=%.6f min_EV=%.6f exploitability=%.6f\n",
			cell.P1, cell.P2, tightened.MaxEV[cell], tightened.MinEV[cell], tightened.Exploitability(cell))
	}
}

// loadGrid reconstructs the subset of a MultiRoundResult Tighten needs (the
// per-cell average strategy, the winning score, and the cell list) from a
// store written by solve-multiround, using each cell's latest persisted
// iteration.
func loadGrid(store *snapshot.Store, tree *gametree.GameTree, w int, useAverage bool, log zerolog.Logger) (*subgame.MultiRoundResult, error) {
	result := &subgame.MultiRoundResult{
		Config: subgame.MultiRoundConfig{WinningScore: w},
		Sigma:  make(map[subgame.ScoreCell]strategy.Strategy),
	}

	for p1 := 0; p1 < w; p1++ {
		for p2 := 0; p2 < w; p2++ {
			cell := subgame.ScoreCell{P1: p1, P2: p2}
			iter, err := store.LatestSubgameIteration(p1, p2)
			if err != nil {
				log.Warn().Int("p1", p1).Int("p2", p2).Msg("no solved strategy for cell, skipping")
				continue
			}

			var sigma strategy.Strategy
			if useAverage {
				sigma, err = store.GetSubgameStrategy(p1, p2, iter)
			} else {
				var engine *cfr.Engine
				engine, err = store.GetSubgameEngine(p1, p2, iter, tree)
				if err == nil {
					sigma = engine.TotalRegrets.RegretMatchingStrategy()
				}
			}
			if err != nil {
				return nil, err
			}
			result.Sigma[cell] = sigma
			result.Cells = append(result.Cells, cell)
		}
	}

	return result, nil
}
