// Command best-response loads a solved strategy at a given iteration
// (spec.md 6), computes its exact best response and exploiter splices, and
// writes a best_response_{i} snapshot.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/behrlich/goalttt-solver/pkg/bestresponse"
	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/cliutil"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/snapshot"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

func main() {
	solutionsDir := flag.String("solutions-dir", "", "Directory (LevelDB store) holding the solved snapshots")
	iteration := flag.Int("iteration", -1, "Snapshot iteration to load (default: latest)")
	useAverage := flag.Bool("average-strategy", true, "Use the stored engine's average strategy rather than its raw regret-matching strategy")
	jsonOut := flag.Bool("json", false, "Print the best-response strategy as JSON instead of a human summary")
	verbose := flag.Bool("verbose", false, "Show debug logging")

	flag.Parse()

	log := cliutil.NewLogger(*verbose)

	var checks cliutil.FlagChecks
	checks.Require(*solutionsDir != "", "--solutions-dir is required")
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

	iter := *iteration
	if iter < 0 {
		iter, err = store.LatestIteration()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error discovering latest iteration: %v\n", err)
			os.Exit(1)
		}
	}
	log.Info().Int("iteration", iter).Msg("loading snapshot")

	var sigma strategy.Strategy
	var engine *cfr.Engine
	engine, err = store.GetEngine(iter, tree)
	if err == nil {
		if *useAverage {
			sigma = engine.AverageStrategy
		} else {
			sigma = engine.TotalRegrets.RegretMatchingStrategy()
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading strategy at iteration %d: %v\n", iter, err)
		os.Exit(1)
	}

	result := bestresponse.Compute(tree, sigma, payoff.Default)
	exploitability := bestresponse.Exploitability(tree, sigma, payoff.Default)

	if err := store.PutBestResponse(iter, result.BR); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing best_response_%d: %v\n", iter, err)
		os.Exit(1)
	}

	if *jsonOut {
		data, err := snapshot.ExportJSON(result.BR)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting JSON: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		fmt.Println()
		return
	}

	fmt.Printf("Best response at iteration %d: exploitability = %.6f (%d InfoStates)\n",
		iter, exploitability, len(result.BR))
}
