// Command solve runs the single-subgame CFR solver (spec.md 4.8) against
// the default one-round payoff vector, writing a debug_{i}/strategy_{i}
// snapshot pair to --output-dir after every iteration.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/cliutil"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/payoff"
	"github.com/behrlich/goalttt-solver/pkg/snapshot"
	"github.com/behrlich/goalttt-solver/pkg/subgame"
)

func main() {
	iterations := flag.Int("iterations", 1000, "Number of CFR iterations to run")
	outputDir := flag.String("output-dir", "", "Directory (LevelDB store) to write snapshots to")
	verbose := flag.Bool("verbose", false, "Show per-iteration debug logging")

	smallMoveEpsilon := flag.Float64("small-move-epsilon", 0, "Initial first_move_epsilon regularizer (0 disables)")
	smallMoveEpsilonDecay := flag.Float64("small-move-epsilon-decay", 0, "Per-iteration decay factor for small-move-epsilon")

	useDiscount := flag.Bool("discount", false, "Enable CFR+/DCFR discounting")
	discountAlpha := flag.Float64("discount-alpha", 1.5, "Discount alpha (damps positive regrets)")
	discountBeta := flag.Float64("discount-beta", 0, "Discount beta (damps negative regrets; 0 = CFR+)")
	discountGamma := flag.Float64("discount-gamma", 2, "Discount gamma (average-strategy weighting)")

	flag.Parse()

	log := cliutil.NewLogger(*verbose)

	var checks cliutil.FlagChecks
	checks.Require(*iterations > 0, "--iterations must be positive")
	checks.Require(*outputDir != "", "--output-dir is required")
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

	store, err := snapshot.Open(*outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", *outputDir, err)
		os.Exit(1)
	}
	defer store.Close()

	v := payoff.Default
	v.FirstMoveEpsilon = *smallMoveEpsilon

	var discount *cfr.DiscountParams
	if *useDiscount {
		discount = &cfr.DiscountParams{Alpha: *discountAlpha, Beta: *discountBeta, Gamma: *discountGamma}
	}

	solver := subgame.NewSolver(tree, v, discount, false)
	solver.EpsilonDecay = *smallMoveEpsilonDecay
	solver.OnIteration = func(r subgame.IterationReport) error {
		log.Debug().Int("iteration", r.Iteration).Float64("drift", r.Drift).Float64("ev", r.EV).Msg("cfr round")
		if err := store.PutEngine(r.Iteration, solver.Engine); err != nil {
			return err
		}
		return store.PutStrategy(r.Iteration, r.Sigma)
	}

	_, last, err := solver.Run(*iterations, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during solve: %v\n", err)
		os.Exit(1)
	}

	log.Info().Int("iterations", *iterations).Float64("final_ev", last.EV).Float64("final_drift", last.Drift).
		Msg("solve complete")
	fmt.Printf("Solved %d iterations. Final root EV: %.6f, drift: %.6g\n", *iterations, last.EV, last.Drift)
}
