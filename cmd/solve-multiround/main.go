// Command solve-multiround solves the multi-round score-grid fixed point
// (spec.md 4.9), writing one converged snapshot pair per cell under
// subgame_{p1}_{p2}/ keys in --output-dir.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/behrlich/goalttt-solver/pkg/cfr"
	"github.com/behrlich/goalttt-solver/pkg/cliutil"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/snapshot"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
	"github.com/behrlich/goalttt-solver/pkg/subgame"
)

func main() {
	winningScore := flag.Int("winning-score", 2, "Winning score W; subgames range over {0..W-1}^2")
	maxSubgameExploitability := flag.Float64("maximum-subgame-exploitability", 0.01, "Per-cell exploitability stop threshold")
	checkEvery := flag.Int("check-exploitability-every", 25, "Check exploitability every K iterations within a cell")
	iterationsPerCell := flag.Int("iterations-per-cell", 2000, "Maximum CFR iterations run per cell")
	innerPairRounds := flag.Int("inner-pair-rounds", 3, "Times to re-solve a mirrored cell pair against each other's EV")
	outputDir := flag.String("output-dir", "", "Directory (LevelDB store) to write per-cell snapshots to")
	verbose := flag.Bool("verbose", false, "Show per-cell debug logging")

	epsilon := flag.Float64("small-move-epsilon", 0, "Initial first_move_epsilon regularizer (0 disables)")
	epsilonDecay := flag.Float64("small-move-epsilon-decay", 0, "Per-iteration decay factor for small-move-epsilon")

	useDiscount := flag.Bool("discount", false, "Enable CFR+/DCFR discounting")
	discountAlpha := flag.Float64("discount-alpha", 1.5, "Discount alpha")
	discountBeta := flag.Float64("discount-beta", 0, "Discount beta (0 = CFR+)")
	discountGamma := flag.Float64("discount-gamma", 2, "Discount gamma")
	alternateUpdates := flag.Bool("alternate-updates", false, "Alternate Player1/Player2 regret updates")

	flag.Parse()

	log := cliutil.NewLogger(*verbose)

	var checks cliutil.FlagChecks
	checks.Require(*winningScore > 0, "--winning-score must be positive")
	checks.Require(*maxSubgameExploitability > 0, "--maximum-subgame-exploitability must be positive")
	checks.Require(*checkEvery > 0, "--check-exploitability-every must be positive")
	checks.Require(*iterationsPerCell > 0, "--iterations-per-cell must be positive")
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

	var discount *cfr.DiscountParams
	if *useDiscount {
		discount = &cfr.DiscountParams{Alpha: *discountAlpha, Beta: *discountBeta, Gamma: *discountGamma}
	}

	cfg := subgame.MultiRoundConfig{
		WinningScore:             *winningScore,
		IterationsPerCell:        *iterationsPerCell,
		CheckExploitabilityEvery: *checkEvery,
		MaxSubgameExploitability: *maxSubgameExploitability,
		Epsilon:                 *epsilon,
		EpsilonDecay:             *epsilonDecay,
		Discount:                 discount,
		AlternateUpdates:         *alternateUpdates,
		InnerPairRounds:          *innerPairRounds,
		OnCellSolved: func(cell subgame.ScoreCell, engine *cfr.Engine, sigma strategy.Strategy, report subgame.IterationReport) error {
			log.Info().Int("p1", cell.P1).Int("p2", cell.P2).Float64("ev", report.EV).
				Float64("exploitability", report.Exploitability).Msg("cell converged")
			if err := store.PutSubgameEngine(cell.P1, cell.P2, report.Iteration, engine); err != nil {
				return err
			}
			return store.PutSubgameStrategy(cell.P1, cell.P2, report.Iteration, sigma)
		},
	}

	result, err := subgame.SolveMultiRound(tree, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error solving multi-round fixed point: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Solved %d cells for winning score %d.\n", len(result.Cells), *winningScore)
}
