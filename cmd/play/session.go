package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/randsrc"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// playRound walks the tree from gametree.Root, prompting humanPlayer for
// moves and sampling the bot's moves from sigma via rng, until a terminal
// board is reached. Returns the realized board outcome.
func playRound(tree *gametree.GameTree, sigma strategy.Strategy, humanPlayer board.Player, humanGoal, botGoal board.Outcome, rng *randsrc.Source, reader *bufio.Reader) (board.Outcome, error) {
	id := gametree.Root
	for !tree.IsTerminal(id) {
		children := tree.Children(id)
		current := tree.CurrentPlayer(id)

		fmt.Println(renderBoard(tree.Board(id), childLabels(tree, id)))

		var choice int
		if current == humanPlayer {
			fmt.Println(styleHeading("Your move."))
			var err error
			choice, err = promptChoice(reader, len(children))
			if err != nil {
				return 0, err
			}
		} else {
			goal := botGoal
			is := meta.InfoState{Board: id, Goal: goal}
			row := sigma.Get(is, len(children))
			choice = rng.SampleAction(row)
			fmt.Printf("Opponent plays option %d.\n", choice+1)
		}

		id = children[choice]
	}

	fmt.Println(renderBoard(tree.Board(id), nil))
	outcome := tree.Outcome(id)

	humanRealized := humanGoal == relativeOutcome(outcome, humanPlayer)
	botPlayer := humanPlayer.Other()
	botRealized := botGoal == relativeOutcome(outcome, botPlayer)

	fmt.Printf("Result: %v. You wanted %v (%s), opponent wanted %v (%s).\n",
		outcome, humanGoal, realizedWord(humanRealized), botGoal, realizedWord(botRealized))

	return outcome, nil
}

// relativeOutcome expresses the raw board.Outcome (Player1-perspective)
// from the given player's perspective: Player1 sees it as-is, Player2
// sees its Reverse (spec.md 3's goal/outcome convention).
func relativeOutcome(outcome board.Outcome, p board.Player) board.Outcome {
	if p == board.Player1 {
		return outcome
	}
	return outcome.Reverse()
}

func realizedWord(ok bool) string {
	if ok {
		return "achieved"
	}
	return "missed"
}

func childLabels(tree *gametree.GameTree, id gametree.ID) map[int]int {
	parent := tree.Board(id)
	labels := make(map[int]int)
	for choice, childID := range tree.Children(id) {
		child := tree.Board(childID)
		for i := 0; i < 9; i++ {
			if parent[i] == 0 && child[i] != 0 {
				labels[i] = choice + 1
				break
			}
		}
	}
	return labels
}

func promptChoice(reader *bufio.Reader, n int) (int, error) {
	for {
		fmt.Printf("Choose a cell (1-%d): ", n)
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		choice, err := strconv.Atoi(line)
		if err != nil || choice < 1 || choice > n {
			fmt.Println("Invalid choice.")
			continue
		}
		return choice - 1, nil
	}
}

func newStdinReader() *bufio.Reader {
	return bufio.NewReader(os.Stdin)
}
