// Command explore is an interactive REPL over cached snapshots (spec.md
// 6): not part of the core solver. It loads a solved strategy and lets a
// user walk the game tree, inspecting InfoState rows, and optionally dump
// the current subtree as Graphviz DOT via --dot.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/snapshot"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

var profile = termenv.ColorProfile()

func main() {
	solutionsDir := flag.String("solutions-dir", "", "Directory (LevelDB store) holding a solved run")
	iteration := flag.Int("iteration", -1, "Snapshot iteration to load (default: latest)")
	dotFlag := flag.String("dot", "", "Dump the subtree below the current cursor as Graphviz DOT to this path on every 'dot' command")
	flag.Parse()

	if *solutionsDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --solutions-dir is required")
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
	sigma, err := store.GetStrategy(iter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading strategy at iteration %d: %v\n", iter, err)
		os.Exit(1)
	}

	repl(tree, sigma, iter, *dotFlag)
}

func repl(tree *gametree.GameTree, sigma strategy.Strategy, iter int, dotPath string) {
	cursor := gametree.Root
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("Loaded strategy at iteration %d (%d InfoStates). Commands: show, goto N, back, dot, quit\n", iter, len(sigma))
	printCursor(tree, sigma, cursor)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return
		case "show":
			printCursor(tree, sigma, cursor)
		case "back":
			if cursor == gametree.Root {
				fmt.Println("already at root")
				continue
			}
			cursor = tree.Parent(cursor)
			printCursor(tree, sigma, cursor)
		case "goto":
			if len(fields) != 2 {
				fmt.Println("usage: goto N")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			children := tree.Children(cursor)
			if err != nil || n < 1 || n > len(children) {
				fmt.Printf("invalid child index, expected 1-%d\n", len(children))
				continue
			}
			cursor = children[n-1]
			printCursor(tree, sigma, cursor)
		case "dot":
			if dotPath == "" {
				fmt.Println("no --dot path configured")
				continue
			}
			if err := writeDOT(tree, cursor, dotPath); err != nil {
				fmt.Printf("error writing dot: %v\n", err)
				continue
			}
			fmt.Printf("wrote subtree DOT to %s\n", dotPath)
		default:
			fmt.Println("unknown command; try show, goto N, back, dot, quit")
		}
	}
}

func printCursor(tree *gametree.GameTree, sigma strategy.Strategy, id gametree.ID) {
	b := tree.Board(id)
	fmt.Println(styledBoard(b))

	if tree.IsTerminal(id) {
		fmt.Printf("terminal, outcome = %v\n", tree.Outcome(id))
		return
	}

	player := tree.CurrentPlayer(id)
	n := len(tree.Children(id))
	fmt.Printf("board %d, %v to move, %d children\n", id, player, n)
	for _, g := range meta.Goals {
		is := meta.InfoState{Board: id, Goal: g}
		row := sigma.Get(is, n)
		fmt.Printf("  goal=%-4v %s\n", g, formatRow(row))
	}
}

func formatRow(row []float64) string {
	parts := make([]string, len(row))
	for i, p := range row {
		parts[i] = fmt.Sprintf("%d:%.3f", i+1, p)
	}
	return strings.Join(parts, "  ")
}

// compactBoard is the plain-text rendering used for DOT labels, which
// cannot carry ANSI escape codes.
func compactBoard(b board.Board) string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			sb.WriteString(plainCell(b[r*3+c]))
		}
		if r < 2 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// styledBoard is the REPL's termenv-highlighted rendering.
func styledBoard(b board.Board) string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := b[r*3+c]
			switch {
			case v == 0:
				sb.WriteByte('.')
			case v%2 == 1:
				sb.WriteString(termenv.String("X").Foreground(profile.Color("2")).Bold().String())
			default:
				sb.WriteString(termenv.String("O").Foreground(profile.Color("1")).Bold().String())
			}
		}
		if r < 2 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func plainCell(v int) string {
	switch {
	case v == 0:
		return "."
	case v%2 == 1:
		return "X"
	default:
		return "O"
	}
}
