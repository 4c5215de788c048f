package main

import (
	"fmt"
	"os"

	"github.com/awalterschulze/gographviz"

	"github.com/behrlich/goalttt-solver/pkg/gametree"
)

// writeDOT dumps the subtree rooted at cursor as Graphviz DOT, one node per
// board with an edge per child, to path. This is an opt-in debug
// affordance, not part of the core solver.
func writeDOT(tree *gametree.GameTree, cursor gametree.ID, path string) error {
	graph := gographviz.NewGraph()
	if err := graph.SetName("goalttt"); err != nil {
		return err
	}
	if err := graph.SetDir(true); err != nil {
		return err
	}

	var visit func(id gametree.ID)
	visited := make(map[gametree.ID]bool)
	visit = func(id gametree.ID) {
		if visited[id] {
			return
		}
		visited[id] = true

		name := nodeName(id)
		label := fmt.Sprintf(`"%s"`, compactBoard(tree.Board(id)))
		if err := graph.AddNode("goalttt", name, map[string]string{"label": label}); err != nil {
			return
		}

		for _, child := range tree.Children(id) {
			if err := graph.AddEdge(name, nodeName(child), true, nil); err != nil {
				return
			}
			visit(child)
		}
	}
	visit(cursor)

	return os.WriteFile(path, []byte(graph.String()), 0644)
}

func nodeName(id gametree.ID) string {
	return fmt.Sprintf("n%d", id)
}
