// Package gametree builds the canonical, symmetry-reduced, topologically
// ordered set of reachable goal-tic-tac-toe boards, folding forced-outcome
// subtrees into terminal leaves (spec.md 4.2).
package gametree

import (
	"github.com/pkg/errors"

	"github.com/behrlich/goalttt-solver/pkg/board"
)

// ID is a board's position in topological (enumeration) order. Child ids
// are always strictly greater than their parent's id.
type ID int

// GameTree is an immutable, topologically sorted container of canonical
// boards with parent/child relations, terminal outcomes and current-player
// labels. It is built once via Build and never mutated afterward.
type GameTree struct {
	boards   []board.Board
	idOf     map[board.Board]ID
	parent   []ID // parent[0] is meaningless (root has no parent)
	children [][]ID
	terminal []bool
	outcome  []board.Outcome // valid iff terminal[id]
	player   []board.Player
}

// Root is always id 0.
const Root ID = 0

// NumBoards returns the number of boards (nodes) in the tree.
func (t *GameTree) NumBoards() int { return len(t.boards) }

// Board returns the canonical board for id.
func (t *GameTree) Board(id ID) board.Board { return t.boards[id] }

// IDOf returns the id of a canonical board, if present.
func (t *GameTree) IDOf(b board.Board) (ID, bool) {
	id, ok := t.idOf[b]
	return id, ok
}

// Parent returns id's parent. Calling this on Root is invalid.
func (t *GameTree) Parent(id ID) ID { return t.parent[id] }

// Children returns id's child ids, empty for terminal nodes.
func (t *GameTree) Children(id ID) []ID { return t.children[id] }

// IsTerminal reports whether id is a terminal (possibly folded) leaf.
func (t *GameTree) IsTerminal(id ID) bool { return t.terminal[id] }

// Outcome returns id's terminal outcome. Valid only if IsTerminal(id).
func (t *GameTree) Outcome(id ID) board.Outcome { return t.outcome[id] }

// CurrentPlayer returns the player to move at id. Meaningless for terminal
// nodes.
func (t *GameTree) CurrentPlayer(id ID) board.Player { return t.player[id] }

// Terminals returns all terminal ids.
func (t *GameTree) Terminals() []ID {
	var out []ID
	for id := range t.boards {
		if t.terminal[id] {
			out = append(out, ID(id))
		}
	}
	return out
}

// Build constructs the GameTree for goal-tic-tac-toe: depth-first enumerate
// all descendants of the empty board (deduplicating symmetric siblings via
// board.Board.Children), compute forced outcomes bottom-up, and fold any
// board whose parent is already forced-terminal out of the tree.
func Build() (*GameTree, error) {
	root := board.Empty
	if root.IsTerminal() {
		return nil, errors.New("config error: root board must not be terminal")
	}

	// Phase 1: enumerate the full (unfolded) canonical reachable set via
	// DFS, recording parent/children edges over *boards* (not yet ids).
	// order is a valid topological order: every board is appended only
	// after its parent.
	var order []board.Board
	seen := map[board.Board]bool{root: true}
	rawChildren := map[board.Board][]board.Board{}
	rawParent := map[board.Board]board.Board{}

	order = append(order, root)
	var enumerate func(b board.Board)
	enumerate = func(b board.Board) {
		if _, ok := b.Outcome(); ok {
			return // terminal boards have no children to enumerate
		}
		children := b.Children()
		rawChildren[b] = children
		for _, c := range children {
			if seen[c] {
				continue
			}
			seen[c] = true
			order = append(order, c)
			rawParent[c] = b
			enumerate(c)
		}
	}
	enumerate(root)

	// Phase 2: compute forced outcomes bottom-up. A non-terminal board is
	// forced iff every child is forced to the same outcome (terminal
	// boards are trivially forced to their own outcome). Process in
	// reverse enumeration order, which is a valid post-order since
	// children were discovered after their parent.
	forced := map[board.Board]board.Outcome{}
	isForced := map[board.Board]bool{}
	for i := len(order) - 1; i >= 0; i-- {
		b := order[i]
		if o, ok := b.Outcome(); ok {
			forced[b] = o
			isForced[b] = true
			continue
		}
		children := rawChildren[b]
		if len(children) == 0 {
			continue
		}
		agree := true
		var first board.Outcome
		for i, c := range children {
			if !isForced[c] {
				agree = false
				break
			}
			if i == 0 {
				first = forced[c]
			} else if forced[c] != first {
				agree = false
				break
			}
		}
		if agree {
			forced[b] = first
			isForced[b] = true
		}
	}

	// Phase 3: collect redundant boards -- those whose parent is already
	// forced (the parent folds into a terminal leaf, so descendants below
	// a forced non-terminal board are pruned). The root is never redundant.
	redundant := map[board.Board]bool{}
	for _, b := range order {
		p, hasParent := rawParent[b]
		if !hasParent {
			continue
		}
		if isForced[p] {
			if _, ok := p.Outcome(); !ok {
				// p is a non-terminal board forced to an outcome: its
				// children fold away.
				redundant[b] = true
			}
		}
	}
	// Propagate redundancy downward: anything below a redundant board is
	// also redundant.
	changed := true
	for changed {
		changed = false
		for _, b := range order {
			if redundant[b] {
				continue
			}
			p, hasParent := rawParent[b]
			if hasParent && redundant[p] {
				redundant[b] = true
				changed = true
			}
		}
	}

	// Phase 4: assign ids in enumeration order to non-redundant boards.
	t := &GameTree{idOf: map[board.Board]ID{}}
	for _, b := range order {
		if redundant[b] {
			continue
		}
		id := ID(len(t.boards))
		t.boards = append(t.boards, b)
		t.idOf[b] = id
	}

	n := len(t.boards)
	t.parent = make([]ID, n)
	t.children = make([][]ID, n)
	t.terminal = make([]bool, n)
	t.outcome = make([]board.Outcome, n)
	t.player = make([]board.Player, n)

	for i, b := range t.boards {
		id := ID(i)
		if p, hasParent := rawParent[b]; hasParent {
			if !redundant[p] {
				pid := t.idOf[p]
				t.parent[id] = pid
				t.children[pid] = append(t.children[pid], id)
			}
		}
		if o, ok := b.Outcome(); ok {
			t.terminal[id] = true
			t.outcome[id] = o
		} else if isForced[b] {
			t.terminal[id] = true
			t.outcome[id] = forced[b]
			// Folded: its raw children are redundant and were excluded
			// from t.boards above, so t.children[id] stays empty.
		} else {
			t.player[id] = b.CurrentPlayer()
		}
	}

	return t, nil
}
