package board

import "testing"

func TestCurrentPlayerAtRoot(t *testing.T) {
	if Empty.CurrentPlayer() != Player1 {
		t.Fatalf("expected Player1 to move at root")
	}
}

func TestCurrentPlayerAlternates(t *testing.T) {
	b := Empty
	b[0] = 1
	if b.CurrentPlayer() != Player2 {
		t.Fatalf("expected Player2 to move after move 1")
	}
	b[1] = 2
	if b.CurrentPlayer() != Player1 {
		t.Fatalf("expected Player1 to move after move 2")
	}
}

func TestOutcomeWinRow(t *testing.T) {
	// Player1 takes the top row on moves 1,3,5; Player2 elsewhere.
	b := Board{1, 3, 5, 2, 4, 0, 0, 0, 0}
	o, ok := b.Outcome()
	if !ok || o != Win {
		t.Fatalf("expected Win, got %v ok=%v", o, ok)
	}
}

func TestOutcomeLoseColumn(t *testing.T) {
	b := Board{2, 1, 3, 4, 5, 0, 6, 0, 0}
	o, ok := b.Outcome()
	if !ok || o != Lose {
		t.Fatalf("expected Lose, got %v ok=%v", o, ok)
	}
}

func TestOutcomeTieFullBoard(t *testing.T) {
	// A filled board with no line of uniform parity.
	b := Board{1, 2, 3, 6, 4, 5, 7, 9, 8}
	o, ok := b.Outcome()
	if !ok || o != Tie {
		t.Fatalf("expected Tie, got %v ok=%v", o, ok)
	}
}

func TestOutcomeNonTerminal(t *testing.T) {
	b := Board{1, 0, 0, 0, 0, 0, 0, 0, 0}
	if _, ok := b.Outcome(); ok {
		t.Fatalf("expected non-terminal")
	}
}

func TestDropHistoryErasesOrderKeepsParity(t *testing.T) {
	b := Board{1, 4, 3, 2, 5, 0, 0, 0, 0}
	d := b.DropHistory()
	want := Board{1, 2, 1, 2, 1, 0, 0, 0, 0}
	if d != want {
		t.Fatalf("DropHistory() = %v, want %v", d, want)
	}
}

func TestSymmetryIdentityIsSelf(t *testing.T) {
	b := Board{1, 0, 0, 0, 0, 0, 0, 0, 0}
	if !b.IsSymmetryOf(b) {
		t.Fatalf("expected board to be its own symmetry")
	}
}

func TestSymmetryRotation(t *testing.T) {
	// First move in corner 0 and first move in corner 2 are rotations of
	// each other after dropping history.
	a := Board{1, 0, 0, 0, 0, 0, 0, 0, 0}.DropHistory()
	c := Board{0, 0, 1, 0, 0, 0, 0, 0, 0}.DropHistory()
	if !a.IsSymmetryOf(c) {
		t.Fatalf("expected corner 0 and corner 2 to be symmetric")
	}
}

func TestChildrenOfEmptyBoardHasThreeOrbits(t *testing.T) {
	// Corner, edge, center are the three orbits of the first move under D4.
	children := Empty.Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 distinct first moves under symmetry, got %d", len(children))
	}
}

func TestChildrenSiblingsAreNotSymmetric(t *testing.T) {
	b := Board{1, 0, 0, 0, 0, 0, 0, 0, 0}
	children := b.Children()
	for i := 0; i < len(children); i++ {
		for j := i + 1; j < len(children); j++ {
			ci := children[i].DropHistory()
			cj := children[j].DropHistory()
			if ci.IsSymmetryOf(cj) {
				t.Fatalf("siblings %d and %d are symmetric duplicates", i, j)
			}
		}
	}
}

func TestMoveSumsOrdersByBase9Weight(t *testing.T) {
	b := Board{1, 0, 0, 0, 0, 0, 0, 0, 2}
	p1, p2 := b.MoveSums()
	if p1 != 1*pow9(8) {
		t.Fatalf("p1sum = %d, want %d", p1, pow9(8))
	}
	if p2 != 2*pow9(0) {
		t.Fatalf("p2sum = %d, want %d", p2, 2)
	}
}
