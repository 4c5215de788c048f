package main

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/behrlich/goalttt-solver/pkg/board"
)

var profile = termenv.ColorProfile()

func cellOwner(v int) board.Player {
	if v%2 == 1 {
		return board.Player1
	}
	return board.Player2
}

// renderBoard draws the 3x3 grid with termenv styling: Player1's marks in
// green, Player2's in red, empty cells numbered by their index in the
// reduced child list the caller supplies (or blank if nil).
func renderBoard(b board.Board, cellLabel map[int]int) string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			i := r*3 + c
			v := b[i]
			var cell string
			switch {
			case v == 0 && cellLabel != nil:
				if label, ok := cellLabel[i]; ok {
					cell = fmt.Sprintf("%d", label)
				} else {
					cell = "."
				}
			case v == 0:
				cell = "."
			case cellOwner(v) == board.Player1:
				cell = termenv.String("X").Foreground(profile.Color("2")).Bold().String()
			default:
				cell = termenv.String("O").Foreground(profile.Color("1")).Bold().String()
			}
			fmt.Fprintf(&sb, " %s ", cell)
			if c < 2 {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')
		if r < 2 {
			sb.WriteString("---+---+---\n")
		}
	}
	return sb.String()
}

func styleHeading(s string) string {
	return termenv.String(s).Bold().Underline().String()
}
