// FILE: cmd/konane/main.go

// Command konane prints the starting board and demonstrates the jump
// scan for a single cell.
package main

import (
	"fmt"

	"konane/internal/board"
	"konane/internal/rules"
)

func main() {
	b := board.NewDefault()

	fmt.Print(b)

	moves, ok := b.PossibleMoves(1, 2)
	if !ok {
		fmt.Println("cell (1, 2) is off the board")
		return
	}

	fmt.Printf("Possible moves from %s:", rules.FormatSquare(board.Point{Row: 1, Col: 2}))
	for _, m := range moves {
		fmt.Printf(" %s", rules.FormatSquare(m))
	}
	fmt.Println()
}
