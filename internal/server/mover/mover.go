// FILE: internal/server/mover/mover.go

// Package mover picks moves for computer players. It is a single-ply
// greedy chooser over the rules layer, not a game-tree search.
package mover

import (
	"fmt"

	"konane/internal/board"
	"konane/internal/rules"
	"konane/internal/server/core"
)

// SearchResult describes a chosen move.
type SearchResult struct {
	BestMove string
	Captured int
	// NoMoves is set when the side to move has no legal move, which
	// loses the game in Konane.
	NoMoves bool
}

// Greedy selects the legal move capturing the most pieces, breaking
// ties by enumeration order. Deterministic for a given position.
type Greedy struct{}

func New() *Greedy {
	return &Greedy{}
}

// Search picks a move for the given color on the given position.
func (g *Greedy) Search(layout string, color core.Color) (*SearchResult, error) {
	b, err := board.ParseLayout(layout)
	if err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	moves := rules.MovesFor(b, color.Piece())
	if len(moves) == 0 {
		return &SearchResult{NoMoves: true}, nil
	}

	best := moves[0]
	bestCaptured := captures(best)
	for _, m := range moves[1:] {
		if c := captures(m); c > bestCaptured {
			best = m
			bestCaptured = c
		}
	}

	return &SearchResult{
		BestMove: best.String(),
		Captured: bestCaptured,
	}, nil
}

// captures is the jump-chain length: one captured piece per two cells
// of travel.
func captures(m rules.Move) int {
	d := (m.To.Row - m.From.Row) + (m.To.Col - m.From.Col)
	if d < 0 {
		d = -d
	}
	return d / 2
}
