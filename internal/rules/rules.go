// FILE: internal/rules/rules.go

// Package rules applies and enumerates Konane moves on top of the board
// core. The board answers which cells are geometrically reachable;
// this layer owns piece identity, physical executability, and the
// board mutation a move implies.
package rules

import (
	"fmt"

	"konane/internal/board"
)

// Move is a capturing jump from one cell to another along a rank or
// file. Notation is <file><rank><file><rank> with files a-f mapping to
// columns 0-5 and ranks 1-6 mapping to rows 0-5, e.g. "a1a3".
type Move struct {
	From board.Point
	To   board.Point
}

// ParseMove parses the four-character text notation.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return Move{}, fmt.Errorf("invalid move %q: expected 4 characters", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	return Move{From: from, To: to}, nil
}

func (m Move) String() string {
	return FormatSquare(m.From) + FormatSquare(m.To)
}

// ParseSquare parses a two-character cell name such as "d4".
func ParseSquare(s string) (board.Point, error) {
	if len(s) != 2 {
		return board.Point{}, fmt.Errorf("invalid square %q", s)
	}
	if s[0] < 'a' || s[0] > 'f' || s[1] < '1' || s[1] > '6' {
		return board.Point{}, fmt.Errorf("invalid square %q", s)
	}
	return board.Point{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}, nil
}

// FormatSquare is the inverse of ParseSquare.
func FormatSquare(p board.Point) string {
	return string([]byte{byte('a' + p.Col), byte('1' + p.Row)})
}

// Apply validates a move and mutates the board: every jumped piece is
// removed, the source cell is cleared, and the moving piece is placed
// on the destination. Returns the number of captured pieces.
//
// Unlike the board's geometric scan, Apply demands physical
// executability: every landing cell along the jump chain must be empty
// before the move, so a destination the scan reports beyond an occupied
// interim landing square is rejected here.
func Apply(b *board.Board, m Move) (int, error) {
	piece, ok := b.Get(m.From.Row, m.From.Col)
	if !ok {
		return 0, fmt.Errorf("source %s is off the board", FormatSquare(m.From))
	}
	if piece == board.Empty {
		return 0, fmt.Errorf("no piece at %s", FormatSquare(m.From))
	}
	if _, ok := b.Get(m.To.Row, m.To.Col); !ok {
		return 0, fmt.Errorf("destination %s is off the board", FormatSquare(m.To))
	}

	dRow := m.To.Row - m.From.Row
	dCol := m.To.Col - m.From.Col
	if (dRow != 0) == (dCol != 0) {
		return 0, fmt.Errorf("move %s is not along a rank or file", m)
	}

	dist := dRow + dCol
	if dist < 0 {
		dist = -dist
	}
	if dist%2 != 0 {
		return 0, fmt.Errorf("move %s has odd jump distance", m)
	}

	stepRow, stepCol := sign(dRow), sign(dCol)

	// Walk the chain first without mutating, so an illegal move leaves
	// the board untouched.
	for k := 0; k < dist; k += 2 {
		overRow := m.From.Row + stepRow*(k+1)
		overCol := m.From.Col + stepCol*(k+1)
		landRow := m.From.Row + stepRow*(k+2)
		landCol := m.From.Col + stepCol*(k+2)

		over, _ := b.Get(overRow, overCol)
		if over == board.Empty {
			return 0, fmt.Errorf("move %s jumps an empty cell", m)
		}
		land, _ := b.Get(landRow, landCol)
		if land != board.Empty {
			return 0, fmt.Errorf("move %s lands on an occupied cell", m)
		}
	}

	for k := 0; k < dist; k += 2 {
		b.Set(m.From.Row+stepRow*(k+1), m.From.Col+stepCol*(k+1), board.Empty)
	}
	b.Set(m.From.Row, m.From.Col, board.Empty)
	b.Set(m.To.Row, m.To.Col, piece)

	return dist / 2, nil
}

// MovesFor enumerates every executable move available to pieces of the
// given color. The result is empty when the player cannot move, which
// ends the game in Konane.
func MovesFor(b *board.Board, piece board.Piece) []Move {
	var moves []Move
	for row := 0; row < board.Side; row++ {
		for col := 0; col < board.Side; col++ {
			p, _ := b.Get(row, col)
			if p != piece {
				continue
			}
			from := board.Point{Row: row, Col: col}
			dests, _ := b.PossibleMoves(row, col)
			for _, to := range dests {
				if executable(b, from, to) {
					moves = append(moves, Move{From: from, To: to})
				}
			}
		}
	}
	return moves
}

// executable reports whether every landing cell between from and to is
// empty, filtering out the scan's past-occupied-landing destinations.
func executable(b *board.Board, from, to board.Point) bool {
	dist := (to.Row - from.Row) + (to.Col - from.Col)
	if dist < 0 {
		dist = -dist
	}
	stepRow, stepCol := sign(to.Row-from.Row), sign(to.Col-from.Col)

	for k := 2; k <= dist; k += 2 {
		land, _ := b.Get(from.Row+stepRow*k, from.Col+stepCol*k)
		if land != board.Empty {
			return false
		}
	}
	return true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
