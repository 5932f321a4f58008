// FILE: internal/board/board.go

// Package board implements the Konane playing board and its
// capturing-jump move generation.
package board

import (
	"strings"
)

// Side is the board edge length. The board holds Side*Side cells in
// row-major order.
const Side = 6

// Piece is the content of a single cell.
type Piece uint8

const (
	Empty Piece = iota
	White
	Black
)

func (p Piece) String() string {
	switch p {
	case Black:
		return "B"
	case White:
		return "W"
	default:
		return " "
	}
}

// Point is a cell coordinate. Row 0 is the top row as rendered.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is a 6 per side square playing board, containing 36 cells.
// Each cell holds a white piece, a black piece, or nothing. The board
// owns its cells; it is not safe for concurrent use without external
// synchronization.
type Board struct {
	cells [Side * Side]Piece
}

// NewEmpty returns a board with every cell empty.
func NewEmpty() *Board {
	return &Board{}
}

// NewDefault returns a board in the standard starting layout: black and
// white alternate along the linear cell index, so every row alternates
// starting with black at column 0.
func NewDefault() *Board {
	b := NewEmpty()
	for i := 0; i < Side*Side; i += 2 {
		b.cells[i] = Black
		b.cells[i+1] = White
	}
	return b
}

func inRange(row, col int) bool {
	return row >= 0 && row < Side && col >= 0 && col < Side
}

// Get returns the piece at the given coordinate. The second return is
// false when the coordinate is off the board.
func (b *Board) Get(row, col int) (Piece, bool) {
	if !inRange(row, col) {
		return Empty, false
	}
	return b.cells[row*Side+col], true
}

// Set writes a piece into the given coordinate and returns the cell's
// previous content. Out-of-range coordinates leave the board untouched
// and return false.
func (b *Board) Set(row, col int, p Piece) (Piece, bool) {
	prev, ok := b.Get(row, col)
	if !ok {
		return Empty, false
	}
	b.cells[row*Side+col] = p
	return prev, true
}

// PossibleMoves returns every cell reachable from the source by one or
// more chained capturing jumps, scanning the four cardinal directions.
// Returns false when the source coordinate is off the board; an empty
// source cell is accepted and characterizes capture geometry only.
//
// An assumption is made that only enemy pieces sit adjacent to a piece,
// so the intervening cell is treated as capturable whenever it is
// non-empty; its color is not inspected. The scan also continues past
// occupied landing cells, so a reported destination further along the
// line is not necessarily executable as a single physical move.
func (b *Board) PossibleMoves(row, col int) ([]Point, bool) {
	if !inRange(row, col) {
		return nil, false
	}

	moves := []Point{}

	// Vertical
	for _, dir := range [2]int{-1, 1} {
		for jump := 0; ; jump += 2 {
			fromRow := row + dir*jump
			overRow := fromRow + dir
			toRow := fromRow + dir*2

			if toRow < 0 || toRow >= Side {
				break
			}

			over, _ := b.Get(overRow, col)
			if over == Empty {
				break
			}
			if to, _ := b.Get(toRow, col); to == Empty {
				moves = append(moves, Point{Row: toRow, Col: col})
			}
		}
	}

	// Horizontal
	for _, dir := range [2]int{-1, 1} {
		for jump := 0; ; jump += 2 {
			fromCol := col + dir*jump
			overCol := fromCol + dir
			toCol := fromCol + dir*2

			if toCol < 0 || toCol >= Side {
				break
			}

			over, _ := b.Get(row, overCol)
			if over == Empty {
				break
			}
			if to, _ := b.Get(row, toCol); to == Empty {
				moves = append(moves, Point{Row: row, Col: toCol})
			}
		}
	}

	return moves, true
}

// String renders the board one row per line, one glyph per cell, each
// followed by a separator space.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			sb.WriteString(b.cells[row*Side+col].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
