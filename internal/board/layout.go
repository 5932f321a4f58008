// FILE: internal/board/layout.go
package board

import (
	"fmt"
	"strings"
)

// StartingLayout is the standard starting position: black and white
// alternating across every row.
const StartingLayout = "BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW"

// ParseLayout builds a board from its text layout: six rank fields
// separated by '/', top row first, 'B' and 'W' for pieces and digits
// 1-6 for runs of empty cells.
func ParseLayout(layout string) (*Board, error) {
	ranks := strings.Split(layout, "/")
	if len(ranks) != Side {
		return nil, fmt.Errorf("invalid layout: expected %d ranks, got %d", Side, len(ranks))
	}

	b := NewEmpty()
	for row := 0; row < Side; row++ {
		col := 0
		for _, ch := range ranks[row] {
			switch {
			case ch >= '1' && ch <= '6':
				col += int(ch - '0')
			case ch == 'B' || ch == 'W':
				if col >= Side {
					return nil, fmt.Errorf("invalid layout: too many cells in rank %d", row+1)
				}
				piece := Black
				if ch == 'W' {
					piece = White
				}
				b.cells[row*Side+col] = piece
				col++
			default:
				return nil, fmt.Errorf("invalid layout: unexpected character %q in rank %d", ch, row+1)
			}
		}
		if col != Side {
			return nil, fmt.Errorf("invalid layout: rank %d has %d cells", row+1, col)
		}
	}

	return b, nil
}

// Layout returns the text layout of the board, the inverse of
// ParseLayout.
func (b *Board) Layout() string {
	var sb strings.Builder
	for row := 0; row < Side; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < Side; col++ {
			p := b.cells[row*Side+col]
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}
