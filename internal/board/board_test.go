// FILE: internal/board/board_test.go
package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEmptyAllCellsEmpty(t *testing.T) {
	b := NewEmpty()
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			p, ok := b.Get(row, col)
			require.True(t, ok)
			require.Equal(t, Empty, p)
		}
	}
}

func TestNewDefaultAlternatesFromBlack(t *testing.T) {
	b := NewDefault()

	p, ok := b.Get(0, 0)
	require.True(t, ok)
	require.Equal(t, Black, p)

	p, ok = b.Get(0, 1)
	require.True(t, ok)
	require.Equal(t, White, p)

	// Every row alternates independently, starting with black.
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			want := Black
			if col%2 == 1 {
				want = White
			}
			p, ok := b.Get(row, col)
			require.True(t, ok)
			require.Equal(t, want, p, "row %d col %d", row, col)
		}
	}
}

func TestGetOutOfRange(t *testing.T) {
	b := NewDefault()

	for _, pt := range []Point{{6, 0}, {0, 6}, {6, 6}, {-1, 0}, {0, -1}, {100, 100}} {
		_, ok := b.Get(pt.Row, pt.Col)
		require.False(t, ok, "expected out of range for %v", pt)

		_, ok = b.PossibleMoves(pt.Row, pt.Col)
		require.False(t, ok, "expected out of range for %v", pt)
	}
}

func TestSetReturnsPreviousPiece(t *testing.T) {
	b := NewEmpty()

	prev, ok := b.Set(0, 1, White)
	require.True(t, ok)
	require.Equal(t, Empty, prev)

	p, ok := b.Get(0, 1)
	require.True(t, ok)
	require.Equal(t, White, p)

	prev, ok = b.Set(0, 1, Black)
	require.True(t, ok)
	require.Equal(t, White, prev)

	p, ok = b.Get(0, 1)
	require.True(t, ok)
	require.Equal(t, Black, p)
}

func TestSetOutOfRangeDoesNotMutate(t *testing.T) {
	b := NewEmpty()

	_, ok := b.Set(6, 0, Black)
	require.False(t, ok)
	_, ok = b.Set(0, 6, Black)
	require.False(t, ok)

	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			p, _ := b.Get(row, col)
			require.Equal(t, Empty, p)
		}
	}
}

func TestPossibleMovesLonePiece(t *testing.T) {
	b := NewEmpty()
	b.Set(0, 0, Black)

	moves, ok := b.PossibleMoves(0, 0)
	require.True(t, ok)
	require.Empty(t, moves)
}

func TestPossibleMovesSingleJumps(t *testing.T) {
	b := NewEmpty()
	b.Set(3, 3, Black)
	b.Set(3, 4, White)
	b.Set(4, 3, White)

	moves, ok := b.PossibleMoves(3, 3)
	require.True(t, ok)
	require.ElementsMatch(t, []Point{{Row: 3, Col: 5}, {Row: 5, Col: 3}}, moves)
}

func TestPossibleMovesChainedJump(t *testing.T) {
	b := NewEmpty()
	b.Set(0, 0, Black)
	b.Set(0, 1, White)
	b.Set(0, 2, Black)
	b.Set(0, 4, Black)

	moves, ok := b.PossibleMoves(0, 1)
	require.True(t, ok)
	require.ElementsMatch(t, []Point{{Row: 0, Col: 3}, {Row: 0, Col: 5}}, moves)
}

func TestPossibleMovesPureQuery(t *testing.T) {
	b := NewEmpty()
	b.Set(3, 3, Black)
	b.Set(3, 4, White)

	first, ok := b.PossibleMoves(3, 3)
	require.True(t, ok)
	second, ok := b.PossibleMoves(3, 3)
	require.True(t, ok)
	require.Equal(t, first, second)

	// Board contents untouched by the query.
	p, _ := b.Get(3, 4)
	require.Equal(t, White, p)
}

func TestPossibleMovesEmptySourceAccepted(t *testing.T) {
	b := NewEmpty()
	b.Set(2, 3, White)

	// Source cell is empty; the query characterizes geometry only.
	moves, ok := b.PossibleMoves(2, 2)
	require.True(t, ok)
	require.Equal(t, []Point{{Row: 2, Col: 4}}, moves)
}

func TestPossibleMovesDefaultBoardNoGaps(t *testing.T) {
	b := NewDefault()

	// A full board has no landing squares anywhere.
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			moves, ok := b.PossibleMoves(row, col)
			require.True(t, ok)
			require.Empty(t, moves)
		}
	}
}

func TestString(t *testing.T) {
	b := NewEmpty()
	b.Set(0, 0, Black)
	b.Set(0, 1, White)

	lines := []string{
		"B W         ",
		"            ",
		"            ",
		"            ",
		"            ",
		"            ",
		"",
	}
	want := ""
	for i, l := range lines {
		want += l
		if i < len(lines)-1 {
			want += "\n"
		}
	}
	require.Equal(t, want, b.String())
}

func TestLayoutRoundTrip(t *testing.T) {
	b := NewEmpty()
	b.Set(0, 0, Black)
	b.Set(0, 1, White)
	b.Set(3, 3, Black)
	b.Set(5, 5, White)

	layout := b.Layout()
	require.Equal(t, "BW4/6/6/3B2/6/5W", layout)

	parsed, err := ParseLayout(layout)
	require.NoError(t, err)
	require.Equal(t, b, parsed)
}

func TestParseLayoutStarting(t *testing.T) {
	b, err := ParseLayout(StartingLayout)
	require.NoError(t, err)
	require.Equal(t, NewDefault(), b)
	require.Equal(t, StartingLayout, b.Layout())
}

func TestParseLayoutErrors(t *testing.T) {
	cases := []string{
		"",
		"BWBWBW",
		"BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW",
		"BWBWBWB/BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW",
		"BWBWB/BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW",
		"XWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW",
		"7/6/6/6/6/6",
	}
	for _, c := range cases {
		_, err := ParseLayout(c)
		require.Error(t, err, "layout %q", c)
	}
}
