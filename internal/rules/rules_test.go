// FILE: internal/rules/rules_test.go
package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"konane/internal/board"
)

func TestParseMove(t *testing.T) {
	m, err := ParseMove("a1a3")
	require.NoError(t, err)
	require.Equal(t, Move{From: board.Point{Row: 0, Col: 0}, To: board.Point{Row: 2, Col: 0}}, m)
	require.Equal(t, "a1a3", m.String())

	m, err = ParseMove("f6d6")
	require.NoError(t, err)
	require.Equal(t, Move{From: board.Point{Row: 5, Col: 5}, To: board.Point{Row: 5, Col: 3}}, m)
}

func TestParseMoveRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "a1", "a1a", "a1a33", "g1a1", "a0a2", "a7a5", "11a3", "cccc"} {
		_, err := ParseMove(s)
		require.Error(t, err, "move %q", s)
	}
}

func TestSquareRoundTrip(t *testing.T) {
	for row := 0; row < board.Side; row++ {
		for col := 0; col < board.Side; col++ {
			p := board.Point{Row: row, Col: col}
			got, err := ParseSquare(FormatSquare(p))
			require.NoError(t, err)
			require.Equal(t, p, got)
		}
	}
}

func TestApplySingleJump(t *testing.T) {
	b := board.NewEmpty()
	b.Set(3, 3, board.Black)
	b.Set(3, 4, board.White)

	captured, err := Apply(b, mustMove(t, "d4f4"))
	require.NoError(t, err)
	require.Equal(t, 1, captured)

	p, _ := b.Get(3, 3)
	require.Equal(t, board.Empty, p)
	p, _ = b.Get(3, 4)
	require.Equal(t, board.Empty, p)
	p, _ = b.Get(3, 5)
	require.Equal(t, board.Black, p)
}

func TestApplyChainedJump(t *testing.T) {
	b := board.NewEmpty()
	b.Set(0, 1, board.White)
	b.Set(0, 2, board.Black)
	b.Set(0, 4, board.Black)

	captured, err := Apply(b, mustMove(t, "b1f1"))
	require.NoError(t, err)
	require.Equal(t, 2, captured)

	for _, col := range []int{1, 2, 3, 4} {
		p, _ := b.Get(0, col)
		require.Equal(t, board.Empty, p, "col %d", col)
	}
	p, _ := b.Get(0, 5)
	require.Equal(t, board.White, p)
}

func TestApplyRejectsIllegalMoves(t *testing.T) {
	build := func() *board.Board {
		b := board.NewEmpty()
		b.Set(3, 3, board.Black)
		b.Set(3, 4, board.White)
		b.Set(3, 5, board.White)
		return b
	}

	cases := []struct {
		name string
		move string
	}{
		{"empty source", "a1a3"},
		{"diagonal", "d4f6"},
		{"odd distance", "d4e4"},
		{"occupied landing", "d4f4"},
		{"no piece to jump", "d4b4"},
		{"zero distance", "d4d4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := build()
			before := b.Layout()
			_, err := Apply(b, mustMove(t, tc.move))
			require.Error(t, err)
			require.Equal(t, before, b.Layout(), "illegal move must not mutate")
		})
	}
}

func TestMovesForFiltersOccupiedInterimLanding(t *testing.T) {
	// The geometric scan reports f1 from b1 even with d1 occupied by a
	// piece that would have to be jumped through; MovesFor must not.
	b := board.NewEmpty()
	b.Set(0, 1, board.White)
	b.Set(0, 2, board.Black)
	b.Set(0, 3, board.Black)
	b.Set(0, 4, board.Black)

	dests, ok := b.PossibleMoves(0, 1)
	require.True(t, ok)
	require.Equal(t, []board.Point{{Row: 0, Col: 5}}, dests)

	require.Empty(t, MovesFor(b, board.White))
}

func TestMovesForStartingBoard(t *testing.T) {
	b := board.NewDefault()

	// Full board: nobody can move until an opening piece is removed.
	require.Empty(t, MovesFor(b, board.Black))
	require.Empty(t, MovesFor(b, board.White))

	// Remove the white piece at d4 as an opening; white pieces two
	// cells away can now jump an adjacent black into the hole.
	b.Set(3, 3, board.Empty)
	require.Empty(t, MovesFor(b, board.Black))
	moves := MovesFor(b, board.White)
	require.Len(t, moves, 4)
	for _, m := range moves {
		require.Equal(t, board.Point{Row: 3, Col: 3}, m.To)
	}
}

func mustMove(t *testing.T, s string) Move {
	t.Helper()
	m, err := ParseMove(s)
	require.NoError(t, err)
	return m
}
