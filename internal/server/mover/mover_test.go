// FILE: internal/server/mover/mover_test.go
package mover

import (
	"testing"

	"github.com/stretchr/testify/require"

	"konane/internal/board"
	"konane/internal/server/core"
)

func TestSearchPrefersLongerChain(t *testing.T) {
	b := board.NewEmpty()
	// White at b1 can jump one piece (c1) or, via d1, chain through e1.
	b.Set(0, 1, board.White)
	b.Set(0, 2, board.Black)
	b.Set(0, 4, board.Black)
	// Independent single jump for white elsewhere.
	b.Set(4, 1, board.White)
	b.Set(4, 2, board.Black)

	res, err := New().Search(b.Layout(), core.ColorWhite)
	require.NoError(t, err)
	require.False(t, res.NoMoves)
	require.Equal(t, "b1f1", res.BestMove)
	require.Equal(t, 2, res.Captured)
}

func TestSearchNoMoves(t *testing.T) {
	res, err := New().Search(board.StartingLayout, core.ColorBlack)
	require.NoError(t, err)
	require.True(t, res.NoMoves)
	require.Empty(t, res.BestMove)
}

func TestSearchDeterministic(t *testing.T) {
	b := board.NewEmpty()
	b.Set(2, 2, board.Black)
	b.Set(2, 3, board.White)
	b.Set(3, 2, board.White)

	first, err := New().Search(b.Layout(), core.ColorBlack)
	require.NoError(t, err)
	second, err := New().Search(b.Layout(), core.ColorBlack)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSearchRejectsBadLayout(t *testing.T) {
	_, err := New().Search("not-a-layout", core.ColorBlack)
	require.Error(t, err)
}
