// FILE: internal/server/game/game_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"konane/internal/board"
	"konane/internal/server/core"
)

func newTestGame() (*Game, *core.Player, *core.Player) {
	black := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorBlack)
	white := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorWhite)
	return New(board.StartingLayout, black, white, core.ColorBlack), black, white
}

func TestNewGameInitialState(t *testing.T) {
	g, black, _ := newTestGame()

	require.Equal(t, core.StateOngoing, g.State())
	require.Equal(t, board.StartingLayout, g.CurrentLayout())
	require.Equal(t, board.StartingLayout, g.InitialLayout())
	require.Equal(t, core.ColorBlack, g.NextTurnColor())
	require.Equal(t, black, g.NextPlayer())
	require.Empty(t, g.Moves())
}

func TestAddSnapshotAdvancesTurn(t *testing.T) {
	g, _, white := newTestGame()

	g.AddSnapshot("2BWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW", "a1c1", core.ColorWhite)

	require.Equal(t, core.ColorWhite, g.NextTurnColor())
	require.Equal(t, white, g.NextPlayer())
	require.Equal(t, []string{"a1c1"}, g.Moves())
	require.Equal(t, white.ID, g.CurrentSnapshot().PlayerID)
}

func TestUndoMoves(t *testing.T) {
	g, _, _ := newTestGame()
	g.AddSnapshot("layout-1", "a1c1", core.ColorWhite)
	g.AddSnapshot("layout-2", "b1b3", core.ColorBlack)
	g.SetState(core.StateBlackWins)
	g.SetLastResult(&MoveResult{Move: "b1b3", PlayerColor: core.ColorWhite})

	require.Error(t, g.UndoMoves(0))
	require.Error(t, g.UndoMoves(3))

	require.NoError(t, g.UndoMoves(1))
	require.Equal(t, "layout-1", g.CurrentLayout())
	require.Equal(t, core.StateOngoing, g.State())
	require.Nil(t, g.LastResult())

	require.NoError(t, g.UndoMoves(1))
	require.Equal(t, board.StartingLayout, g.CurrentLayout())
	require.Empty(t, g.Moves())
}

func TestUpdatePlayersRebindsCurrentSnapshot(t *testing.T) {
	g, _, _ := newTestGame()

	newBlack := core.NewPlayer(core.PlayerConfig{Type: core.PlayerComputer}, core.ColorBlack)
	newWhite := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorWhite)
	g.UpdatePlayers(newBlack, newWhite)

	require.Equal(t, newBlack, g.GetPlayer(core.ColorBlack))
	require.Equal(t, newWhite, g.GetPlayer(core.ColorWhite))
	require.Equal(t, newBlack.ID, g.CurrentSnapshot().PlayerID)
}
