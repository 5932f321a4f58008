// FILE: internal/server/processor/processor_test.go
package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"konane/internal/board"
	"konane/internal/server/core"
	"konane/internal/server/service"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	svc := service.New(nil, []byte("test-secret-minimum-32-characters!!"))
	p := New(svc)
	t.Cleanup(func() { p.Close() })
	return p
}

func humanVsHuman() core.CreateGameRequest {
	return core.CreateGameRequest{
		Black: core.PlayerConfig{Type: core.PlayerHuman},
		White: core.PlayerConfig{Type: core.PlayerHuman},
	}
}

func createGame(t *testing.T, p *Processor, req core.CreateGameRequest) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand(req))
	require.True(t, resp.Success, "create game failed: %+v", resp.Error)
	data, ok := resp.Data.(core.GameResponse)
	require.True(t, ok)
	return data
}

func TestCreateGameDefaults(t *testing.T) {
	p := newTestProcessor(t)

	data := createGame(t, p, humanVsHuman())
	require.NotEmpty(t, data.GameID)
	require.Equal(t, "BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW/BWBWBW", data.Layout)
	require.Equal(t, "b", data.Turn)
	require.Equal(t, "ongoing", data.State)
	require.Empty(t, data.Moves)
}

func TestCreateGameCustomLayoutAndTurn(t *testing.T) {
	p := newTestProcessor(t)

	req := humanVsHuman()
	req.Layout = "B1W3/6/6/6/6/6"
	req.Turn = "w"
	data := createGame(t, p, req)
	require.Equal(t, "B1W3/6/6/6/6/6", data.Layout)
	require.Equal(t, "w", data.Turn)
}

func TestCreateGameExplicitStartingLayout(t *testing.T) {
	p := newTestProcessor(t)

	// Sending the full starting board explicitly must behave exactly
	// like omitting the layout: no side can move yet, so the game
	// stays ongoing instead of being decided at creation.
	req := humanVsHuman()
	req.Layout = board.StartingLayout
	data := createGame(t, p, req)
	require.Equal(t, board.StartingLayout, data.Layout)
	require.Equal(t, "b", data.Turn)
	require.Equal(t, "ongoing", data.State)
}

func TestCreateGameRejectsBadLayout(t *testing.T) {
	p := newTestProcessor(t)

	req := humanVsHuman()
	req.Layout = "XYZ/6/6/6/6/6"
	resp := p.Execute(NewCreateGameCommand(req))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrInvalidLayout, resp.Error.Code)
}

func TestMakeMoveAndCapture(t *testing.T) {
	p := newTestProcessor(t)

	// d4 removed from the full board leaves black at d2..d6 jumps open
	req := humanVsHuman()
	req.Layout = "BWBWBW/BWBWBW/BWBWBW/BWB1BW/BWBWBW/BWBWBW"
	req.Turn = "w"
	data := createGame(t, p, req)

	// White at d3 jumps over... d3 holds W? Column d is index 3, row 3
	// is empty. White sits on odd linear indices, so f4 and b4 are
	// white; f4 jumps over e4 (black) into d4.
	resp := p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "f4d4"}))
	require.True(t, resp.Success, "move failed: %+v", resp.Error)
	moved := resp.Data.(core.GameResponse)
	require.Equal(t, "b", moved.Turn)
	require.NotNil(t, moved.LastMove)
	require.Equal(t, "f4d4", moved.LastMove.Move)
	require.Equal(t, 1, moved.LastMove.Captured)
	require.Len(t, moved.Moves, 1)
}

func TestMakeMoveRejectsIllegal(t *testing.T) {
	p := newTestProcessor(t)

	data := createGame(t, p, humanVsHuman())

	cases := []string{
		"a1a2", // odd distance
		"a1b2", // diagonal
		"zz99", // garbage squares
		"a1a1", // zero distance
	}
	for _, move := range cases {
		resp := p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: move}))
		require.False(t, resp.Success, "move %q should be rejected", move)
		require.Equal(t, core.ErrInvalidMove, resp.Error.Code)
	}
}

func TestMakeMoveRejectsWrongColor(t *testing.T) {
	p := newTestProcessor(t)

	// Black to move, but c2 holds a white piece
	req := humanVsHuman()
	req.Layout = "BW4/2WB2/6/6/6/6"
	data := createGame(t, p, req)

	resp := p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "c2e2"}))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrInvalidMove, resp.Error.Code)
}

func TestWinDetection(t *testing.T) {
	p := newTestProcessor(t)

	// Black jumps a1->c1 capturing the only white piece; white then has
	// no moves and black wins.
	req := humanVsHuman()
	req.Layout = "BW4/6/6/6/6/6"
	data := createGame(t, p, req)

	resp := p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "a1c1"}))
	require.True(t, resp.Success, "move failed: %+v", resp.Error)
	moved := resp.Data.(core.GameResponse)
	require.Equal(t, "black wins", moved.State)

	// Further moves are rejected once the game is over
	resp = p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "c1a1"}))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrGameOver, resp.Error.Code)
}

func TestComputerMovePlaysGreedily(t *testing.T) {
	p := newTestProcessor(t)

	req := core.CreateGameRequest{
		Black:  core.PlayerConfig{Type: core.PlayerComputer},
		White:  core.PlayerConfig{Type: core.PlayerHuman},
		Layout: "BW1W2/6/6/6/6/6",
	}
	data := createGame(t, p, req)

	resp := p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "cccc"}))
	require.True(t, resp.Success, "trigger failed: %+v", resp.Error)
	require.True(t, resp.Pending)

	// Wait for the async worker to apply the move
	require.Eventually(t, func() bool {
		r := p.Execute(NewGetGameCommand(data.GameID))
		if !r.Success {
			return false
		}
		g := r.Data.(core.GameResponse)
		return len(g.Moves) == 1
	}, 2*time.Second, 20*time.Millisecond)

	r := p.Execute(NewGetGameCommand(data.GameID))
	g := r.Data.(core.GameResponse)
	// Only chain a1->c1->e1 captures two, the greedy mover must take it
	require.Equal(t, []string{"a1e1"}, g.Moves)
	require.Equal(t, "black wins", g.State)
}

func TestComputerTriggerAfterShutdownMarksStuck(t *testing.T) {
	p := newTestProcessor(t)

	req := core.CreateGameRequest{
		Black:  core.PlayerConfig{Type: core.PlayerComputer},
		White:  core.PlayerConfig{Type: core.PlayerHuman},
		Layout: "BW1W2/6/6/6/6/6",
	}
	data := createGame(t, p, req)

	// With the queue gone the submit fails immediately; the game must
	// land in stuck rather than staying pending forever.
	require.NoError(t, p.Close())

	resp := p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "cccc"}))
	require.True(t, resp.Success, "trigger failed: %+v", resp.Error)

	r := p.Execute(NewGetGameCommand(data.GameID))
	require.True(t, r.Success)
	g := r.Data.(core.GameResponse)
	require.Equal(t, "stuck", g.State)

	// A stuck game rejects further play
	resp = p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "a1c1"}))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrGameOver, resp.Error.Code)
}

func TestComputerSentinelRejectedOnHumanTurn(t *testing.T) {
	p := newTestProcessor(t)

	data := createGame(t, p, humanVsHuman())
	resp := p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "cccc"}))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrNotHumanTurn, resp.Error.Code)
}

func TestPossibleMoves(t *testing.T) {
	p := newTestProcessor(t)

	// Black at d4, whites at d5 and e4, landings beyond them empty
	req := humanVsHuman()
	req.Layout = "6/6/6/3BW1/3W2/6"
	data := createGame(t, p, req)

	resp := p.Execute(NewPossibleMovesCommand(data.GameID, "d4"))
	require.True(t, resp.Success, "query failed: %+v", resp.Error)
	pm := resp.Data.(core.PossibleMovesResponse)
	require.Equal(t, "d4", pm.From)
	require.ElementsMatch(t, []string{"d6", "f4"}, pm.Destinations)
}

func TestPossibleMovesRejectsBadSquare(t *testing.T) {
	p := newTestProcessor(t)

	data := createGame(t, p, humanVsHuman())
	resp := p.Execute(NewPossibleMovesCommand(data.GameID, "z9"))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrOutOfRange, resp.Error.Code)
}

func TestUndoMove(t *testing.T) {
	p := newTestProcessor(t)

	req := humanVsHuman()
	req.Layout = "BWBWBW/BWBWBW/BWBWBW/BWB1BW/BWBWBW/BWBWBW"
	req.Turn = "w"
	data := createGame(t, p, req)

	resp := p.Execute(NewMakeMoveCommand(data.GameID, core.MoveRequest{Move: "f4d4"}))
	require.True(t, resp.Success)

	resp = p.Execute(NewUndoMoveCommand(data.GameID, core.UndoRequest{Count: 1}))
	require.True(t, resp.Success, "undo failed: %+v", resp.Error)
	undone := resp.Data.(core.GameResponse)
	require.Equal(t, "BWBWBW/BWBWBW/BWBWBW/BWB1BW/BWBWBW/BWBWBW", undone.Layout)
	require.Equal(t, "w", undone.Turn)
	require.Empty(t, undone.Moves)

	// Nothing left to undo
	resp = p.Execute(NewUndoMoveCommand(data.GameID, core.UndoRequest{Count: 1}))
	require.False(t, resp.Success)
}

func TestGameNotFound(t *testing.T) {
	p := newTestProcessor(t)

	resp := p.Execute(NewGetGameCommand("no-such-game"))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrGameNotFound, resp.Error.Code)
}

func TestDeleteGame(t *testing.T) {
	p := newTestProcessor(t)

	data := createGame(t, p, humanVsHuman())
	resp := p.Execute(NewDeleteGameCommand(data.GameID))
	require.True(t, resp.Success)

	resp = p.Execute(NewGetGameCommand(data.GameID))
	require.False(t, resp.Success)
}

func TestGetBoard(t *testing.T) {
	p := newTestProcessor(t)

	req := humanVsHuman()
	req.Layout = "BW4/6/6/6/6/6"
	data := createGame(t, p, req)

	resp := p.Execute(NewGetBoardCommand(data.GameID))
	require.True(t, resp.Success)
	board := resp.Data.(core.BoardResponse)
	require.Equal(t, "BW4/6/6/6/6/6", board.Layout)
	require.Contains(t, board.Board, "B W")
}
