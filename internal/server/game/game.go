// FILE: internal/server/game/game.go

// Package game holds the in-memory aggregate for one Konane game: the
// position history as snapshots, the two players, and the terminal
// state. Undo is a truncation of the snapshot list.
package game

import (
	"fmt"

	"konane/internal/board"
	"konane/internal/server/core"
)

// Snapshot fixes the game at one point: the position, the move that
// produced it, and whose turn comes next.
type Snapshot struct {
	Layout        string          `json:"layout"`
	PreviousMove  string          `json:"previousMove"`
	NextTurnColor core.Color      `json:"nextTurnColor"`
	PlayerType    core.PlayerType `json:"playerType"`
	PlayerID      string          `json:"playerId"`
}

// MoveResult describes the most recently applied move.
type MoveResult struct {
	Move        string     `json:"move"`
	PlayerColor core.Color `json:"playerColor"`
	GameState   core.State `json:"gameState"`
	Captured    int        `json:"captured"`
}

type Game struct {
	snapshots  []Snapshot
	players    map[core.Color]*core.Player
	state      core.State
	lastResult *MoveResult
}

func New(initialLayout string, blackPlayer, whitePlayer *core.Player, startingTurnColor core.Color) *Game {
	players := map[core.Color]*core.Player{
		core.ColorBlack: blackPlayer,
		core.ColorWhite: whitePlayer,
	}

	return &Game{
		snapshots: []Snapshot{{
			Layout:        initialLayout,
			NextTurnColor: startingTurnColor,
			PlayerType:    players[startingTurnColor].Type,
			PlayerID:      players[startingTurnColor].ID,
		}},
		players: players,
		state:   core.StateOngoing,
	}
}

// CurrentSnapshot is the newest snapshot; there is always at least the
// initial one.
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

func (g *Game) CurrentLayout() string {
	return g.CurrentSnapshot().Layout
}

func (g *Game) NextTurnColor() core.Color {
	return g.CurrentSnapshot().NextTurnColor
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurnColor()]
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	return g.players[color]
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// AddSnapshot appends the position after a move; the turn passes to
// nextTurnColor.
func (g *Game) AddSnapshot(layout, move string, nextTurnColor core.Color) {
	g.snapshots = append(g.snapshots, Snapshot{
		Layout:        layout,
		PreviousMove:  move,
		NextTurnColor: nextTurnColor,
		PlayerType:    g.players[nextTurnColor].Type,
		PlayerID:      g.players[nextTurnColor].ID,
	})
}

// UpdatePlayers swaps in a new player configuration mid-game and
// rebinds the current snapshot to the side now on move.
func (g *Game) UpdatePlayers(blackPlayer, whitePlayer *core.Player) {
	g.players[core.ColorBlack] = blackPlayer
	g.players[core.ColorWhite] = whitePlayer

	current := &g.snapshots[len(g.snapshots)-1]
	current.PlayerType = g.players[current.NextTurnColor].Type
	current.PlayerID = g.players[current.NextTurnColor].ID
}

// UndoMoves truncates the history by count moves. Any win state is
// cleared since the position it belonged to is gone.
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	available := len(g.snapshots) - 1
	if available < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, available)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.state = core.StateOngoing
	g.lastResult = nil
	return nil
}

// Moves lists the applied moves in play order.
func (g *Game) Moves() []string {
	moves := []string{}
	for _, snap := range g.snapshots[1:] {
		if snap.PreviousMove != "" {
			moves = append(moves, snap.PreviousMove)
		}
	}
	return moves
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) SetState(s core.State) {
	g.state = s
}

func (g *Game) InitialLayout() string {
	if len(g.snapshots) > 0 {
		return g.snapshots[0].Layout
	}
	return board.StartingLayout
}
