// FILE: internal/server/core/core.go
package core

import (
	"github.com/google/uuid"

	"konane/internal/board"
)

type State int

const (
	StateOngoing State = iota
	StatePending       // Computer is calculating a move
	StateStuck         // Computer move failed and the game cannot proceed
	StateBlackWins
	StateWhiteWins
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStuck:
		return "stuck"
	case StateBlackWins:
		return "black wins"
	case StateWhiteWins:
		return "white wins"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
	PlayerComputer
)

// Player is the complete player entity with all state
type Player struct {
	ID    string     `json:"id"`
	Color Color      `json:"color"`
	Type  PlayerType `json:"type"`
}

// PlayerConfig for API requests and configuration
type PlayerConfig struct {
	Type PlayerType `json:"type" validate:"required,oneof=1 2"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	Black *Player `json:"black"`
	White *Player `json:"white"`
}

// NewPlayer creates a Player from PlayerConfig
func NewPlayer(config PlayerConfig, color Color) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
		Type:  config.Type,
	}
}

type Color byte

const (
	ColorBlack Color = iota + 1
	ColorWhite
)

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "b"
	case ColorWhite:
		return "w"
	default:
		return "-"
	}
}

// ParseColor maps the wire form back to a Color; ok is false for
// anything but "b" or "w".
func ParseColor(s string) (Color, bool) {
	switch s {
	case "b":
		return ColorBlack, true
	case "w":
		return ColorWhite, true
	default:
		return 0, false
	}
}

func OppositeColor(c Color) Color {
	if c == ColorBlack {
		return ColorWhite
	}
	return ColorBlack
}

// Piece returns the board piece this color plays.
func (c Color) Piece() board.Piece {
	if c == ColorBlack {
		return board.Black
	}
	return board.White
}
