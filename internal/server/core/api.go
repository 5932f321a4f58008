// FILE: internal/server/core/api.go
package core

// Request types

type CreateGameRequest struct {
	Black  PlayerConfig `json:"black" validate:"required"`
	White  PlayerConfig `json:"white" validate:"required"`
	Layout string       `json:"layout,omitempty" validate:"omitempty,max=50"`
	Turn   string       `json:"turn,omitempty" validate:"omitempty,oneof=b w"`
}

type ConfigurePlayersRequest struct {
	Black PlayerConfig `json:"black" validate:"required"`
	White PlayerConfig `json:"white" validate:"required"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,len=4"` // "cccc" for computer move, otherwise <from><to> squares
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=36"` // A 36-cell board bounds the move history
}

// Response types

type GameResponse struct {
	GameID   string          `json:"gameId"`
	Layout   string          `json:"layout"`
	Turn     string          `json:"turn"`  // "b" or "w"
	State    string          `json:"state"` // "ongoing", "black wins", etc
	Moves    []string        `json:"moves"`
	Players  PlayersResponse `json:"players"`
	LastMove *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "b" or "w"
	Captured    int    `json:"captured,omitempty"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"` // Text rendering
}

// PossibleMovesResponse lists the destinations reachable from a source
// cell by chained capturing jumps.
type PossibleMovesResponse struct {
	From         string   `json:"from"`
	Destinations []string `json:"destinations"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
