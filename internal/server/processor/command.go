// FILE: internal/server/processor/command.go
package processor

import (
	"konane/internal/server/core"
)

// CommandType selects which operation the processor runs.
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdConfigurePlayers
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdUndoMove
	CmdGetBoard
	CmdPossibleMoves
)

// Command carries one operation through the processor loop. Args holds
// the request DTO for commands that take a body; GameID and From are
// route-level parameters.
type Command struct {
	Type   CommandType
	UserID string
	GameID string
	From   string
	Args   any
}

// ProcessorResponse is the uniform result envelope. Pending marks an
// accepted computer move still being searched.
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Pending bool                `json:"pending,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{Type: CmdCreateGame, Args: req}
}

func NewConfigurePlayersCommand(gameID string, req core.ConfigurePlayersRequest) Command {
	return Command{Type: CmdConfigurePlayers, GameID: gameID, Args: req}
}

func NewGetGameCommand(gameID string) Command {
	return Command{Type: CmdGetGame, GameID: gameID}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{Type: CmdDeleteGame, GameID: gameID}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{Type: CmdMakeMove, GameID: gameID, Args: req}
}

func NewUndoMoveCommand(gameID string, req core.UndoRequest) Command {
	return Command{Type: CmdUndoMove, GameID: gameID, Args: req}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{Type: CmdGetBoard, GameID: gameID}
}

func NewPossibleMovesCommand(gameID, from string) Command {
	return Command{Type: CmdPossibleMoves, GameID: gameID, From: from}
}
