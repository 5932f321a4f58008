// FILE: internal/server/processor/processor.go

// Package processor executes game commands against the service layer.
// Each command resolves to a single ProcessorResponse; computer move
// searches run asynchronously on the mover queue and report back
// through the game state.
package processor

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode"

	"konane/internal/board"
	"konane/internal/rules"
	"konane/internal/server/core"
	"konane/internal/server/game"
	"konane/internal/server/service"
)

// Six slash-separated rank fields of piece letters and empty-run digits.
var layoutPattern = regexp.MustCompile(`^[BW1-6]+(?:/[BW1-6]+){5}$`)

type Processor struct {
	svc   *service.Service
	queue *MoverQueue
}

// New creates a processor with its own mover worker pool.
func New(svc *service.Service) *Processor {
	return &Processor{
		svc:   svc,
		queue: NewMoverQueue(2),
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdConfigurePlayers:
		return p.handleConfigurePlayers(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdPossibleMoves:
		return p.handlePossibleMoves(cmd)
	default:
		return fail("unknown command", core.ErrInvalidRequest)
	}
}

// Close shuts down the mover queue.
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}

func fail(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

func ok(data any) ProcessorResponse {
	return ProcessorResponse{Success: true, Data: data}
}

// lookup fetches a game by ID, producing a ready-made not-found
// response when it does not exist.
func (p *Processor) lookup(gameID string) (*game.Game, ProcessorResponse, bool) {
	g, err := p.svc.GetGame(gameID)
	if err != nil {
		return nil, fail("game not found", core.ErrGameNotFound), false
	}
	return g, ProcessorResponse{}, true
}

// safeLayout rejects control characters before the pattern match so a
// hostile layout string never reaches the parser.
func safeLayout(layout string) bool {
	for _, r := range layout {
		if unicode.IsControl(r) {
			return false
		}
	}
	return layoutPattern.MatchString(layout)
}

// safeMove accepts exactly four characters of [a-f][1-6][a-f][1-6].
func safeMove(move string) bool {
	if len(move) != 4 {
		return false
	}
	for _, r := range move {
		if unicode.IsControl(r) {
			return false
		}
	}
	return move[0] >= 'a' && move[0] <= 'f' &&
		move[1] >= '1' && move[1] <= '6' &&
		move[2] >= 'a' && move[2] <= 'f' &&
		move[3] >= '1' && move[3] <= '6'
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, isReq := cmd.Args.(core.CreateGameRequest)
	if !isReq {
		return fail("invalid arguments", core.ErrInvalidRequest)
	}

	gameID := p.svc.GenerateGameID()

	// A supplied layout is parsed and re-serialized so the stored form
	// is canonical.
	initialLayout := board.StartingLayout
	if args.Layout != "" {
		if !safeLayout(args.Layout) {
			return fail("invalid layout format or characters", core.ErrInvalidLayout)
		}
		b, err := board.ParseLayout(args.Layout)
		if err != nil {
			return fail(fmt.Sprintf("invalid layout: %v", err), core.ErrInvalidLayout)
		}
		initialLayout = b.Layout()
	}

	// Black moves first unless a turn is given.
	startingTurn := core.ColorBlack
	if args.Turn != "" {
		c, valid := core.ParseColor(args.Turn)
		if !valid {
			return fail(fmt.Sprintf("invalid turn %q", args.Turn), core.ErrInvalidRequest)
		}
		startingTurn = c
	}

	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)
	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)

	// Human seats belong to the authenticated user when there is one.
	if cmd.UserID != "" {
		if args.Black.Type == core.PlayerHuman {
			blackPlayer.ID = cmd.UserID
		}
		if args.White.Type == core.PlayerHuman {
			whitePlayer.ID = cmd.UserID
		}
	}

	if err := p.svc.CreateGame(gameID, blackPlayer, whitePlayer, initialLayout, startingTurn); err != nil {
		return fail(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	// A custom layout may already be a finished position. The standard
	// full board is exempt whether defaulted or sent explicitly: nobody
	// can move on it until opening removals produce a gap, and those
	// happen through layout setup.
	if initialLayout != board.StartingLayout {
		p.checkGameEnd(gameID, initialLayout, core.OppositeColor(startingTurn))
	}

	g, err := p.svc.GetGame(gameID)
	if err != nil {
		return fail("game creation failed", core.ErrInternalError)
	}

	return ok(p.gameResponse(gameID, g))
}

func (p *Processor) handleConfigurePlayers(cmd Command) ProcessorResponse {
	args, isReq := cmd.Args.(core.ConfigurePlayersRequest)
	if !isReq {
		return fail("invalid arguments", core.ErrInvalidRequest)
	}

	g, errResp, found := p.lookup(cmd.GameID)
	if !found {
		return errResp
	}

	if g.State() == core.StatePending {
		return fail("cannot change players while computer is calculating", core.ErrInvalidRequest)
	}

	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)
	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)

	if err := p.svc.UpdatePlayers(cmd.GameID, blackPlayer, whitePlayer); err != nil {
		return fail(fmt.Sprintf("failed to update players: %v", err), core.ErrInternalError)
	}

	g, _ = p.svc.GetGame(cmd.GameID)
	return ok(p.gameResponse(cmd.GameID, g))
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, errResp, found := p.lookup(cmd.GameID)
	if !found {
		return errResp
	}
	return ok(p.gameResponse(cmd.GameID, g))
}

// handleMakeMove applies a human move, or kicks off a computer search
// when the sentinel "cccc" arrives on a computer seat's turn.
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, isReq := cmd.Args.(core.MoveRequest)
	if !isReq {
		return fail("invalid arguments", core.ErrInvalidRequest)
	}

	g, errResp, found := p.lookup(cmd.GameID)
	if !found {
		return errResp
	}

	switch g.State() {
	case core.StatePending:
		return fail("computer move in progress", core.ErrInvalidRequest)
	case core.StateStuck:
		return fail("game is stuck due to mover error", core.ErrGameOver)
	case core.StateBlackWins, core.StateWhiteWins:
		return fail(fmt.Sprintf("game is over: %s", g.State()), core.ErrGameOver)
	case core.StateOngoing:
		break
	default:
		return fail("game is in invalid state", core.ErrInvalidRequest)
	}

	if strings.TrimSpace(args.Move) == "cccc" {
		if g.NextPlayer().Type != core.PlayerComputer {
			return fail("not computer player's turn", core.ErrNotHumanTurn)
		}

		p.svc.UpdateGameState(cmd.GameID, core.StatePending)
		p.triggerComputerMove(cmd.GameID, g)

		g, _ = p.svc.GetGame(cmd.GameID)
		response := p.gameResponse(cmd.GameID, g)
		response.LastMove = &core.MoveInfo{
			PlayerColor: g.NextTurnColor().String(),
		}

		return ProcessorResponse{
			Success: true,
			Pending: true,
			Data:    response,
		}
	}

	if g.NextPlayer().Type != core.PlayerHuman {
		return fail("not human player's turn", core.ErrNotHumanTurn)
	}

	moveStr := strings.ToLower(strings.TrimSpace(args.Move))
	if !safeMove(moveStr) {
		return fail("invalid move format", core.ErrInvalidMove)
	}

	currentColor := g.NextTurnColor()

	move, err := rules.ParseMove(moveStr)
	if err != nil {
		return fail("invalid move format", core.ErrInvalidMove)
	}

	b, err := board.ParseLayout(g.CurrentLayout())
	if err != nil {
		return fail("corrupt game layout", core.ErrInternalError)
	}

	// Only the side to move may be jumped from.
	piece, _ := b.Get(move.From.Row, move.From.Col)
	if piece != currentColor.Piece() {
		return fail("no piece of the moving color at source", core.ErrInvalidMove)
	}

	captured, err := rules.Apply(b, move)
	if err != nil {
		return fail(fmt.Sprintf("illegal move: %v", err), core.ErrInvalidMove)
	}
	newLayout := b.Layout()

	if err = p.svc.ApplyMove(cmd.GameID, moveStr, newLayout, captured); err != nil {
		return fail(fmt.Sprintf("failed to apply move: %v", err), core.ErrInternalError)
	}

	p.svc.SetLastMoveResult(cmd.GameID, &game.MoveResult{
		Move:        moveStr,
		PlayerColor: currentColor,
		GameState:   core.StateOngoing,
		Captured:    captured,
	})

	// Opponent with no moves loses.
	p.checkGameEnd(cmd.GameID, newLayout, currentColor)

	g, _ = p.svc.GetGame(cmd.GameID)
	response := p.gameResponse(cmd.GameID, g)
	response.LastMove = &core.MoveInfo{
		Move:        moveStr,
		PlayerColor: currentColor.String(),
		Captured:    captured,
	}

	return ok(response)
}

func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	g, errResp, found := p.lookup(cmd.GameID)
	if !found {
		return errResp
	}

	switch g.State() {
	case core.StatePending:
		return fail("cannot undo while computer move is in progress", core.ErrInvalidRequest)
	case core.StateStuck:
		return fail("cannot undo in stuck game", core.ErrInvalidRequest)
	}

	args := core.UndoRequest{Count: 1}
	if req, isReq := cmd.Args.(core.UndoRequest); isReq {
		args = req
	}

	if err := p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return fail("game not found", core.ErrGameNotFound)
		}
		return fail(err.Error(), core.ErrInvalidRequest)
	}

	// A win state belongs to the undone position, so play resumes.
	p.svc.UpdateGameState(cmd.GameID, core.StateOngoing)

	g, _ = p.svc.GetGame(cmd.GameID)
	return ok(p.gameResponse(cmd.GameID, g))
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	g, errResp, found := p.lookup(cmd.GameID)
	if !found {
		return errResp
	}

	// Deletion is only blocked while a search is actively running.
	if g.State() == core.StatePending {
		return fail("cannot delete game while computer move is in progress", core.ErrInvalidRequest)
	}

	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return fail("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{Success: true}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, errResp, found := p.lookup(cmd.GameID)
	if !found {
		return errResp
	}

	b, err := board.ParseLayout(g.CurrentLayout())
	if err != nil {
		return fail("error parsing layout", core.ErrInvalidLayout)
	}

	return ok(core.BoardResponse{
		Layout: g.CurrentLayout(),
		Board:  b.String(),
	})
}

func (p *Processor) handlePossibleMoves(cmd Command) ProcessorResponse {
	g, errResp, found := p.lookup(cmd.GameID)
	if !found {
		return errResp
	}

	from, err := rules.ParseSquare(cmd.From)
	if err != nil {
		return fail(fmt.Sprintf("invalid square: %v", err), core.ErrOutOfRange)
	}

	b, err := board.ParseLayout(g.CurrentLayout())
	if err != nil {
		return fail("corrupt game layout", core.ErrInternalError)
	}

	dests, inRange := b.PossibleMoves(from.Row, from.Col)
	if !inRange {
		return fail("square is off the board", core.ErrOutOfRange)
	}

	destinations := []string{}
	for _, d := range dests {
		destinations = append(destinations, rules.FormatSquare(d))
	}

	return ok(core.PossibleMovesResponse{
		From:         cmd.From,
		Destinations: destinations,
	})
}

// triggerComputerMove submits an async search. The callback applies
// the result only if the game still exists and is still pending. A
// rejected submission marks the game stuck so it is never left
// pending with no search running.
func (p *Processor) triggerComputerMove(gameID string, g *game.Game) {
	layout := g.CurrentLayout()
	color := g.NextTurnColor()

	err := p.queue.SubmitAsync(gameID, layout, color, func(result MoverResult) {
		currentGame, err := p.svc.GetGame(gameID)
		if err != nil {
			return
		}
		if currentGame.State() != core.StatePending {
			return
		}

		if result.Error != nil {
			log.Printf("Mover error for game %s: %v", gameID, result.Error)
			p.svc.UpdateGameState(gameID, core.StateStuck)
			return
		}

		// No moves for the side to move means the opponent already won.
		if result.NoMoves {
			p.svc.UpdateGameState(gameID, winState(core.OppositeColor(color)))
			return
		}

		move, err := rules.ParseMove(result.Move)
		if err != nil {
			log.Printf("Mover returned malformed move %q for game %s", result.Move, gameID)
			p.svc.UpdateGameState(gameID, core.StateStuck)
			return
		}

		b, err := board.ParseLayout(layout)
		if err != nil {
			p.svc.UpdateGameState(gameID, core.StateStuck)
			return
		}
		captured, err := rules.Apply(b, move)
		if err != nil {
			log.Printf("Mover move %s rejected for game %s: %v", result.Move, gameID, err)
			p.svc.UpdateGameState(gameID, core.StateStuck)
			return
		}
		newLayout := b.Layout()

		p.svc.ApplyMove(gameID, result.Move, newLayout, captured)
		p.svc.SetLastMoveResult(gameID, &game.MoveResult{
			Move:        result.Move,
			PlayerColor: color,
			GameState:   core.StateOngoing,
			Captured:    captured,
		})

		p.svc.UpdateGameState(gameID, core.StateOngoing)
		p.checkGameEnd(gameID, newLayout, color)
	})
	if err != nil {
		log.Printf("Mover submit failed for game %s: %v", gameID, err)
		p.svc.UpdateGameState(gameID, core.StateStuck)
	}
}

func winState(winner core.Color) core.State {
	if winner == core.ColorBlack {
		return core.StateBlackWins
	}
	return core.StateWhiteWins
}

// checkGameEnd applies the losing condition: if the opponent of the
// side that just moved has no jump available, the mover wins.
func (p *Processor) checkGameEnd(gameID, layout string, lastMoveBy core.Color) {
	b, err := board.ParseLayout(layout)
	if err != nil {
		return
	}

	opponent := core.OppositeColor(lastMoveBy)
	if len(rules.MovesFor(b, opponent.Piece())) == 0 {
		p.svc.UpdateGameState(gameID, winState(lastMoveBy))
	}
}

func (p *Processor) gameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID: gameID,
		Layout: g.CurrentLayout(),
		Turn:   g.NextTurnColor().String(),
		State:  g.State().String(),
		Moves:  g.Moves(),
		Players: core.PlayersResponse{
			Black: g.GetPlayer(core.ColorBlack),
			White: g.GetPlayer(core.ColorWhite),
		},
	}

	if result := g.LastResult(); result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        result.Move,
			PlayerColor: result.PlayerColor.String(),
			Captured:    result.Captured,
		}
	}

	return resp
}
