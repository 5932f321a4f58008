// FILE: internal/client/commands/game.go
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"konane/internal/client/api"
	"konane/internal/client/display"
)

func (r *Registry) registerGameCommands() {
	for _, cmd := range []*Command{
		{
			Name:        "new",
			ShortName:   "n",
			Description: "Create a new game",
			Usage:       "new",
			Handler:     newGameHandler,
		},
		{
			Name:        "join",
			ShortName:   "j",
			Description: "Join/set current game ID",
			Usage:       "join <gameId>",
			Handler:     joinGameHandler,
		},
		{
			Name:        "move",
			ShortName:   "m",
			Description: "Make a move",
			Usage:       "move <from><to>, e.g. move a1a3",
			Handler:     moveHandler,
		},
		{
			Name:        "moves",
			ShortName:   "f",
			Description: "List jump destinations from a cell",
			Usage:       "moves <square>, e.g. moves d4",
			Handler:     possibleMovesHandler,
		},
		{
			Name:        "computer",
			ShortName:   "c",
			Description: "Trigger computer move",
			Usage:       "computer",
			Handler:     computerMoveHandler,
		},
		{
			Name:        "undo",
			ShortName:   "u",
			Description: "Undo moves",
			Usage:       "undo [count]",
			Handler:     undoHandler,
		},
		{
			Name:        "show",
			ShortName:   "h",
			Description: "Show board and game state",
			Usage:       "show",
			Handler:     showBoardHandler,
		},
		{
			Name:        "state",
			ShortName:   "s",
			Description: "Show raw game JSON",
			Usage:       "state",
			Handler:     gameStateHandler,
		},
		{
			Name:        "delete",
			ShortName:   "d",
			Description: "Delete a game",
			Usage:       "delete [gameId]",
			Handler:     deleteGameHandler,
		},
		{
			Name:        "poll",
			ShortName:   "p",
			Description: "Long-poll for game updates",
			Usage:       "poll",
			Handler:     pollHandler,
		},
	} {
		r.Register(cmd)
	}
}

// currentGame returns the active game ID or an error telling the user
// how to get one.
func currentGame(s Session) (string, error) {
	gameID := s.GetCurrentGame()
	if gameID == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return gameID, nil
}

// trackGame stores the server's game view in the session.
func trackGame(s Session, resp *api.GameResponse) {
	s.SetLastMoveCount(len(resp.Moves))
	s.SetGameState(resp)
}

// bindPlayerColor records which side the logged-in user plays, if any.
func bindPlayerColor(s Session, resp *api.GameResponse) {
	userID := s.GetCurrentUser()
	if userID == "" {
		return
	}
	switch userID {
	case resp.Players.Black.ID:
		s.SetPlayerColor("b")
	case resp.Players.White.ID:
		s.SetPlayerColor("w")
	default:
		s.SetPlayerColor("")
	}
}

// promptPlayerType asks for h (human) or c (computer), defaulting to
// human.
func promptPlayerType(scanner *bufio.Scanner, side string) api.PlayerConfig {
	fmt.Print(display.Yellow + side + " player type (h/c) [h]: " + display.Reset)
	scanner.Scan()
	cfg := api.PlayerConfig{Type: 1}
	if strings.ToLower(strings.TrimSpace(scanner.Text())) == "c" {
		cfg.Type = 2
	}
	return cfg
}

// awaitComputer polls until a pending computer move resolves, then
// reports what the computer played.
func awaitComputer(c *api.Client, s Session, gameID string) error {
	notef("Computer is thinking...")
	for i := 0; i < 50; i++ {
		time.Sleep(200 * time.Millisecond)
		resp, err := c.GetGame(gameID)
		if err != nil || resp.State == "pending" {
			continue
		}
		trackGame(s, resp)
		if resp.LastMove != nil {
			fmt.Printf("%sComputer played: %s%s", display.Magenta, resp.LastMove.Move, display.Reset)
			if resp.LastMove.Captured > 0 {
				fmt.Printf(" (captured %d)", resp.LastMove.Captured)
			}
			fmt.Println()
		}
		return nil
	}
	return fmt.Errorf("timeout waiting for computer move")
}

func newGameHandler(s Session, args []string) error {
	scanner := bufio.NewScanner(os.Stdin)
	c := s.GetClient().(*api.Client)

	fmt.Println("\n" + display.Cyan + "Creating new game..." + display.Reset)

	// Black moves first, so it is prompted first
	black := promptPlayerType(scanner, "Black")
	white := promptPlayerType(scanner, "White")

	fmt.Print(display.Yellow + "Starting position (layout) [default]: " + display.Reset)
	scanner.Scan()
	layout := strings.TrimSpace(scanner.Text())

	resp, err := c.CreateGame(&api.CreateGameRequest{
		Black:  black,
		White:  white,
		Layout: layout,
	})
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	trackGame(s, resp)
	bindPlayerColor(s, resp)

	successf("Game created: %s", resp.GameID)
	infof("Current game set to: %s", resp.GameID)

	if black.Type == 2 {
		fmt.Println()
		notef("Triggering black computer move...")
		time.Sleep(100 * time.Millisecond)
		if _, err := c.MakeMove(resp.GameID, "cccc"); err != nil {
			alertf("Failed to trigger computer move: %v", err)
		}
	}

	return nil
}

func joinGameHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	gameID := args[0]
	c := s.GetClient().(*api.Client)

	resp, err := c.GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetCurrentGame(gameID)
	trackGame(s, resp)
	bindPlayerColor(s, resp)

	successf("Joined game: %s", gameID)
	fmt.Printf("Turn: %s | State: %s | Moves: %d\n", resp.Turn, resp.State, len(resp.Moves))

	return nil
}

func moveHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <from><to>, e.g. move a1a3")
	}

	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.MakeMove(gameID, args[0])
	if err != nil {
		return err
	}

	trackGame(s, resp)
	successf("Move accepted")
	if resp.LastMove != nil && resp.LastMove.Captured > 0 {
		fmt.Printf("Captured: %d\n", resp.LastMove.Captured)
	}

	// When the opponent is a computer, trigger it right away
	computersTurn := (resp.Turn == "b" && resp.Players.Black.Type == 2) ||
		(resp.Turn == "w" && resp.Players.White.Type == 2)
	if computersTurn && resp.State == "ongoing" {
		fmt.Println()
		notef("Computer's turn, triggering move...")
		time.Sleep(100 * time.Millisecond)
		trigger, err := c.MakeMove(gameID, "cccc")
		if err != nil {
			alertf("Failed to trigger computer move: %v", err)
		} else if trigger.State == "pending" {
			if err := awaitComputer(c, s, gameID); err != nil {
				alertf("%v", err)
			}
		}
	}

	return nil
}

func possibleMovesHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: moves <square>, e.g. moves d4")
	}

	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.PossibleMoves(gameID, args[0])
	if err != nil {
		return err
	}

	if len(resp.Destinations) == 0 {
		warnf("No jumps from %s", resp.From)
		return nil
	}

	fmt.Printf("%sJumps from %s:%s %s\n", display.Cyan, resp.From, display.Reset,
		strings.Join(resp.Destinations, " "))
	return nil
}

func computerMoveHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.MakeMove(gameID, "cccc")
	if err != nil {
		return err
	}

	if resp.State == "pending" {
		return awaitComputer(c, s, gameID)
	}

	s.SetLastMoveCount(len(resp.Moves))
	successf("Move triggered")
	return nil
}

func undoHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		count, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.UndoMoves(gameID, count)
	if err != nil {
		return err
	}

	s.SetLastMoveCount(len(resp.Moves))
	successf("Undid %d move(s)", count)
	return nil
}

func showBoardHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient().(*api.Client)

	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}
	board, err := c.GetBoard(gameID)
	if err != nil {
		return err
	}

	trackGame(s, game)

	fmt.Println()
	display.RenderBoard(board.Board)

	fmt.Printf("\nLayout: %s\n", game.Layout)
	fmt.Printf("Turn: %s | State: %s | Moves: %d\n",
		display.ColorForTurn(game.Turn), game.State, len(game.Moves))

	if len(game.Moves) > 0 {
		fmt.Printf("\nHistory: ")
		for i, move := range game.Moves {
			if i%2 == 0 {
				// Black and white moves are paired per turn number
				if i > 0 {
					fmt.Print(" ")
				}
				fmt.Printf("%d.%s", (i/2)+1, move)
			} else {
				fmt.Printf("  %s", move)
			}
		}
		fmt.Println()
	}

	if game.LastMove != nil {
		color := "Black"
		if game.LastMove.PlayerColor == "w" {
			color = "White"
		}
		fmt.Printf("Last move: %s by %s", game.LastMove.Move, color)
		if game.LastMove.Captured > 0 {
			fmt.Printf(" (captured %d)", game.LastMove.Captured)
		}
		fmt.Println()
	}

	return nil
}

func gameStateHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetLastMoveCount(len(resp.Moves))

	infof("Game State:")
	display.PrettyPrintJSON(resp)

	return nil
}

func deleteGameHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	c := s.GetClient().(*api.Client)
	if err := c.DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.GetCurrentGame() {
		s.SetCurrentGame("")
		s.SetLastMoveCount(0)
	}

	successf("Game deleted: %s", gameID)
	return nil
}

func pollHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient().(*api.Client)
	moveCount := s.GetLastMoveCount()

	infof("Long-polling for updates (move count: %d)...", moveCount)
	infof("This may take up to 25 seconds")

	resp, err := c.GetGameWithPoll(gameID, moveCount)
	if err != nil {
		return err
	}

	trackGame(s, resp)

	if len(resp.Moves) > moveCount {
		successf("Game updated! New moves detected")
		if resp.LastMove != nil {
			fmt.Printf("Last move: %s\n", resp.LastMove.Move)
		}
	} else {
		warnf("No updates (timeout)")
	}

	return nil
}
