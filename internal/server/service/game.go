// FILE: internal/server/service/game.go
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"konane/internal/server/core"
	"konane/internal/server/game"
	"konane/internal/server/storage"
)

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, blackPlayer, whitePlayer *core.Player, initialLayout string, startingTurn core.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}

	// Store game with provided players
	s.games[id] = game.New(initialLayout, blackPlayer, whitePlayer, startingTurn)

	// Persist if storage enabled
	if s.store != nil {
		record := storage.GameRecord{
			GameID:        id,
			InitialLayout: initialLayout,
			StartingTurn:  startingTurn.String(),
			BlackPlayerID: blackPlayer.ID,
			BlackType:     int(blackPlayer.Type),
			WhitePlayerID: whitePlayer.ID,
			WhiteType:     int(whitePlayer.Type),
			StartTimeUTC:  time.Now().UTC(),
		}
		s.store.RecordNewGame(record)
	}

	return nil
}

// UpdatePlayers replaces players in an existing game
func (s *Service) UpdatePlayers(gameID string, blackPlayer, whitePlayer *core.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	g.UpdatePlayers(blackPlayer, whitePlayer)

	return nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game not found: %s", gameID)
	}
	return g, nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Ensure UUID uniqueness (handle potential conflicts)
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove adds a validated move to the game history
func (s *Service) ApplyMove(gameID, move, newLayout string, captured int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	// Determine whose turn it was before this move
	currentTurn := g.NextTurnColor()
	nextTurn := core.OppositeColor(currentTurn)

	// Add the new position to game history
	g.AddSnapshot(newLayout, move, nextTurn)

	// Notify waiting clients about the state change
	s.waiter.NotifyGame(gameID, len(g.Moves()))

	// Persist if storage enabled
	if s.store != nil {
		moveNumber := len(g.Moves())
		record := storage.MoveRecord{
			GameID:          gameID,
			MoveNumber:      moveNumber,
			Move:            move,
			LayoutAfterMove: newLayout,
			PlayerColor:     currentTurn.String(),
			Captured:        captured,
			MoveTimeUTC:     time.Now().UTC(),
		}
		s.store.RecordMove(record)
	}

	return nil
}

// UpdateGameState sets the game's end state (win, stuck, etc)
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	g.SetState(state)

	// Notify if game ended
	if state != core.StateOngoing && state != core.StatePending {
		s.waiter.NotifyGame(gameID, len(g.Moves()))
	}

	return nil
}

// SetLastMoveResult stores metadata about the last move
func (s *Service) SetLastMoveResult(gameID string, result *game.MoveResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	g.SetLastResult(result)
	return nil
}

// UndoMoves removes count moves from the game history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	originalMoveCount := len(g.Moves())

	if err := g.UndoMoves(count); err != nil {
		return err
	}

	// Notify waiting clients about the undo
	s.waiter.NotifyGame(gameID, len(g.Moves()))

	// Delete undone moves from storage if enabled
	if s.store != nil {
		remainingMoves := originalMoveCount - count
		s.store.DeleteUndoneMoves(gameID, remainingMoves)
	}

	return nil
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	// Notify and remove all waiters before deletion
	s.waiter.RemoveGame(gameID)

	delete(s.games, gameID)
	return nil
}
