// FILE: internal/server/storage/game.go
package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// enqueue hands a write to the async writer. Writes are dropped when
// the store is degraded or the queue is full; game history is
// best-effort and never blocks play.
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) {
	if !s.healthy.Load() {
		return
	}
	select {
	case s.writes <- fn:
	default:
		log.Printf("Storage write queue full, dropping %s", what)
	}
}

// RecordNewGame queues an insert for a newly created game.
func (s *Store) RecordNewGame(record GameRecord) error {
	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (
			game_id, initial_layout, starting_turn,
			black_player_id, black_type,
			white_player_id, white_type,
			start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.InitialLayout, record.StartingTurn,
			record.BlackPlayerID, record.BlackType,
			record.WhitePlayerID, record.WhiteType,
			record.StartTimeUTC,
		)
		return err
	})
	return nil
}

// RecordMove queues an insert for an applied move.
func (s *Store) RecordMove(record MoveRecord) error {
	s.enqueue("move record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO moves (
			game_id, move_number, move, layout_after_move, player_color, captured, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.MoveNumber, record.Move,
			record.LayoutAfterMove, record.PlayerColor, record.Captured, record.MoveTimeUTC,
		)
		return err
	})
	return nil
}

// DeleteUndoneMoves queues removal of move records past the given
// move number after an undo.
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) error {
	s.enqueue("undo deletion", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`,
			gameID, afterMoveNumber)
		return err
	})
	return nil
}

// QueryGames returns recorded games, newest first. Either filter may
// be empty or "*" to match everything.
func (s *Store) QueryGames(gameID, playerID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, initial_layout, starting_turn,
		black_player_id, black_type,
		white_player_id, white_type,
		start_time_utc
	FROM games WHERE 1=1`

	var args []any
	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	if playerID != "" && playerID != "*" {
		query += " AND (black_player_id = ? OR white_player_id = ?)"
		args = append(args, playerID, playerID)
	}
	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(
			&g.GameID, &g.InitialLayout, &g.StartingTurn,
			&g.BlackPlayerID, &g.BlackType,
			&g.WhitePlayerID, &g.WhiteType,
			&g.StartTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		games = append(games, g)
	}

	return games, rows.Err()
}

// QueryMoves returns the recorded moves of a game in play order.
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, move, layout_after_move, player_color, captured, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Move,
			&m.LayoutAfterMove, &m.PlayerColor, &m.Captured, &m.MoveTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan move row: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}
