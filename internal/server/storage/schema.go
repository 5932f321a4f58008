// FILE: internal/server/storage/schema.go
package storage

import "time"

// Schema is applied on startup; every statement is idempotent so a
// restart against an existing file is safe.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL COLLATE NOCASE,
	email TEXT COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	account_type TEXT NOT NULL DEFAULT 'temp' CHECK(account_type IN ('permanent', 'temp')),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME,
	last_login_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_account_type ON users(account_type);
CREATE INDEX IF NOT EXISTS idx_users_expires_at ON users(expires_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_unique ON users(email) WHERE email IS NOT NULL AND email != '';

CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);

CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_layout TEXT NOT NULL,
	starting_turn TEXT NOT NULL CHECK(starting_turn IN ('b', 'w')),
	black_player_id TEXT NOT NULL,
	black_type INTEGER NOT NULL,
	white_player_id TEXT NOT NULL,
	white_type INTEGER NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move TEXT NOT NULL,
	layout_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('b', 'w')),
	captured INTEGER NOT NULL DEFAULT 0,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_black_player ON games(black_player_id);
CREATE INDEX IF NOT EXISTS idx_games_white_player ON games(white_player_id);
`

// UserRecord is one row of the users table. ExpiresAt is nil for
// permanent accounts.
type UserRecord struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	AccountType  string     `db:"account_type"`
	CreatedAt    time.Time  `db:"created_at"`
	ExpiresAt    *time.Time `db:"expires_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
}

// SessionRecord is one row of the sessions table; a user holds at most
// one session at a time.
type SessionRecord struct {
	SessionID string    `db:"session_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// GameRecord is one row of the games table.
type GameRecord struct {
	GameID        string    `db:"game_id"`
	InitialLayout string    `db:"initial_layout"`
	StartingTurn  string    `db:"starting_turn"`
	BlackPlayerID string    `db:"black_player_id"`
	BlackType     int       `db:"black_type"`
	WhitePlayerID string    `db:"white_player_id"`
	WhiteType     int       `db:"white_type"`
	StartTimeUTC  time.Time `db:"start_time_utc"`
}

// MoveRecord is one row of the moves table. MoveNumber starts at 1 and
// is unique per game.
type MoveRecord struct {
	MoveID          int64     `db:"move_id"`
	GameID          string    `db:"game_id"`
	MoveNumber      int       `db:"move_number"`
	Move            string    `db:"move"`
	LayoutAfterMove string    `db:"layout_after_move"`
	PlayerColor     string    `db:"player_color"`
	Captured        int       `db:"captured"`
	MoveTimeUTC     time.Time `db:"move_time_utc"`
}
