// FILE: internal/client/api/types.go
package api

import "time"

// Request payloads

type PlayerConfig struct {
	Type int `json:"type"` // 1 = human, 2 = computer
}

type CreateGameRequest struct {
	Black  PlayerConfig `json:"black"`
	White  PlayerConfig `json:"white"`
	Layout string       `json:"layout,omitempty"`
	Turn   string       `json:"turn,omitempty"`
}

type MoveRequest struct {
	Move string `json:"move"`
}

type UndoRequest struct {
	Count int `json:"count"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Response payloads

type PlayerInfo struct {
	ID    string `json:"id"`
	Color int    `json:"color"`
	Type  int    `json:"type"`
}

type PlayersResponse struct {
	Black PlayerInfo `json:"black"`
	White PlayerInfo `json:"white"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"`
	Captured    int    `json:"captured,omitempty"`
}

type GameResponse struct {
	GameID   string          `json:"gameId"`
	Layout   string          `json:"layout"`
	Turn     string          `json:"turn"`
	State    string          `json:"state"`
	Moves    []string        `json:"moves"`
	Players  PlayersResponse `json:"players"`
	LastMove *MoveInfo       `json:"lastMove,omitempty"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"`
}

type PossibleMovesResponse struct {
	From         string   `json:"from"`
	Destinations []string `json:"destinations"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
