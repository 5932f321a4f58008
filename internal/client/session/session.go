// FILE: internal/client/session/session.go

// Package session holds the interactive client's mutable state between
// commands.
package session

import "konane/internal/client/api"

type Session struct {
	APIBaseURL       string
	Client           *api.Client
	Verbose          bool
	AuthToken        string
	CurrentUser      string
	Username         string
	CurrentGame      string
	LastMoveCount    int
	CurrentGameState *api.GameResponse
	PlayerColor      string // "b" or "w" when playing in the current game
}

func (s *Session) GetAPIBaseURL() string     { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string)  { s.APIBaseURL = url }
func (s *Session) GetCurrentGame() string    { return s.CurrentGame }
func (s *Session) SetCurrentGame(id string)  { s.CurrentGame = id }
func (s *Session) GetCurrentUser() string    { return s.CurrentUser }
func (s *Session) SetCurrentUser(id string)  { s.CurrentUser = id }
func (s *Session) GetAuthToken() string      { return s.AuthToken }
func (s *Session) SetAuthToken(t string)     { s.AuthToken = t }
func (s *Session) GetUsername() string       { return s.Username }
func (s *Session) SetUsername(name string)   { s.Username = name }
func (s *Session) GetLastMoveCount() int     { return s.LastMoveCount }
func (s *Session) SetLastMoveCount(n int)    { s.LastMoveCount = n }
func (s *Session) GetClient() any            { return s.Client }
func (s *Session) IsVerbose() bool           { return s.Verbose }
func (s *Session) GetPlayerColor() string    { return s.PlayerColor }
func (s *Session) SetPlayerColor(c string)   { s.PlayerColor = c }

func (s *Session) SetGameState(state any) {
	if gs, ok := state.(*api.GameResponse); ok {
		s.CurrentGameState = gs
	}
}
