// FILE: internal/client/api/client.go

// Package api is the typed HTTP client for the game server. Every
// request and response status is echoed to the terminal; verbose mode
// adds pretty-printed bodies. This is a debug client, chatty output is
// the point.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"konane/internal/client/display"
)

const apiPrefix = "/api/v1"

type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
	Verbose    bool
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		// Longer than the server's long-poll window
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

func (c *Client) SetBaseURL(u string) {
	c.BaseURL = strings.TrimRight(u, "/")
}

func (c *Client) SetToken(token string) {
	c.AuthToken = token
}

func (c *Client) doRequest(method, path string, body, result any) error {
	var bodyReader io.Reader
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	c.echoRequest(method, path, encoded)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		fmt.Printf("%s[ERROR] %v%s\n", display.Red, err, display.Reset)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	c.echoResponse(resp.StatusCode, respBody)

	if resp.StatusCode >= 400 {
		c.echoError(respBody)
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			fmt.Printf("%sResponse parse error: %v%s\n", display.Red, err, display.Reset)
			fmt.Printf("%sRaw response: %s%s\n", display.Green, respBody, display.Reset)
			return err
		}
	}

	return nil
}

func (c *Client) echoRequest(method, path string, body []byte) {
	fmt.Printf("\n%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if len(body) == 0 {
		return
	}
	if c.Verbose {
		fmt.Printf("%sRequest Body:%s\n%s\n", display.Cyan, display.Reset, reindent(body))
	} else {
		fmt.Printf("%s%s%s\n", display.Blue, body, display.Reset)
	}
}

func (c *Client) echoResponse(status int, body []byte) {
	statusColor := display.Green
	if status >= 400 {
		statusColor = display.Red
	}
	fmt.Printf("%s[%d %s]%s\n", statusColor, status, http.StatusText(status), display.Reset)

	if c.Verbose && len(body) > 0 {
		fmt.Printf("%sResponse Body:%s\n%s\n", display.Cyan, display.Reset, reindent(body))
	}
}

// echoError surfaces the server's error envelope in non-verbose mode;
// verbose mode already printed the whole body.
func (c *Client) echoError(body []byte) {
	if c.Verbose {
		return
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		fmt.Printf("%s%s%s\n", display.Red, body, display.Reset)
		return
	}
	fmt.Printf("%sError: %s%s\n", display.Red, errResp.Error, display.Reset)
	if errResp.Code != "" {
		fmt.Printf("%sCode: %s%s\n", display.Red, errResp.Code, display.Reset)
	}
	if errResp.Details != "" {
		fmt.Printf("%sDetails: %s%s\n", display.Red, errResp.Details, display.Reset)
	}
}

// reindent re-marshals a JSON body with indentation, falling back to
// the raw text when the body is not JSON.
func reindent(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(pretty)
}

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest("GET", "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req *CreateGameRequest) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest("POST", apiPrefix+"/games", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest("GET", apiPrefix+"/games/"+gameID, nil, &resp)
	return &resp, err
}

// GetGameWithPoll long-polls: the server answers once the game's move
// count exceeds moveCount, or after its wait window expires.
func (c *Client) GetGameWithPoll(gameID string, moveCount int) (*GameResponse, error) {
	var resp GameResponse
	path := fmt.Sprintf("%s/games/%s?wait=true&moveCount=%d", apiPrefix, gameID, moveCount)
	err := c.doRequest("GET", path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest("DELETE", apiPrefix+"/games/"+gameID, nil, nil)
}

func (c *Client) MakeMove(gameID, move string) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest("POST", apiPrefix+"/games/"+gameID+"/moves", &MoveRequest{Move: move}, &resp)
	return &resp, err
}

// PossibleMoves asks for the capture destinations from one square.
func (c *Client) PossibleMoves(gameID, from string) (*PossibleMovesResponse, error) {
	var resp PossibleMovesResponse
	path := fmt.Sprintf("%s/games/%s/moves?from=%s", apiPrefix, gameID, url.QueryEscape(from))
	err := c.doRequest("GET", path, nil, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest("POST", apiPrefix+"/games/"+gameID+"/undo", &UndoRequest{Count: count}, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*BoardResponse, error) {
	var resp BoardResponse
	err := c.doRequest("GET", apiPrefix+"/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}

func (c *Client) Register(username, password, email string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.doRequest("POST", apiPrefix+"/auth/register", &RegisterRequest{
		Username: username,
		Password: password,
		Email:    email,
	}, &resp)
	return &resp, err
}

func (c *Client) Login(identifier, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.doRequest("POST", apiPrefix+"/auth/login", &LoginRequest{
		Identifier: identifier,
		Password:   password,
	}, &resp)
	return &resp, err
}

func (c *Client) Logout() error {
	return c.doRequest("POST", apiPrefix+"/auth/logout", nil, nil)
}

func (c *Client) GetCurrentUser() (*UserResponse, error) {
	var resp UserResponse
	err := c.doRequest("GET", apiPrefix+"/auth/me", nil, &resp)
	return &resp, err
}

// RawRequest sends an arbitrary request, for poking at the API from
// the client shell.
func (c *Client) RawRequest(method, path, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			bodyData = body
		}
	}
	return c.doRequest(method, path, bodyData, nil)
}
