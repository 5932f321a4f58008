// FILE: internal/client/commands/auth.go
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"konane/internal/client/api"
	"konane/internal/client/display"

	"golang.org/x/term"
)

func (r *Registry) registerAuthCommands() {
	for _, cmd := range []*Command{
		{
			Name:        "register",
			ShortName:   "r",
			Description: "Register a new user",
			Usage:       "register",
			Handler:     registerHandler,
		},
		{
			Name:        "login",
			ShortName:   "l",
			Description: "Login with credentials",
			Usage:       "login",
			Handler:     loginHandler,
		},
		{
			Name:        "logout",
			ShortName:   "o",
			Description: "Clear authentication",
			Usage:       "logout",
			Handler:     logoutHandler,
		},
		{
			Name:        "whoami",
			ShortName:   "i",
			Description: "Show current user",
			Usage:       "whoami",
			Handler:     whoamiHandler,
		},
		{
			Name:        "user",
			ShortName:   "e",
			Description: "Set user ID manually",
			Usage:       "user <userId>",
			Handler:     setUserHandler,
		},
	} {
		r.Register(cmd)
	}
}

// promptLine reads one trimmed line with a colored prompt.
func promptLine(scanner *bufio.Scanner, label string) string {
	fmt.Print(display.Yellow + label + display.Reset)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

// readPassword reads without echo.
func readPassword(label string) (string, error) {
	fmt.Print(display.Yellow + label + display.Reset)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// adoptAuth stores a fresh token in both the session and the client.
func adoptAuth(s Session, c *api.Client, resp *api.AuthResponse) {
	s.SetAuthToken(resp.Token)
	s.SetCurrentUser(resp.UserID)
	s.SetUsername(resp.Username)
	c.SetToken(resp.Token)
}

func registerHandler(s Session, args []string) error {
	scanner := bufio.NewScanner(os.Stdin)
	c := s.GetClient().(*api.Client)

	username := promptLine(scanner, "Username: ")
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	email := promptLine(scanner, "Email (optional): ")

	resp, err := c.Register(username, password, email)
	if err != nil {
		return err
	}

	adoptAuth(s, c, resp)

	successf("Registered successfully")
	fmt.Printf("User ID: %s\n", resp.UserID)
	fmt.Printf("Username: %s\n", resp.Username)

	return nil
}

func loginHandler(s Session, args []string) error {
	scanner := bufio.NewScanner(os.Stdin)
	c := s.GetClient().(*api.Client)

	identifier := promptLine(scanner, "Username or Email: ")
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := c.Login(identifier, password)
	if err != nil {
		return err
	}

	adoptAuth(s, c, resp)

	successf("Logged in successfully")
	fmt.Printf("User ID: %s\n", resp.UserID)
	fmt.Printf("Username: %s\n", resp.Username)

	return nil
}

func logoutHandler(s Session, args []string) error {
	c := s.GetClient().(*api.Client)

	// Drop the server-side session before clearing local state
	if s.GetAuthToken() != "" {
		if err := c.Logout(); err != nil {
			warnf("Server logout failed, clearing local session anyway")
		}
	}

	s.SetAuthToken("")
	s.SetCurrentUser("")
	s.SetUsername("")
	c.SetToken("")

	successf("Logged out")
	return nil
}

func whoamiHandler(s Session, args []string) error {
	if s.GetAuthToken() == "" {
		warnf("Not authenticated")
		return nil
	}

	c := s.GetClient().(*api.Client)
	user, err := c.GetCurrentUser()
	if err != nil {
		return err
	}

	infof("Current User:")
	fmt.Printf("  User ID:  %s\n", user.UserID)
	fmt.Printf("  Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Printf("  Email:    %s\n", user.Email)
	}
	fmt.Printf("  Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func setUserHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: user <userId>")
	}

	s.SetCurrentUser(args[0])
	infof("User ID set to: %s", args[0])
	fmt.Println("Note: This doesn't authenticate, just sets the ID for display")

	return nil
}
