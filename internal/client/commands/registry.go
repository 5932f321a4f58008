// FILE: internal/client/commands/registry.go

// Package commands implements the interactive shell of the debug
// client. Commands are registered under a long name and a one-letter
// alias and grouped as game, auth, and utility commands.
package commands

import (
	"fmt"
	"os"
	"strings"

	"konane/internal/client/api"
	"konane/internal/client/display"
)

// ConnState covers the API connection settings a handler may touch.
type ConnState interface {
	GetAPIBaseURL() string
	SetAPIBaseURL(string)
	GetClient() any
	IsVerbose() bool
}

// GameState tracks which game the shell is attached to and what the
// server last reported about it.
type GameState interface {
	GetCurrentGame() string
	SetCurrentGame(string)
	GetLastMoveCount() int
	SetLastMoveCount(int)
	SetGameState(any)
	SetPlayerColor(string)
	GetPlayerColor() string
}

// AuthState holds the logged-in user and token.
type AuthState interface {
	GetCurrentUser() string
	SetCurrentUser(string)
	GetAuthToken() string
	SetAuthToken(string)
	GetUsername() string
	SetUsername(string)
}

// Session is the state a command handler may read and mutate. The
// concrete implementation lives with the client binary; the interface
// keeps the dependency pointing this way.
type Session interface {
	ConnState
	GameState
	AuthState
}

type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(Session, []string) error
}

type Registry struct {
	session  Session
	commands map[string]*Command
}

func NewRegistry(session Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerAuthCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})
	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute parses one input line and dispatches to the named command.
func (r *Registry) Execute(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	cmd, ok := r.commands[parts[0]]
	if !ok {
		alertf("Unknown command: %s", parts[0])
		fmt.Println("Type 'help' for available commands")
		return
	}

	// Session verbosity may have been toggled since the last command
	if cl, ok := r.session.GetClient().(*api.Client); ok {
		cl.SetVerbose(r.session.IsVerbose())
	}

	if err := cmd.Handler(r.session, parts[1:]); err != nil {
		alertf("Error: %v", err)
	}
}

// helpGroups fixes the display order of the help listing; the command
// map alone would print in random order.
var helpGroups = []struct {
	title string
	names []string
}{
	{"Game Commands", []string{"new", "join", "move", "moves", "computer", "undo", "show", "state", "delete", "poll"}},
	{"Auth Commands", []string{"register", "login", "logout", "whoami", "user"}},
	{"Utility Commands", []string{"health", "url", "raw", "clear", "help", "exit"}},
}

func (r *Registry) helpHandler(s Session, args []string) error {
	if len(args) > 0 {
		cmd, ok := r.commands[args[0]]
		if !ok {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Printf("\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Printf("Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Printf("\n%sAvailable Commands:%s\n\n", display.Cyan, display.Reset)

	for i, group := range helpGroups {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s%s:%s\n", display.Yellow, group.title, display.Reset)
		for _, name := range group.names {
			cmd, ok := r.commands[name]
			if !ok {
				continue
			}
			alias := ""
			if cmd.ShortName != "" {
				alias = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Printf("  %s%-10s %s\n", alias, cmd.Name, cmd.Description)
		}
	}

	fmt.Printf("\nType 'help <command>' for detailed usage\n")
	fmt.Printf("Add '-v' to any command for verbose output\n")
	return nil
}

func exitHandler(s Session, args []string) error {
	infof("Goodbye!")
	os.Exit(0)
	return nil
}
