// Package main implements an interactive debugging client for the
// konane server API.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"konane/internal/client/api"
	"konane/internal/client/commands"
	"konane/internal/client/display"
	"konane/internal/client/session"

	"github.com/chzyer/readline"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	s := &session.Session{
		APIBaseURL: defaultAPIURL,
		Client:     api.New(defaultAPIURL),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("konane"),
		HistoryFile:     ".konane_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sKonane Debug Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit", "x":
			return
		}

		// A trailing -v makes just this command verbose.
		s.Verbose = strings.HasSuffix(line, " -v")
		line = strings.TrimSuffix(line, " -v")

		registry.Execute(line)
	}
}

// sideLabel colors the side name the way the board rendering does.
func sideLabel(color string) string {
	if color == "b" {
		return display.Red + "Black" + display.Reset
	}
	return display.Blue + "White" + display.Reset
}

// buildPrompt folds the session context into the prompt: logged-in
// user, attached game, the seat being played, and whose turn it is.
func buildPrompt(s *session.Session) string {
	parts := []string{}

	if s.Username != "" {
		parts = append(parts, display.Magenta+s.Username+display.Reset)
	}
	if s.Username != "" && s.CurrentGame != "" {
		parts = append(parts, display.Yellow+" - "+display.Reset)
	}
	if s.CurrentGame != "" {
		parts = append(parts, display.White+s.CurrentGame[:8]+display.Reset)
	}
	if s.CurrentGameState != nil && s.PlayerColor != "" {
		parts = append(parts, sideLabel(s.PlayerColor))
	}

	promptStr := "konane"
	if len(parts) > 0 {
		promptStr += display.Yellow + " [" + display.Reset + strings.Join(parts, "") + display.Yellow + "]"
	}

	if gs := s.CurrentGameState; gs != nil {
		seat := gs.Players.Black
		if gs.Turn == "w" {
			seat = gs.Players.White
		}
		playerType := "h"
		if seat.Type == 2 {
			playerType = "c"
		}
		promptStr += fmt.Sprintf(" - Turn:%s(%s)", sideLabel(gs.Turn), playerType)
	}

	return display.Prompt(promptStr)
}
