// FILE: internal/client/display/board.go
package display

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ANSI escape codes used across the client output.
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Prompt wraps the prompt text in the shell accent color. The trailing
// marker is re-colored because the text may carry its own resets.
func Prompt(text string) string {
	return Yellow + text + Yellow + " > " + Reset
}

// PrettyPrintJSON writes v as indented JSON to stdout.
func PrettyPrintJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%sCannot format response: %v%s\n", Red, err, Reset)
		return
	}
	fmt.Println(string(data))
}

// RenderBoard renders the server's board text with colored pieces and
// rank/file labels. The first line corresponds to rank 1.
func RenderBoard(boardText string) {
	lines := strings.Split(boardText, "\n")

	rank := 1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fmt.Printf("%s%d%s ", Cyan, rank, Reset)
		for _, char := range line {
			switch char {
			case 'B':
				// Black pieces - Red
				fmt.Printf("%s%c%s", Red, char, Reset)
			case 'W':
				// White pieces - Blue
				fmt.Printf("%s%c%s", Blue, char, Reset)
			default:
				fmt.Printf("%c", char)
			}
		}
		fmt.Println()
		rank++
	}

	fmt.Printf("%s  a b c d e f%s\n", Cyan, Reset)
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
