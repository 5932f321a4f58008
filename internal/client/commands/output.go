// FILE: internal/client/commands/output.go
package commands

import (
	"fmt"

	"konane/internal/client/display"
)

// Colored line printers shared by the command handlers. Each prints a
// single line in one color and restores the terminal default.

func successf(format string, a ...any) {
	fmt.Printf(display.Green+format+display.Reset+"\n", a...)
}

func infof(format string, a ...any) {
	fmt.Printf(display.Cyan+format+display.Reset+"\n", a...)
}

func warnf(format string, a ...any) {
	fmt.Printf(display.Yellow+format+display.Reset+"\n", a...)
}

func alertf(format string, a ...any) {
	fmt.Printf(display.Red+format+display.Reset+"\n", a...)
}

func notef(format string, a ...any) {
	fmt.Printf(display.Magenta+format+display.Reset+"\n", a...)
}
