// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Common key binding constants.
const (
	KeyCtrlC = "ctrl+c"
	KeyCtrlJ = "ctrl+j"
	KeyCtrlN = "ctrl+n"
	KeyEnter = "enter"
	KeyEsc   = "esc"
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run starts the TUI program with the given model, attaching the sink
// so controller events reach the event loop. If stdout is a TTY, it
// runs in alternate screen mode. Otherwise it guides the user to the
// non-interactive commands.
func Run(m ChatModel, sink *ProgramSink) error {
	if !IsTTY() {
		fmt.Println("Non-TTY environment detected.")
		fmt.Println("Please use 'docchat send <message>' for non-interactive use.")
		return nil
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	sink.Attach(p)
	_, err := p.Run()
	return err
}
