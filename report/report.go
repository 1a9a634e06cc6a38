// Package report prints user facing results and exports records
package report

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"

	"github.com/trueinspo/babytimer/internal/apperr"
)

func Started(title, at string) {
	pterm.Success.Printfln("%s started at %s", title, at)
}

func Info(format string, args ...any) {
	pterm.Info.Printfln(format, args...)
}

// Warn reports a failure that did not stop the operation, such as a write
// that will be retried by the store.
func Warn(err error) {
	pterm.Warning.Println(err)
}

func Error(err error) {
	pterm.Error.Println(err)
}

func Fatal(err error) tea.Cmd {
	pterm.Error.Println(err)
	return tea.Quit
}

func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}

// Message returns the user facing text of err, preferring the outermost
// application error.
func Message(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}

	return err.Error()
}
