package output

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// IsTTY reports whether stderr is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// RunWithSpinner executes an action with a titled spinner. When stderr is not a
// terminal, or debug logging is on, the action runs without one.
func RunWithSpinner(ctx context.Context, title string, action func() error) error {
	if !IsTTY() || Logger.GetLevel() <= log.DebugLevel {
		return action()
	}

	var err error
	done := make(chan struct{})
	go func() {
		err = action()
		close(done)
	}()

	spinnerErr := spinner.New().Title(title).Action(func() {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}).Run()

	// Actions check ctx, so this returns soon after a cancel
	<-done
	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}
	return err
}
