package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the prompt suffix: the signed-in email and any write in
// progress.
func (a *App) getStatus() string {
	var parts []string
	if a.sessions != nil {
		if s := a.sessions.Current(); s != nil {
			parts = append(parts, s.Email)
		}
	}
	if a.taskService != nil {
		f := a.taskService.Flags()
		switch {
		case f.IsAdding:
			parts = append(parts, "adding")
		case f.IsUpdating:
			parts = append(parts, "updating")
		case f.Loading:
			parts = append(parts, "loading")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, " "))
}

// Root restores a persisted session, loads its tasks and runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to taskledger (type 'help' for commands)")

	s, err := a.authService.Restore(ctx)
	if err != nil {
		a.logger.Error(ctx, "session restore failed", "error", err)
		printlnFn("Error:", describe(err))
	}
	if s != nil {
		printlnFn("Welcome back,", s.Email)
		if err := a.Refresh(ctx); err != nil {
			printlnFn("Error:", describe(err))
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
