package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/taskledger/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Refresh(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL starts a simple read-eval-print loop for the taskledger CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account and a signing identity
//	  - login            authenticate
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - list | l             show the cached task list
//	  - refresh              re-read the ledger
//	  - add [text]           add a task
//	  - toggle <id>          flip completion
//	  - edit <id> [text]     replace content
//	  - delete <id>          delete a task
//	  - whoami               show the signed-in identity
//	  - logout               sign out
//
// Command errors are reported to the user and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tl%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, refresh, add, toggle <id>, edit <id>, delete <id>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.Whoami(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "add":
			cmdErr = a.Add(ctx, args)

		case "toggle":
			cmdErr = a.Toggle(ctx, args)

		case "edit":
			cmdErr = a.Edit(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
		if err != nil {
			return
		}
	}
}

// describe turns service errors into messages for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrDisconnected):
		return "not signed in; use 'login' or 'register' first"
	case errors.Is(err, common.ErrNetworkUnavailable):
		return "ledger unreachable, try again later (" + err.Error() + ")"
	case errors.Is(err, common.ErrUnauthorized):
		return "this identity may not change that task"
	case errors.Is(err, common.ErrTransactionFailed):
		return "the ledger did not confirm the change (" + err.Error() + ")"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, common.ErrDuplicateAccount):
		return "an account with this email already exists"
	case errors.Is(err, common.ErrBusy):
		return "another change is still being confirmed"
	case errors.Is(err, common.ErrNotFound):
		return "no such task"
	default:
		return err.Error()
	}
}
