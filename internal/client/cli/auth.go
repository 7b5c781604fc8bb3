package cli

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, a password and its confirmation, creates the
// account and signs in. Password buffers are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getConfirmation(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	s, err := a.authService.Signup(ctx, email, password, confirm)
	if err != nil {
		return err
	}

	printlnFn("Account created. Signing address:", s.Address)
	return a.refreshAfterLogin(ctx)
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	printlnFn("Signed in as", s.Email)
	return a.refreshAfterLogin(ctx)
}

// Logout ends the session; the ledger client is unbound by the session
// observer.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}

// Whoami prints the active identity.
func (a *App) Whoami(ctx context.Context) error {
	s := a.sessions.Current()
	if s == nil {
		printlnFn("Not signed in")
		return nil
	}
	printlnFn("Email:  ", s.Email)
	printlnFn("Address:", s.Address)
	return nil
}

func (a *App) refreshAfterLogin(ctx context.Context) error {
	if err := a.ensureLedger(); err != nil {
		return err
	}
	tasks, err := a.taskService.Refresh(ctx)
	if err != nil {
		return err
	}
	printlnFn(len(tasks), "task(s) on the ledger")
	return nil
}
