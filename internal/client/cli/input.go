package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal hooks, swapped out in tests.
var (
	readPassword = term.ReadPassword
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

const (
	passwordPrompt     = "Enter password: "
	confirmationPrompt = "Confirm password: "
)

// GetSimpleText writes prompt followed by a "> " marker and returns the next
// line from reader with surrounding whitespace removed. A final line without
// a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n> ", prompt); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	switch {
	case err == nil, errors.Is(err, io.EOF) && line != "":
		return strings.TrimSpace(line), nil
	default:
		return "", err
	}
}

// GetPassword reads a password from the terminal with echo disabled.
// Callers wipe the result when done.
func GetPassword(w io.Writer) ([]byte, error) {
	return readSecret(w, passwordPrompt)
}

// GetConfirmation reads the repeated password during registration.
func GetConfirmation(w io.Writer) ([]byte, error) {
	return readSecret(w, confirmationPrompt)
}

var getConfirmation = GetConfirmation

func readSecret(w io.Writer, prompt string) ([]byte, error) {
	if _, err := io.WriteString(w, prompt); err != nil {
		return nil, err
	}
	secret, err := readPassword(stdinFd())
	// echo is off, so the user's Enter never reached the screen
	_, _ = io.WriteString(w, "\n")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return secret, nil
}
