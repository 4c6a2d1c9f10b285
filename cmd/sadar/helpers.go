package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/sabrisig-create/sadar/internal/api"
	"github.com/sabrisig-create/sadar/internal/config"
	"github.com/sabrisig-create/sadar/internal/session"
)

func sessionStore() *session.Store {
	return session.NewStore(config.GetPaths().SessionFile)
}

// requireSession loads the stored session and binds an API client to it.
// Exits with a hint when not signed in.
func requireSession() (*session.Session, *api.Client) {
	sess, err := sessionStore().Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: Not signed in. Run 'sadar login' first.")
		os.Exit(1)
	}
	return sess, api.New(config.Env().APIBaseURL, sess.Token)
}

// exitOnError logs the error and exits.
func exitOnError(err error) {
	log.Error("command_failed", nil, err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// promptLine reads one line from stdin with a prompt.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
