// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vault

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"golang.org/x/term"
)

// StaticPrompter serves a fixed identity and secret, e.g. loaded from the
// .secrets/ directory. It never blocks on user input.
type StaticPrompter struct {
	Identity string
	Secret   string
}

// Prompt returns the configured credential pair.
func (p StaticPrompter) Prompt(_ context.Context) (string, string, error) {
	if p.Identity == "" || p.Secret == "" {
		return "", "", fmt.Errorf("no directory credentials configured")
	}
	return p.Identity, p.Secret, nil
}

// TerminalPrompter interactively asks for directory credentials. The secret
// is read without echo when stdin is a terminal.
type TerminalPrompter struct {
	In  io.Reader // defaults to os.Stdin
	Out io.Writer // defaults to os.Stderr
}

// Prompt asks for an identity (a valid email address) and a non-empty
// secret, re-asking on invalid input until ctx is done.
func (p TerminalPrompter) Prompt(ctx context.Context) (string, string, error) {
	in := p.In
	if in == nil {
		in = os.Stdin
	}
	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "Directory credentials are required to access organization profiles.")
	fmt.Fprintln(out, "They are kept in memory only and expire after 30 days.")

	var identity string
	for {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		fmt.Fprint(out, "Directory email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("reading identity: %w", err)
		}
		identity = strings.TrimSpace(line)
		if _, err := mail.ParseAddress(identity); err == nil {
			break
		}
		fmt.Fprintln(out, "Invalid email format. Please try again.")
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		fmt.Fprint(out, "Directory password: ")
		secret, err := readSecret(reader, in, out)
		if err != nil {
			return "", "", fmt.Errorf("reading secret: %w", err)
		}
		if secret != "" {
			return identity, secret, nil
		}
		fmt.Fprintln(out, "Password cannot be empty. Please try again.")
	}
}

// readSecret reads the secret without echo when stdin is a real terminal,
// falling back to a plain line read otherwise (tests, piped input).
func readSecret(reader *bufio.Reader, in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
