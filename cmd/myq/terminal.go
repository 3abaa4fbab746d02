package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// newLogger returns a text logger when w is a terminal and a JSON logger
// otherwise.
func newLogger(w *os.File, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(w.Fd())) {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

// resolvePassword returns the password from, in order: passwordFile, the
// configured password, or an interactive prompt with echo disabled.
func resolvePassword(cfg *Config, stdin *os.File, prompt io.Writer) (string, error) {
	if cfg.PasswordFile != "" {
		return readSecretFile(cfg.PasswordFile)
	}
	if cfg.Password != "" {
		return cfg.Password, nil
	}

	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal available for password prompt (use --password-file or MYQ_PASSWORD)")
	}

	fmt.Fprint(prompt, "Password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

// readSecretFile reads a secret from path, stripping trailing newlines.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading password file: %w", err)
	}
	secret := strings.TrimRight(string(data), "\r\n")
	if secret == "" {
		return "", fmt.Errorf("password file %s is empty", path)
	}
	return secret, nil
}
