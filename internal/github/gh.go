// Package github provides GitHub PR operations via the gh CLI.
package github

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGHNotFound indicates the gh CLI is not installed.
var ErrGHNotFound = errors.New("gh not found in PATH")

// ErrNotAuthenticated indicates gh has no valid credentials for the
// target host.
var ErrNotAuthenticated = errors.New("gh not authenticated")

// AuthHostDefault is reported when host-scoped auth failed but the
// default gh auth context succeeded.
const AuthHostDefault = "default"

const maxDetailChars = 4000

// AuthStatus verifies gh authentication against the given host. When the
// host-scoped check fails (for example an SSH host alias that gh does not
// know), it falls back to the default auth context. Returns the auth
// context that succeeded: the host itself or AuthHostDefault. An empty
// host checks only the default context.
func AuthStatus(ctx context.Context, host string) (hostUsed string, err error) {
	if host == "" {
		out, runErr := exec.CommandContext(ctx, "gh", "auth", "status").CombinedOutput()
		if isNotFound(runErr) {
			return "", ErrGHNotFound
		}
		if runErr == nil {
			return AuthHostDefault, nil
		}
		return "", notAuthenticatedError(out)
	}

	out, runErr := exec.CommandContext(ctx, "gh", "auth", "status", "--hostname", host).CombinedOutput()
	if isNotFound(runErr) {
		return "", ErrGHNotFound
	}
	if runErr == nil {
		return host, nil
	}

	if _, defErr := exec.CommandContext(ctx, "gh", "auth", "status").CombinedOutput(); defErr == nil {
		return AuthHostDefault, nil
	}

	return "", notAuthenticatedError(out)
}

// notAuthenticatedError wraps ErrNotAuthenticated with the tail of the gh
// output as detail.
func notAuthenticatedError(out []byte) error {
	detail := strings.TrimSpace(string(out))
	if len(detail) > maxDetailChars {
		detail = detail[len(detail)-maxDetailChars:]
	}
	if detail != "" {
		return fmt.Errorf("%w: %s", ErrNotAuthenticated, detail)
	}
	return ErrNotAuthenticated
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}

// classifyGHError examines a gh CLI error and returns a typed error.
func classifyGHError(err error) error {
	if isNotFound(err) {
		return ErrGHNotFound
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("gh command failed: %w", err)
	}

	stderr := strings.ToLower(string(exitErr.Stderr))
	if strings.Contains(stderr, "401") ||
		strings.Contains(stderr, "auth") ||
		strings.Contains(stderr, "credentials") ||
		strings.Contains(stderr, "login") {
		return ErrNotAuthenticated
	}

	errMsg := strings.TrimSpace(string(exitErr.Stderr))
	if errMsg != "" {
		return fmt.Errorf("gh command failed: %s", errMsg)
	}
	return fmt.Errorf("gh command failed: %w", err)
}
