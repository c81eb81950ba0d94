package main

import (
	"testing"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

func TestExitCodeNilOnSuccess(t *testing.T) {
	if err := exitCode(domain.ExitOK); err != nil {
		t.Errorf("exitCode(ExitOK) = %v, want nil", err)
	}
}

func TestExitCodeWrapsFailures(t *testing.T) {
	tests := []struct {
		code    domain.ExitCode
		wantMsg string
	}{
		{domain.ExitFailure, "agent failed with error"},
		{domain.ExitUsage, "invalid arguments"},
		{domain.ExitInterrupted, "agent was interrupted"},
		{domain.ExitCode(42), "exit code 42"},
	}

	for _, tt := range tests {
		err := exitCode(tt.code)
		if err == nil {
			t.Errorf("exitCode(%d) = nil, want error", tt.code)
			continue
		}
		exitErr, ok := err.(exitCodeError)
		if !ok {
			t.Errorf("exitCode(%d) returned %T, want exitCodeError", tt.code, err)
			continue
		}
		if exitErr.code != tt.code {
			t.Errorf("exitCode(%d).code = %d", tt.code, exitErr.code)
		}
		if err.Error() != tt.wantMsg {
			t.Errorf("exitCode(%d).Error() = %q, want %q", tt.code, err.Error(), tt.wantMsg)
		}
	}
}
