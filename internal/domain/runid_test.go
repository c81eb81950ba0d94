package domain

import "testing"

func TestRunID_Deterministic(t *testing.T) {
	a := RunID(123, 2, "abcdef1234567890")
	b := RunID(123, 2, "abcdef1234567890")
	if a != b {
		t.Errorf("RunID not deterministic: %q != %q", a, b)
	}
	if len(a) != 12 {
		t.Errorf("RunID length = %d, want 12", len(a))
	}
}

func TestRunID_VariesWithInputs(t *testing.T) {
	base := RunID(123, 1, "abc")
	if RunID(124, 1, "abc") == base {
		t.Error("RunID should vary with PR number")
	}
	if RunID(123, 2, "abc") == base {
		t.Error("RunID should vary with round")
	}
	if RunID(123, 1, "abd") == base {
		t.Error("RunID should vary with head OID")
	}
}

func TestRunID_EmptyHeadOid(t *testing.T) {
	a := RunID(1, 1, "")
	b := RunID(1, 1, "")
	if len(a) != 12 {
		t.Errorf("fallback RunID length = %d, want 12", len(a))
	}
	if a == b {
		t.Error("fallback RunID should be random per call")
	}
}
