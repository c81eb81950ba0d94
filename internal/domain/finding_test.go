package domain

import "testing"

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		priority string
		want     int
	}{
		{"P0", 0},
		{"P1", 1},
		{"P2", 2},
		{"P3", 3},
		{"p1", 1},
		{" P2 ", 2},
		{"", 99},
		{"HIGH", 99},
		{"P4", 99},
	}

	for _, tt := range tests {
		t.Run(tt.priority, func(t *testing.T) {
			if got := PriorityRank(tt.priority); got != tt.want {
				t.Errorf("PriorityRank(%q) = %d, want %d", tt.priority, got, tt.want)
			}
		})
	}
}

func TestFinding_Mandatory(t *testing.T) {
	tests := []struct {
		priority string
		want     bool
	}{
		{"P0", true},
		{"P1", true},
		{"P2", false},
		{"P3", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		f := Finding{ID: "X-001", Priority: tt.priority}
		if got := f.Mandatory(); got != tt.want {
			t.Errorf("Mandatory() with priority %q = %v, want %v", tt.priority, got, tt.want)
		}
	}
}

func TestCountByPriority(t *testing.T) {
	findings := []Finding{
		{ID: "A-001", Priority: "P0"},
		{ID: "A-002", Priority: "p0"},
		{ID: "A-003", Priority: "P1"},
		{ID: "A-004", Priority: "P3"},
		{ID: "A-005", Priority: "bogus"},
	}

	c := CountByPriority(findings)
	if c.P0 != 2 || c.P1 != 1 || c.P2 != 0 || c.P3 != 1 {
		t.Errorf("CountByPriority = %+v, want P0=2 P1=1 P2=0 P3=1", c)
	}
}
