package sources

import "testing"

func TestGuardianSection(t *testing.T) {
	tests := []struct {
		category string
		expected string
	}{
		{"general", "news"},
		{"business", "business"},
		{"technology", "technology"},
		{"sports", "sport"},
		{"entertainment", "culture"},
		{"health", "society"},
		{"science", "science"},
		{"unknown", "news"},
		{"", "news"},
	}

	for _, tt := range tests {
		if got := GuardianSection(tt.category); got != tt.expected {
			t.Errorf("GuardianSection(%q) = %q, expected %q", tt.category, got, tt.expected)
		}
	}
}

func TestNYTimesSection(t *testing.T) {
	tests := []struct {
		category string
		expected string
	}{
		{"general", "home"},
		{"business", "business"},
		{"technology", "technology"},
		{"sports", "sports"},
		{"entertainment", "arts"},
		{"health", "health"},
		{"science", "science"},
		{"unknown", "home"},
		{"", "home"},
	}

	for _, tt := range tests {
		if got := NYTimesSection(tt.category); got != tt.expected {
			t.Errorf("NYTimesSection(%q) = %q, expected %q", tt.category, got, tt.expected)
		}
	}
}
