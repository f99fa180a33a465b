package output

import (
	"testing"

	"github.com/keyward/keyward/internal/audit"
)

func TestHasIssues(t *testing.T) {
	tests := []struct {
		name     string
		report   audit.Report
		opts     Options
		expected bool
	}{
		{
			name:     "clean report",
			report:   audit.Report{},
			opts:     Options{Dynamic: true},
			expected: false,
		},
		{
			name: "hardcoded key",
			report: audit.Report{
				Hardcoded: []audit.HardcodedKey{{Name: "k", Rule: "aws-access-key-id"}},
			},
			expected: true,
		},
		{
			name: "missing variable",
			report: audit.Report{
				Missing: map[string][]audit.EnvUsage{"KEY": {{Key: "KEY"}}},
			},
			expected: true,
		},
		{
			name: "dynamic suppressed without flag",
			report: audit.Report{
				Dynamic: map[string][]audit.EnvUsage{"expr": {{Key: "expr"}}},
			},
			opts:     Options{Dynamic: false},
			expected: false,
		},
		{
			name: "dynamic counts with flag",
			report: audit.Report{
				Dynamic: map[string][]audit.EnvUsage{"expr": {{Key: "expr"}}},
			},
			opts:     Options{Dynamic: true},
			expected: true,
		},
		{
			name: "unused skipped",
			report: audit.Report{
				Unused: []string{"OLD_KEY"},
			},
			opts:     Options{SkipUnused: true},
			expected: false,
		},
		{
			name: "unused counts",
			report: audit.Report{
				Unused: []string{"OLD_KEY"},
			},
			expected: true,
		},
		{
			name: "undocumented counts",
			report: audit.Report{
				Undocumented: []string{"SECRET_SAUCE"},
			},
			expected: true,
		},
		{
			name: "only suppressed findings",
			report: audit.Report{
				IgnoredMissing:   2,
				IgnoredHardcoded: 1,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasIssues(tt.report, tt.opts); got != tt.expected {
				t.Errorf("HasIssues = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRedactValue(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"", `""`},
		{"abc", "***"},
		{"short", "s...t"},
		{"averyveryverylongsecretvalue", "[REDACTED]"},
		{"dGVzdA==+abc", "[REDACTED]"},
	}

	for _, tt := range tests {
		if got := redactValue(tt.value); got != tt.expected {
			t.Errorf("redactValue(%q) = %q, want %q", tt.value, got, tt.expected)
		}
	}
}

func TestVarFindings_SortedAndLocated(t *testing.T) {
	findings := map[string][]audit.EnvUsage{
		"ZED_KEY": {{Key: "ZED_KEY", File: "b.go", Line: 2, CodeSnippet: "os.Getenv(\"ZED_KEY\")"}},
		"ALPHA":   {{Key: "ALPHA", File: "a.go", Line: 1}},
	}

	out := varFindings(findings)
	if len(out) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(out))
	}
	if out[0].Key != "ALPHA" || out[1].Key != "ZED_KEY" {
		t.Errorf("Entries should be sorted by key: %v", out)
	}
	if out[1].Locations[0] != `b.go:2 (os.Getenv("ZED_KEY"))` {
		t.Errorf("Unexpected location format: %q", out[1].Locations[0])
	}
}
