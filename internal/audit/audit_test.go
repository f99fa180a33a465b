package audit

import (
	"testing"

	"github.com/keyward/keyward/internal/config"
)

func TestRun_MissingKeys(t *testing.T) {
	usages := []EnvUsage{
		{Key: "STRIPE_KEY", File: "payments.js", Line: 10},
		{Key: "DATABASE_URL", File: "db.go", Line: 20},
		{Key: "NASA_API_KEY", File: "apod.go", Line: 30},
	}

	envVars := map[string]string{
		"NASA_API_KEY": "test123",
	}

	report := Run(Input{
		Usages:   usages,
		EnvVars:  envVars,
		FileVars: envVars,
	})

	if len(report.Missing) != 2 {
		t.Errorf("Expected 2 missing keys, got %d", len(report.Missing))
	}
	if _, ok := report.Missing["STRIPE_KEY"]; !ok {
		t.Error("STRIPE_KEY should be missing")
	}
	if _, ok := report.Missing["DATABASE_URL"]; !ok {
		t.Error("DATABASE_URL should be missing")
	}
	if _, ok := report.Missing["NASA_API_KEY"]; ok {
		t.Error("NASA_API_KEY should not be missing")
	}
}

func TestRun_MissingRespectsExportedEnv(t *testing.T) {
	// EnvVars carries the runtime view (files + exported environment);
	// a var only present there is configured, just not via a file
	report := Run(Input{
		Usages:   []EnvUsage{{Key: "HOME", File: "main.go", Line: 1}},
		EnvVars:  map[string]string{"HOME": "/home/u"},
		FileVars: map[string]string{},
	})

	if len(report.Missing) != 0 {
		t.Errorf("Exported vars should not be reported missing, got %v", report.Missing)
	}
}

func TestRun_UnusedKeys(t *testing.T) {
	report := Run(Input{
		Usages: []EnvUsage{{Key: "STRIPE_KEY", File: "payments.js", Line: 10}},
		EnvVars: map[string]string{
			"STRIPE_KEY":  "sk_test_123",
			"OLD_API_KEY": "old123",
		},
		FileVars: map[string]string{
			"STRIPE_KEY":  "sk_test_123",
			"OLD_API_KEY": "old123",
		},
	})

	if len(report.Unused) != 1 || report.Unused[0] != "OLD_API_KEY" {
		t.Errorf("Expected [OLD_API_KEY], got %v", report.Unused)
	}
}

func TestRun_UndocumentedKeys(t *testing.T) {
	fileVars := map[string]string{
		"NASA_API_KEY": "abc",
		"SECRET_SAUCE": "def",
	}

	report := Run(Input{
		EnvVars:     fileVars,
		FileVars:    fileVars,
		ExampleVars: map[string]string{"NASA_API_KEY": ""},
	})

	if len(report.Undocumented) != 1 || report.Undocumented[0] != "SECRET_SAUCE" {
		t.Errorf("Expected [SECRET_SAUCE], got %v", report.Undocumented)
	}
}

func TestRun_UndocumentedSkippedWithoutExampleFile(t *testing.T) {
	fileVars := map[string]string{"NASA_API_KEY": "abc"}

	report := Run(Input{
		EnvVars:  fileVars,
		FileVars: fileVars,
	})

	if len(report.Undocumented) != 0 {
		t.Errorf("No example file means no undocumented findings, got %v", report.Undocumented)
	}
}

func TestRun_IgnoredMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Ignores.Missing = []string{"CI"}

	report := Run(Input{
		Usages: []EnvUsage{
			{Key: "CI", File: "build.go", Line: 1},
			{Key: "REAL_KEY", File: "main.go", Line: 2},
		},
		EnvVars:  map[string]string{},
		FileVars: map[string]string{},
		Config:   cfg,
	})

	if report.IgnoredMissing != 1 {
		t.Errorf("Expected 1 ignored missing, got %d", report.IgnoredMissing)
	}
	if _, ok := report.Missing["CI"]; ok {
		t.Error("CI should have been suppressed")
	}
	if _, ok := report.Missing["REAL_KEY"]; !ok {
		t.Error("REAL_KEY should still be reported")
	}
}

func TestRun_IgnoredFolders(t *testing.T) {
	report := Run(Input{
		Usages: []EnvUsage{
			{Key: "CONFIG_ONLY", File: "config/setup.go", Line: 1, InIgnoredPath: true},
			{Key: "MIXED", File: "config/setup.go", Line: 2, InIgnoredPath: true},
			{Key: "MIXED", File: "src/main.go", Line: 3},
		},
		EnvVars:  map[string]string{},
		FileVars: map[string]string{},
	})

	if report.IgnoredFromFolders != 1 {
		t.Errorf("Expected 1 var ignored from folders, got %d", report.IgnoredFromFolders)
	}
	if _, ok := report.Missing["CONFIG_ONLY"]; ok {
		t.Error("CONFIG_ONLY should have been suppressed entirely")
	}

	// MIXED has a read outside the ignored folder; only that read survives
	usages, ok := report.Missing["MIXED"]
	if !ok {
		t.Fatal("MIXED should still be reported")
	}
	if len(usages) != 1 || usages[0].File != "src/main.go" {
		t.Errorf("Only non-ignored usages should remain, got %v", usages)
	}
}

func TestRun_DynamicPatterns(t *testing.T) {
	report := Run(Input{
		Usages: []EnvUsage{
			{Key: "APP_", File: "a.js", Line: 1, IsPartial: true, FullExpr: `"APP_" + name`},
			{Key: "keyName", File: "b.js", Line: 2, IsPartial: true, IsVarRef: true},
			{Key: "FEATURE_", File: "c.js", Line: 3, IsPartial: true, FullExpr: `"FEATURE_" + flag`},
		},
		EnvVars:  map[string]string{"FEATURE_DARK_MODE": "on"},
		FileVars: map[string]string{},
	})

	// APP_ has no configured var containing it: reported
	if _, ok := report.Dynamic[`"APP_" + name`]; !ok {
		t.Error("Unmatched string partial should be reported")
	}
	// keyName is a var reference: always reported
	if _, ok := report.Dynamic["keyName"]; !ok {
		t.Error("Var references should always be reported")
	}
	// FEATURE_ matches FEATURE_DARK_MODE: suppressed
	if _, ok := report.Dynamic[`"FEATURE_" + flag`]; ok {
		t.Error("String partial with a configured match should be suppressed")
	}
}

func TestRun_HardcodedKeys(t *testing.T) {
	report := Run(Input{
		Literals: []Literal{
			{Name: "awsKey", Value: "AKIAABCD1234EFGH5678", File: "deploy.go", Line: 12},
			{Name: "appName", Value: "keyward", File: "main.go", Line: 3},
		},
		EnvVars:  map[string]string{},
		FileVars: map[string]string{},
	})

	if len(report.Hardcoded) != 1 {
		t.Fatalf("Expected 1 hardcoded finding, got %d", len(report.Hardcoded))
	}

	finding := report.Hardcoded[0]
	if finding.Rule != "aws-access-key-id" {
		t.Errorf("Expected aws-access-key-id rule, got %s", finding.Rule)
	}
	if finding.Redacted == "AKIAABCD1234EFGH5678" {
		t.Error("Report must never carry the raw value")
	}
	if finding.File != "deploy.go" || finding.Line != 12 {
		t.Errorf("Unexpected location: %s:%d", finding.File, finding.Line)
	}
}

func TestRun_HardcodedAllowlist(t *testing.T) {
	cfg := config.Default()
	cfg.Ignores.Values = []string{"AKIAABCD1234EFGH5678"}

	report := Run(Input{
		Literals: []Literal{
			{Name: "awsKey", Value: "AKIAABCD1234EFGH5678", File: "fixture.go", Line: 1},
		},
		EnvVars:  map[string]string{},
		FileVars: map[string]string{},
		Config:   cfg,
	})

	if len(report.Hardcoded) != 0 {
		t.Errorf("Allowlisted value should be suppressed, got %v", report.Hardcoded)
	}
	if report.IgnoredHardcoded != 1 {
		t.Errorf("Expected 1 ignored hardcoded, got %d", report.IgnoredHardcoded)
	}
}

func TestRun_HardcodedIgnoredPath(t *testing.T) {
	report := Run(Input{
		Literals: []Literal{
			{Name: "awsKey", Value: "AKIAABCD1234EFGH5678", File: "config/fake.go", Line: 1, InIgnoredPath: true},
		},
		EnvVars:  map[string]string{},
		FileVars: map[string]string{},
	})

	if len(report.Hardcoded) != 0 {
		t.Errorf("Findings in ignored folders should be suppressed, got %v", report.Hardcoded)
	}
	if report.IgnoredHardcoded != 1 {
		t.Errorf("Expected 1 ignored hardcoded, got %d", report.IgnoredHardcoded)
	}
}
