package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, name, code string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestParser_JavaScript_EnvReads(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSource(t, tmpDir, "app.js", `
const apiKey = process.env.NASA_API_KEY;
const dbUrl = process.env["DATABASE_URL"];
const secret = process.env['SECRET_KEY'];
`)

	result, err := NewParser().ParseFile(path, "javascript", tmpDir)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	keys := make(map[string]bool)
	for _, usage := range result.Usages {
		keys[usage.Key] = true
		if usage.IsPartial {
			t.Errorf("Expected static match, got partial for key: %s", usage.Key)
		}
		if usage.File != "app.js" {
			t.Errorf("Expected relative path app.js, got %s", usage.File)
		}
	}

	for _, key := range []string{"NASA_API_KEY", "DATABASE_URL", "SECRET_KEY"} {
		if !keys[key] {
			t.Errorf("Missing expected key: %s", key)
		}
	}
}

func TestParser_JavaScript_DynamicReads(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSource(t, tmpDir, "app.js", `
const key1 = process.env["PREFIX_" + suffix];
const key2 = process.env[varName];
`)

	result, err := NewParser().ParseFile(path, "javascript", tmpDir)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	partialCount := 0
	varRefCount := 0
	for _, usage := range result.Usages {
		if usage.IsPartial {
			partialCount++
		}
		if usage.IsVarRef {
			varRefCount++
		}
	}

	if partialCount < 2 {
		t.Errorf("Expected at least 2 partial matches, got %d", partialCount)
	}
	if varRefCount < 1 {
		t.Errorf("Expected at least 1 var-ref match, got %d", varRefCount)
	}
}

func TestParser_Go_EnvReads(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSource(t, tmpDir, "main.go", `package main

import "os"

func main() {
	key := os.Getenv("NASA_API_KEY")
	_, ok := os.LookupEnv("DEBUG")
	_ = key
	_ = ok
}
`)

	result, err := NewParser().ParseFile(path, "go", tmpDir)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	keys := make(map[string]int)
	for _, usage := range result.Usages {
		keys[usage.Key] = usage.Line
	}
	if _, ok := keys["NASA_API_KEY"]; !ok {
		t.Error("Expected NASA_API_KEY usage")
	}
	if _, ok := keys["DEBUG"]; !ok {
		t.Error("Expected DEBUG usage from os.LookupEnv")
	}
}

func TestParser_Go_Literals(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSource(t, tmpDir, "main.go", `package main

const serviceName = "apod-fetcher"

func main() {
	apiKey := "AKIAABCD1234EFGH5678"
	_ = apiKey
}
`)

	result, err := NewParser().ParseFile(path, "go", tmpDir)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	literals := make(map[string]string)
	for _, lit := range result.Literals {
		literals[lit.Name] = lit.Value
	}

	if literals["apiKey"] != "AKIAABCD1234EFGH5678" {
		t.Errorf("Expected apiKey literal, got %v", literals)
	}
	if literals["serviceName"] != "apod-fetcher" {
		t.Errorf("Expected serviceName const literal, got %v", literals)
	}
}

func TestParser_Python_EnvReads(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSource(t, tmpDir, "app.py", `import os

api_key = os.getenv("NASA_API_KEY")
db_url = os.environ["DATABASE_URL"]
`)

	result, err := NewParser().ParseFile(path, "python", tmpDir)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	keys := make(map[string]bool)
	for _, usage := range result.Usages {
		keys[usage.Key] = true
	}
	if !keys["NASA_API_KEY"] || !keys["DATABASE_URL"] {
		t.Errorf("Expected both env reads, got %v", keys)
	}
}

func TestParser_UnsupportedLanguage(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSource(t, tmpDir, "file.cob", "IDENTIFICATION DIVISION.")

	if _, err := NewParser().ParseFile(path, "cobol", tmpDir); err == nil {
		t.Error("Expected error for unsupported language")
	}
}
