package envfile

import (
	"os"
	"path/filepath"
	"strings"
)

// Set is the merged view of every environment file found under a root.
// Real files and example files are kept apart: example files document
// which keys a project expects, real files actually configure them.
type Set struct {
	Vars        map[string]string // merged vars from real env files, later files win
	Sources     map[string]string // var name -> file that defined it (relative to root when possible)
	ExampleVars map[string]string // merged vars from example files (.env.example and friends)
}

// Loader discovers and parses environment files
type Loader struct {
	envFiles   []string
	autoDetect bool
}

// defaultEnvFiles are always considered when present in the root.
var defaultEnvFiles = []string{".env", ".env.local", ".env.example", "env.example"}

// NewLoader creates a loader with the default candidate files and
// auto-detection enabled
func NewLoader() *Loader {
	return &Loader{
		envFiles:   append([]string(nil), defaultEnvFiles...),
		autoDetect: true,
	}
}

// SetAutoDetect enables or disables automatic detection of env files
func (l *Loader) SetAutoDetect(enabled bool) {
	l.autoDetect = enabled
}

// AddEnvFile adds a custom env file to load
func (l *Loader) AddEnvFile(path string) {
	l.envFiles = append(l.envFiles, path)
}

// SetEnvFiles replaces the list of env files to load
func (l *Loader) SetEnvFiles(files []string) {
	l.envFiles = files
}

// IsExampleFile reports whether a filename documents expected keys rather
// than configuring real values.
func IsExampleFile(name string) bool {
	base := filepath.Base(name)
	if base == "env.example" {
		return true
	}
	return strings.Contains(base, ".example") || strings.Contains(base, ".sample") || strings.Contains(base, ".template")
}

// findEnvFiles returns candidate files: the configured list plus, when
// auto-detection is on, anything in the root that parses as an env format.
func (l *Loader) findEnvFiles(rootPath string) []string {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, envFile := range l.envFiles {
		path := envFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootPath, envFile)
		}
		if _, err := os.Stat(path); err == nil {
			add(path)
		}
	}

	if !l.autoDetect {
		return files
	}

	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return files
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(rootPath, name)

		switch detectFormat(path) {
		case formatEnvrc, formatCompose, formatK8s, formatSystemd:
			add(path)
		case formatShell:
			if strings.HasSuffix(name, ".sh") || strings.HasSuffix(name, ".bash") {
				add(path)
			}
		case formatDotEnv:
			if strings.HasPrefix(name, ".env") {
				add(path)
			}
		}
	}

	return files
}

// Load parses every discovered env file under rootPath and merges them.
// Later files override earlier ones. Unparseable files are skipped.
func (l *Loader) Load(rootPath string) (*Set, error) {
	set := &Set{
		Vars:        make(map[string]string),
		Sources:     make(map[string]string),
		ExampleVars: make(map[string]string),
	}

	for _, path := range l.findEnvFiles(rootPath) {
		vars, err := parseFile(path)
		if err != nil {
			continue
		}

		source := path
		if rel, err := filepath.Rel(rootPath, path); err == nil && rel != "" && !strings.HasPrefix(rel, "..") {
			source = rel
		}

		if IsExampleFile(path) {
			for k, v := range vars {
				set.ExampleVars[k] = v
			}
			continue
		}

		for k, v := range vars {
			set.Vars[k] = v
			set.Sources[k] = source
		}
	}

	return set, nil
}

// LoadWithExportedEnv loads env files and overlays the exported process
// environment on top. The returned map is what code would actually observe
// at runtime; the Set keeps the file-only view for unused/undocumented
// checks.
func (l *Loader) LoadWithExportedEnv(rootPath string) (map[string]string, *Set, error) {
	set, err := l.Load(rootPath)
	if err != nil {
		return nil, nil, err
	}

	merged := make(map[string]string, len(set.Vars))
	for k, v := range set.Vars {
		merged[k] = v
	}
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 && parts[0] != "" {
			merged[parts[0]] = parts[1]
		}
	}

	return merged, set, nil
}
