package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Language represents a programming language
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageUnknown    Language = "unknown"
)

// FileInfo contains information about a source file to be audited
type FileInfo struct {
	Path          string
	Language      Language
	InIgnoredPath bool // True if this file is in a folder configured as ignored
}

// Scanner handles source file discovery and filtering
type Scanner struct {
	excludeDirs  map[string]bool // Directory names to skip entirely (e.g., "node_modules")
	ignorePaths  []string        // Path patterns from config; files here are parsed but findings suppressed
	excludeGlobs []string
	includeGlobs []string
	scanRoot     string
}

// NewScanner creates a scanner with the usual build/dependency dirs excluded
func NewScanner() *Scanner {
	return &Scanner{
		excludeDirs: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			".git":         true,
			"build":        true,
			"dist":         true,
			"bin":          true,
			"out":          true,
			"target":       true,
			".next":        true,
			".cache":       true,
		},
	}
}

// SetExcludeGlobs sets glob patterns to exclude
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = globs
}

// SetIncludeGlobs sets glob patterns to include (overrides excludes)
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = globs
}

// AddIgnoredFolders registers folders from config. Names without a
// separator become hard excludes; paths are soft-ignored: their files are
// still parsed so variables can be tracked, but findings in them are
// suppressed.
func (s *Scanner) AddIgnoredFolders(dirs []string) {
	for _, dir := range dirs {
		if strings.ContainsAny(dir, `/\`) {
			s.ignorePaths = append(s.ignorePaths, dir)
		} else {
			s.excludeDirs[dir] = true
		}
	}
}

// detectLanguage determines the language from file extension
func detectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs":
		return LanguageJavaScript
	case ".ts", ".tsx":
		return LanguageTypeScript
	case ".go":
		return LanguageGo
	case ".py":
		return LanguagePython
	case ".rs":
		return LanguageRust
	case ".java":
		return LanguageJava
	default:
		return LanguageUnknown
	}
}

// matchesGlob checks if a path matches any of the glob patterns,
// by basename or by full path
func matchesGlob(path string, globs []string) bool {
	for _, glob := range globs {
		if matched, _ := filepath.Match(glob, filepath.Base(path)); matched {
			return true
		}
		if matched, _ := filepath.Match(glob, path); matched {
			return true
		}
	}
	return false
}

// shouldInclude applies include/exclude glob filtering
func (s *Scanner) shouldInclude(path string) bool {
	if len(s.includeGlobs) > 0 {
		return matchesGlob(path, s.includeGlobs)
	}
	if len(s.excludeGlobs) > 0 {
		return !matchesGlob(path, s.excludeGlobs)
	}
	return true
}

// inIgnoredPath checks if a file path falls under a soft-ignored folder
func (s *Scanner) inIgnoredPath(filePath string) bool {
	if s.scanRoot == "" || len(s.ignorePaths) == 0 {
		return false
	}

	relPath, err := filepath.Rel(s.scanRoot, filePath)
	if err != nil {
		return false
	}
	rel := filepath.ToSlash(relPath)

	for _, ignorePath := range s.ignorePaths {
		pattern := filepath.ToSlash(ignorePath)
		pattern = strings.TrimSuffix(pattern, "/*")
		if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
			return true
		}
	}

	return false
}

// Scan recursively walks a directory and returns source files to parse
func (s *Scanner) Scan(rootPath string) ([]FileInfo, error) {
	var files []FileInfo
	s.scanRoot = rootPath

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if s.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		lang := detectLanguage(path)
		if lang == LanguageUnknown {
			return nil
		}
		if !s.shouldInclude(path) {
			return nil
		}

		files = append(files, FileInfo{
			Path:          path,
			Language:      lang,
			InIgnoredPath: s.inIgnoredPath(path),
		})
		return nil
	})

	return files, err
}
