package audit

import (
	"sort"
	"strings"

	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/detect"
)

// Input collects everything an audit compares: code observations from the
// parser and the configured environment from the envfile loader.
type Input struct {
	Usages      []EnvUsage
	Literals    []Literal
	EnvVars     map[string]string // Runtime view: env files merged with exported environment
	FileVars    map[string]string // File-only view, used for unused/undocumented checks
	ExampleVars map[string]string // Vars documented in example files
	Sources     map[string]string // Var name -> env file that defined it
	Config      *config.Config
}

// Run compares code-discovered environment usage and literals against the
// configured environment and produces the audit report.
func Run(in Input) Report {
	cfg := in.Config
	if cfg == nil {
		cfg = config.Default()
	}

	report := Report{
		Usages:        in.Usages,
		EnvVars:       in.FileVars,
		EnvVarSources: in.Sources,
		Missing:       make(map[string][]EnvUsage),
		Dynamic:       make(map[string][]EnvUsage),
		Undocumented:  []string{},
		Unused:        []string{},
	}

	staticKeys := make(map[string][]EnvUsage)
	dynamicKeys := make(map[string][]EnvUsage)
	for _, usage := range in.Usages {
		if usage.IsPartial {
			// Group dynamic reads by the full expression when present so
			// each distinct pattern is reported once
			key := usage.Key
			if usage.FullExpr != "" {
				key = usage.FullExpr
			}
			dynamicKeys[key] = append(dynamicKeys[key], usage)
		} else {
			staticKeys[usage.Key] = append(staticKeys[usage.Key], usage)
		}
	}

	report.IgnoredFromFolders = collectMissing(&report, staticKeys, in.EnvVars, cfg)
	collectDynamic(&report, dynamicKeys, in.EnvVars)
	collectHardcoded(&report, in.Literals, cfg)

	// Unused: configured in a file but never read by code. Exported-only
	// vars are not checked; the process environment always carries noise.
	for key := range in.FileVars {
		if _, used := staticKeys[key]; !used {
			report.Unused = append(report.Unused, key)
		}
	}
	sort.Strings(report.Unused)

	// Undocumented: configured in a real file but absent from example
	// files. Only meaningful when the project keeps an example file at all.
	if len(in.ExampleVars) > 0 {
		for key := range in.FileVars {
			if _, documented := in.ExampleVars[key]; !documented {
				report.Undocumented = append(report.Undocumented, key)
			}
		}
		sort.Strings(report.Undocumented)
	}

	return report
}

// collectMissing fills report.Missing and returns the count of unique vars
// whose every read sits in an ignored folder.
func collectMissing(report *Report, staticKeys map[string][]EnvUsage, envVars map[string]string, cfg *config.Config) int {
	ignoredFolderVars := make(map[string]bool)

	for key, usages := range staticKeys {
		if _, exists := envVars[key]; exists {
			continue
		}

		var visible []EnvUsage
		for _, usage := range usages {
			if !usage.InIgnoredPath {
				visible = append(visible, usage)
			}
		}
		if len(visible) == 0 {
			ignoredFolderVars[key] = true
			continue
		}

		if cfg.ShouldIgnoreMissing(key) {
			report.IgnoredMissing++
			continue
		}

		report.Missing[key] = visible
	}

	return len(ignoredFolderVars)
}

// collectDynamic fills report.Dynamic. Var references always surface;
// string-based partials only when no configured var contains the string
// part.
func collectDynamic(report *Report, dynamicKeys map[string][]EnvUsage, envVars map[string]string) {
	for key, usages := range dynamicKeys {
		isVarRef := false
		for _, usage := range usages {
			if usage.IsVarRef {
				isVarRef = true
				break
			}
		}
		if isVarRef {
			report.Dynamic[key] = usages
			continue
		}

		matchPart := usages[0].Key
		hasMatch := false
		for envKey := range envVars {
			if strings.Contains(envKey, matchPart) {
				hasMatch = true
				break
			}
		}
		if !hasMatch {
			report.Dynamic[key] = usages
		}
	}
}

// collectHardcoded classifies literals and fills report.Hardcoded.
func collectHardcoded(report *Report, literals []Literal, cfg *config.Config) {
	for _, lit := range literals {
		match := detect.Classify(lit.Name, lit.Value)
		if match == nil {
			continue
		}

		if lit.InIgnoredPath || cfg.IsAllowedValue(lit.Value) {
			report.IgnoredHardcoded++
			continue
		}

		report.Hardcoded = append(report.Hardcoded, HardcodedKey{
			Name:        lit.Name,
			Rule:        match.Rule,
			Redacted:    match.Redacted,
			File:        lit.File,
			Line:        lit.Line,
			CodeSnippet: lit.CodeSnippet,
		})
	}

	sort.Slice(report.Hardcoded, func(i, j int) bool {
		if report.Hardcoded[i].File != report.Hardcoded[j].File {
			return report.Hardcoded[i].File < report.Hardcoded[j].File
		}
		return report.Hardcoded[i].Line < report.Hardcoded[j].Line
	})
}
