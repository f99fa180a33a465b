package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/keyward/keyward/internal/audit"
	"golang.org/x/term"
)

var colorEnabled = initColorSupport()

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func initColorSupport() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return enableANSI()
}

func getColor(code string) string {
	if colorEnabled {
		return code
	}
	return ""
}

// Options controls what the formatter includes.
type Options struct {
	JSON       bool
	Silent     bool
	SkipUnused bool
	Dynamic    bool // include runtime-built patterns
}

// JSONReport is the machine-readable audit output
type JSONReport struct {
	Hardcoded    []JSONHardcoded `json:"hardcoded"`
	Missing      []JSONVar       `json:"missing"`
	Dynamic      []JSONVar       `json:"dynamic"`
	Undocumented []string        `json:"undocumented"`
	Unused       []string        `json:"unused"`
	Ignored      int             `json:"ignored"`
}

// JSONVar is one variable finding with its source locations
type JSONVar struct {
	Key       string   `json:"key"`
	Locations []string `json:"locations"`
}

// JSONHardcoded is one hardcoded key finding. Values are always redacted.
type JSONHardcoded struct {
	Name     string `json:"name"`
	Rule     string `json:"rule"`
	Redacted string `json:"redacted"`
	Location string `json:"location"`
}

// Format renders the audit report to stdout
func Format(report audit.Report, opts Options) error {
	if opts.Silent {
		return nil
	}
	if opts.JSON {
		return formatJSON(report, opts)
	}
	return formatHumanReadable(report, opts)
}

func formatJSON(report audit.Report, opts Options) error {
	out := JSONReport{
		Hardcoded:    []JSONHardcoded{},
		Missing:      varFindings(report.Missing),
		Dynamic:      []JSONVar{},
		Undocumented: append([]string{}, report.Undocumented...),
		Unused:       []string{},
		Ignored:      report.IgnoredMissing + report.IgnoredFromFolders + report.IgnoredHardcoded,
	}

	for _, h := range report.Hardcoded {
		out.Hardcoded = append(out.Hardcoded, JSONHardcoded{
			Name:     h.Name,
			Rule:     h.Rule,
			Redacted: h.Redacted,
			Location: fmt.Sprintf("%s:%d", h.File, h.Line),
		})
	}

	if opts.Dynamic {
		out.Dynamic = varFindings(report.Dynamic)
	}
	if !opts.SkipUnused {
		out.Unused = append(out.Unused, report.Unused...)
		sort.Strings(out.Unused)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// varFindings converts a findings map into sorted JSON entries
func varFindings(findings map[string][]audit.EnvUsage) []JSONVar {
	out := make([]JSONVar, 0, len(findings))
	for key, usages := range findings {
		locations := make([]string, 0, len(usages))
		for _, usage := range usages {
			loc := fmt.Sprintf("%s:%d", usage.File, usage.Line)
			if usage.CodeSnippet != "" {
				loc += fmt.Sprintf(" (%s)", usage.CodeSnippet)
			}
			locations = append(locations, loc)
		}
		sort.Strings(locations)
		out = append(out, JSONVar{Key: key, Locations: locations})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func formatHumanReadable(report audit.Report, opts Options) error {
	hasIssues := false

	if len(report.Hardcoded) > 0 {
		hasIssues = true
		fmt.Printf("%s%sHardcoded API keys:%s\n\n", getColor(colorBold), getColor(colorRed), getColor(colorReset))
		for _, h := range report.Hardcoded {
			fmt.Printf("  %s%s%s = %s%s%s %s(%s)%s\n",
				getColor(colorRed), h.Name, getColor(colorReset),
				getColor(colorGray), h.Redacted, getColor(colorReset),
				getColor(colorGray), h.Rule, getColor(colorReset))
			fmt.Printf("    %sfound in:%s %s%s%s:%s%d%s\n",
				getColor(colorGray), getColor(colorReset),
				getColor(colorCyan), h.File, getColor(colorReset),
				getColor(colorYellow), h.Line, getColor(colorReset))
		}
		fmt.Println()
	}

	if len(report.Missing) > 0 {
		hasIssues = true
		fmt.Printf("%s%sMissing environment variables:%s\n\n", getColor(colorBold), getColor(colorRed), getColor(colorReset))
		printVarFindings(report.Missing, colorRed)
	}

	if opts.Dynamic && len(report.Dynamic) > 0 {
		hasIssues = true
		fmt.Printf("%s%sDynamic patterns (runtime-evaluated expressions):%s\n", getColor(colorBold), getColor(colorYellow), getColor(colorReset))
		printVarFindings(report.Dynamic, colorYellow)
	}

	if len(report.Undocumented) > 0 {
		hasIssues = true
		fmt.Printf("%s%sUndocumented variables (missing from example file):%s\n\n", getColor(colorBold), getColor(colorYellow), getColor(colorReset))
		for _, key := range report.Undocumented {
			source := report.EnvVarSources[key]
			if source == "" {
				source = ".env"
			}
			fmt.Printf("  %s%s%s %s(in %s)%s\n", getColor(colorYellow), key, getColor(colorReset), getColor(colorGray), source, getColor(colorReset))
		}
		fmt.Println()
	}

	if !opts.SkipUnused && len(report.Unused) > 0 {
		hasIssues = true
		fmt.Printf("%s%sUnused variables:%s\n\n", getColor(colorBold), getColor(colorYellow), getColor(colorReset))
		for _, key := range report.Unused {
			source := report.EnvVarSources[key]
			if source == "" {
				source = ".env"
			}
			fmt.Printf("  %s%s%s=%s%s%s %s(in %s)%s\n",
				getColor(colorYellow), key, getColor(colorReset),
				getColor(colorGray), redactValue(report.EnvVars[key]), getColor(colorReset),
				getColor(colorGray), source, getColor(colorReset))
		}
		fmt.Println()
	}

	printIgnoredNotes(report)

	if !hasIssues {
		ignoredCount := report.IgnoredMissing + report.IgnoredFromFolders + report.IgnoredHardcoded
		if ignoredCount > 0 {
			fmt.Printf("%s%s✓ No issues found (%d finding(s) excluded via config).%s\n", getColor(colorGreen), getColor(colorBold), ignoredCount, getColor(colorReset))
		} else {
			fmt.Printf("%s%s✓ No issues found. API keys look properly configured.%s\n", getColor(colorGreen), getColor(colorBold), getColor(colorReset))
		}
	}

	return nil
}

// printVarFindings renders one findings map sorted by key
func printVarFindings(findings map[string][]audit.EnvUsage, color string) {
	keys := make([]string, 0, len(findings))
	for key := range findings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("  %s%s%s\n", getColor(color), key, getColor(colorReset))
		for _, usage := range findings[key] {
			filePath := usage.File
			if filePath == "" {
				filePath = "<unknown>"
			}
			fmt.Printf("    %sused in:%s %s%s%s:%s%d%s",
				getColor(colorGray), getColor(colorReset),
				getColor(colorCyan), filePath, getColor(colorReset),
				getColor(colorYellow), usage.Line, getColor(colorReset))
			if usage.CodeSnippet != "" {
				snippet := usage.CodeSnippet
				if len(snippet) > 80 {
					snippet = snippet[:77] + "..."
				}
				fmt.Printf(" %s%s%s", getColor(colorGray), snippet, getColor(colorReset))
			}
			fmt.Println()
		}
		fmt.Println()
	}
}

func printIgnoredNotes(report audit.Report) {
	notes := false
	if report.IgnoredMissing > 0 {
		fmt.Printf("%s%sNote:%s %d missing variable(s) were ignored (configured in %s)\n", getColor(colorGray), getColor(colorBold), getColor(colorReset), report.IgnoredMissing, ".keyward.yaml")
		notes = true
	}
	if report.IgnoredFromFolders > 0 {
		fmt.Printf("%s%sNote:%s %d variable(s) found only in ignored folders were excluded\n", getColor(colorGray), getColor(colorBold), getColor(colorReset), report.IgnoredFromFolders)
		notes = true
	}
	if report.IgnoredHardcoded > 0 {
		fmt.Printf("%s%sNote:%s %d literal(s) were excluded via allowlist or ignored folders\n", getColor(colorGray), getColor(colorBold), getColor(colorReset), report.IgnoredHardcoded)
		notes = true
	}
	if notes {
		fmt.Println()
	}
}

// redactValue masks configured values while hinting at their shape
func redactValue(value string) string {
	if value == "" {
		return `""`
	}
	if len(value) > 20 {
		return "[REDACTED]"
	}
	if strings.ContainsAny(value, "=+/") && len(value) > 10 {
		return "[REDACTED]"
	}
	if len(value) > 4 {
		return string(value[0]) + "..." + string(value[len(value)-1])
	}
	return "***"
}

// HasIssues reports whether the audit found anything actionable.
// Suppressed findings do not count.
func HasIssues(report audit.Report, opts Options) bool {
	if len(report.Hardcoded) > 0 || len(report.Missing) > 0 || len(report.Undocumented) > 0 {
		return true
	}
	if opts.Dynamic && len(report.Dynamic) > 0 {
		return true
	}
	if !opts.SkipUnused && len(report.Unused) > 0 {
		return true
	}
	return false
}
