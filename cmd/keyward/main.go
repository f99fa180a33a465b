package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/keyward/keyward/internal/apod"
	"github.com/keyward/keyward/internal/audit"
	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/envfile"
	"github.com/keyward/keyward/internal/keysource"
	"github.com/keyward/keyward/internal/output"
	"github.com/keyward/keyward/internal/parser"
	"github.com/keyward/keyward/internal/scanner"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

// envVarData holds the loaded environment variable views
type envVarData struct {
	envVars     map[string]string // env files merged with the exported environment
	fileVars    map[string]string // only vars from env files (for unused check)
	exampleVars map[string]string // vars documented in example files
	relSources  map[string]string // relative paths to source files
}

var (
	rootCmd = &cobra.Command{
		Use:   "keyward",
		Short: "Keep API keys out of your code",
		Long:  "A CLI tool that audits codebases for API key hygiene and demonstrates safe key handling against NASA's APOD API.",
	}

	auditCmd = &cobra.Command{
		Use:   "audit [path]",
		Short: "Audit a codebase for API key hygiene",
		Long:  "Recursively scan a directory for hardcoded keys and environment variable usage, and compare with .env files.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAudit,
	}

	apodCmd = &cobra.Command{
		Use:   "apod",
		Short: "Fetch today's Astronomy Picture of the Day",
		Long:  "Resolve the NASA API key from the environment, .env files or Secret Manager, then fetch one APOD entry.",
		RunE:  runApod,
	}

	sourcesCmd = &cobra.Command{
		Use:   "sources",
		Short: "Show where the API key resolves from",
		Long:  "Walk the key source chain and report which source holds the configured API key.",
		RunE:  runSources,
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create .env.example and .keyward.yaml in the current directory",
		Long:  "Creates a documented .env.example and a default .keyward.yaml, and warns when .gitignore does not cover .env files.",
		RunE:  runInit,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of keyward",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	// Flags
	auditPath    string
	envFile      string
	jsonOutput   bool
	silent       bool
	skipUnused   bool
	debug        bool
	noHeader     bool
	noDynamic    bool
	includeGlobs []string
	excludeGlobs []string

	apodDate    string
	apodHD      bool
	apodJSON    bool
	apodKeyName string
	apodSource  string

	listSecrets bool
)

func init() {
	auditCmd.Flags().StringVarP(&auditPath, "path", "p", ".", "Path to audit (default: current directory)")
	auditCmd.Flags().StringVar(&envFile, "env-file", "", "Additional .env file to load")
	auditCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	auditCmd.Flags().BoolVar(&silent, "silent", false, "Silent mode (exit code only)")
	auditCmd.Flags().BoolVar(&skipUnused, "skip-unused", false, "Skip reporting unused variables")
	auditCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	auditCmd.Flags().BoolVar(&noHeader, "no-header", false, "Skip printing the header")
	auditCmd.Flags().BoolVar(&noDynamic, "no-dynamic", false, "Disable dynamic pattern detection (skip partial matches from runtime-evaluated expressions)")
	auditCmd.Flags().StringSliceVar(&includeGlobs, "include", []string{}, "Glob patterns to include")
	auditCmd.Flags().StringSliceVar(&excludeGlobs, "exclude", []string{}, "Glob patterns to exclude")

	apodCmd.Flags().StringVar(&apodDate, "date", "", "Picture date in YYYY-MM-DD form (default: today)")
	apodCmd.Flags().BoolVar(&apodHD, "hd", false, "Request the HD image URL")
	apodCmd.Flags().BoolVar(&apodJSON, "json", false, "Output the raw entry as JSON")
	apodCmd.Flags().StringVar(&apodKeyName, "key-name", "", "Name of the variable holding the API key (default from .keyward.yaml)")
	apodCmd.Flags().StringVar(&apodSource, "source", "", "Restrict key resolution to one source (env, dotenv, gcp)")
	apodCmd.Flags().StringVar(&envFile, "env-file", "", "Additional .env file to load")

	sourcesCmd.Flags().StringVar(&envFile, "env-file", "", "Additional .env file to load")
	sourcesCmd.Flags().BoolVar(&listSecrets, "list", false, "List secret names in the Secret Manager project")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(apodCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := auditPath
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", absPath)
	}

	fileScanner := scanner.NewScanner()
	if len(includeGlobs) > 0 {
		fileScanner.SetIncludeGlobs(includeGlobs)
	}
	if len(excludeGlobs) > 0 {
		fileScanner.SetExcludeGlobs(excludeGlobs)
	}

	envLoader := envfile.NewLoader()
	if envFile != "" {
		envLoader.AddEnvFile(envFile)
	}

	tsParser := parser.NewParser()
	tsParser.SetDebug(debug)

	if !noHeader && !jsonOutput && !silent {
		printHeader()
	}

	cfg, err := config.Load(absPath)
	if err != nil {
		if !silent {
			fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", config.ConfigFileName, err)
		}
		// Continue with defaults
		cfg = config.Default()
	}

	if len(cfg.Ignores.Folders) > 0 {
		fileScanner.AddIgnoredFolders(cfg.Ignores.Folders)
	}

	if !silent {
		fmt.Fprintf(os.Stderr, "Auditing %s...\n", absPath)
	}
	files, err := fileScanner.Scan(absPath)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}

	if !silent {
		fmt.Fprintf(os.Stderr, "%s\n", reportFileCounts(files))
	}

	envData, err := loadEnvironmentVariables(envLoader, absPath)
	if err != nil {
		return err
	}

	usages, literals := parseFiles(tsParser, files, absPath, silent)

	report := audit.Run(audit.Input{
		Usages:      usages,
		Literals:    literals,
		EnvVars:     envData.envVars,
		FileVars:    envData.fileVars,
		ExampleVars: envData.exampleVars,
		Sources:     envData.relSources,
		Config:      cfg,
	})

	opts := output.Options{
		JSON:       jsonOutput,
		Silent:     silent,
		SkipUnused: skipUnused,
		Dynamic:    !noDynamic,
	}
	if err := output.Format(report, opts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if output.HasIssues(report, opts) {
		os.Exit(1)
	}

	return nil
}

// reportFileCounts generates a formatted report string of file counts by language
func reportFileCounts(files []scanner.FileInfo) string {
	langCounts := make(map[string]int)
	for _, file := range files {
		lang := string(file.Language)
		if lang == "" {
			lang = "unknown"
		}
		langCounts[lang]++
	}

	var reportParts []string
	langOrder := []string{"javascript", "typescript", "go", "python", "rust", "java"}
	for _, lang := range langOrder {
		if count, ok := langCounts[lang]; ok && count > 0 {
			shortName := lang
			switch lang {
			case "javascript":
				shortName = "js"
			case "typescript":
				shortName = "ts"
			}
			reportParts = append(reportParts, fmt.Sprintf("%s: %d", shortName, count))
			delete(langCounts, lang)
		}
	}
	for lang, count := range langCounts {
		if count > 0 {
			reportParts = append(reportParts, fmt.Sprintf("%s: %d", lang, count))
		}
	}

	if len(reportParts) > 0 {
		return fmt.Sprintf("Found %d files (%s)", len(files), strings.Join(reportParts, ", "))
	}
	return fmt.Sprintf("Found %d files to parse", len(files))
}

// loadEnvironmentVariables loads env files and merges the exported environment
func loadEnvironmentVariables(envLoader *envfile.Loader, absPath string) (*envVarData, error) {
	envVars, set, err := envLoader.LoadWithExportedEnv(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	// Source file paths relative to the audit root for display
	relSources := make(map[string]string)
	for k, sourcePath := range set.Sources {
		if rel, err := filepath.Rel(absPath, sourcePath); err == nil && rel != "" {
			relSources[k] = rel
		} else {
			relSources[k] = filepath.Base(sourcePath)
		}
	}

	return &envVarData{
		envVars:     envVars,
		fileVars:    set.Vars,
		exampleVars: set.ExampleVars,
		relSources:  relSources,
	}, nil
}

// parses all files in parallel and returns env var usages and string literals
func parseFiles(tsParser *parser.Parser, files []scanner.FileInfo, absPath string, silent bool) ([]audit.EnvUsage, []audit.Literal) {
	var allUsages []audit.EnvUsage
	var allLiterals []audit.Literal
	var wg sync.WaitGroup
	var mu sync.Mutex
	workers := make(chan struct{}, 10)

	for _, file := range files {
		wg.Add(1)
		workers <- struct{}{} // Acquire worker

		go func(f scanner.FileInfo) {
			defer wg.Done()
			defer func() { <-workers }() // Release worker

			result, err := tsParser.ParseFile(f.Path, string(f.Language), absPath)
			if err != nil {
				// Log error but continue
				if !silent {
					fmt.Fprintf(os.Stderr, "Warning: failed to parse %s: %v\n", f.Path, err)
				}
				return
			}

			// Mark results from ignored folders
			if f.InIgnoredPath {
				for i := range result.Usages {
					result.Usages[i].InIgnoredPath = true
				}
				for i := range result.Literals {
					result.Literals[i].InIgnoredPath = true
				}
			}

			mu.Lock()
			allUsages = append(allUsages, result.Usages...)
			allLiterals = append(allLiterals, result.Literals...)
			mu.Unlock()
		}(file)
	}

	wg.Wait()
	return allUsages, allLiterals
}

func runApod(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", config.ConfigFileName, err)
		cfg = config.Default()
	}

	keyName := cfg.Apod.KeyName
	if apodKeyName != "" {
		keyName = apodKeyName
	}

	chain, closeChain, err := buildChain(ctx)
	if err != nil {
		return err
	}
	defer closeChain()

	if apodSource != "" {
		chain, err = restrictChain(chain, apodSource)
		if err != nil {
			return err
		}
	}

	key, sourceName, err := chain.Lookup(ctx, keyName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Set %s in your environment or a .env file, or run 'keyward init' to get started.\n", keyName)
		return fmt.Errorf("resolve %s: %w", keyName, err)
	}

	if !apodJSON {
		fmt.Fprintf(os.Stderr, "Resolved %s from %s source\n\n", keyName, sourceName)
	}

	clientOpts := []apod.Option{}
	if cfg.Apod.BaseURL != "" {
		clientOpts = append(clientOpts, apod.WithBaseURL(cfg.Apod.BaseURL))
	}
	client := apod.NewClient(key, clientOpts...)

	picture, err := client.Fetch(ctx, apod.Params{Date: apodDate, HD: apodHD})
	if err != nil {
		return fmt.Errorf("fetch picture: %w", err)
	}

	if apodJSON {
		return output.FormatPicture(picture, true)
	}

	if err := output.FormatPicture(picture, false); err != nil {
		return err
	}
	if remaining := client.RateLimitRemaining(); remaining >= 0 {
		fmt.Fprintf(os.Stderr, "\nRate limit: %d requests remaining this hour\n", remaining)
	}
	return nil
}

func runSources(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(".")
	if err != nil {
		cfg = config.Default()
	}

	chain, closeChain, err := buildChain(ctx)
	if err != nil {
		return err
	}
	defer closeChain()

	fmt.Printf("Key: %s\n\n", cfg.Apod.KeyName)
	for _, source := range chain.Sources() {
		_, err := source.Lookup(ctx, cfg.Apod.KeyName)
		status := "not found"
		if err == nil {
			status = "found"
		} else if !errors.Is(err, keysource.ErrNotFound) {
			status = fmt.Sprintf("error: %v", err)
		}
		fmt.Printf("  %-8s %s\n", source.Name(), status)

		gcp, ok := source.(*keysource.GCPSource)
		if !ok || !listSecrets {
			continue
		}
		names, err := gcp.List(ctx)
		if err != nil {
			return fmt.Errorf("list secrets: %w", err)
		}
		for _, name := range names {
			fmt.Printf("           - %s\n", name)
		}
	}

	if os.Getenv(keysource.GCPProjectEnv) == "" {
		fmt.Printf("\nSet %s to enable the Secret Manager source\n", keysource.GCPProjectEnv)
	}
	return nil
}

// restrictChain narrows a chain to the single named source
func restrictChain(chain *keysource.Chain, name string) (*keysource.Chain, error) {
	for _, source := range chain.Sources() {
		if source.Name() == name {
			return keysource.NewChain(source), nil
		}
	}
	if name == "gcp" {
		return nil, fmt.Errorf("source gcp is not enabled, set %s first", keysource.GCPProjectEnv)
	}
	return nil, fmt.Errorf("unknown key source: %s", name)
}

// buildChain assembles the key source chain, honoring --env-file
func buildChain(ctx context.Context) (*keysource.Chain, func() error, error) {
	extraFiles := []string{}
	if envFile != "" {
		extraFiles = append(extraFiles, envFile)
	}
	chain, closer, err := keysource.Default(ctx, extraFiles...)
	if err != nil {
		return nil, nil, err
	}
	return chain, closer, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	created := []string{}

	if _, err := os.Stat(".env.example"); os.IsNotExist(err) {
		if err := os.WriteFile(".env.example", []byte(envExampleContent), 0644); err != nil {
			return fmt.Errorf("failed to create .env.example: %w", err)
		}
		created = append(created, ".env.example")
	}

	if _, err := os.Stat(config.ConfigFileName); err == nil {
		return fmt.Errorf("%s already exists in the current directory", config.ConfigFileName)
	}
	if err := os.WriteFile(config.ConfigFileName, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", config.ConfigFileName, err)
	}
	created = append(created, config.ConfigFileName)

	fmt.Printf("Created %s in the current directory\n", strings.Join(created, " and "))

	if !gitignoreCoversEnv() {
		fmt.Fprintln(os.Stderr, "Warning: .gitignore does not cover .env files. Add '.env' and '.env.local' so real keys never get committed.")
	}
	return nil
}

// gitignoreCoversEnv reports whether .gitignore has a pattern for .env files
func gitignoreCoversEnv() bool {
	data, err := os.ReadFile(".gitignore")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == ".env" || line == ".env*" || line == "*.env" || line == ".env.local" {
			return true
		}
	}
	return false
}

const envExampleContent = `# Copy this file to .env and fill in real values.
# .env must stay out of version control.

# Get a free key at https://api.nasa.gov
NASA_API_KEY=your-key-here
`

const configContent = `# .keyward.yaml
# Configuration file for keyward

apod:
  # Name of the variable holding the NASA API key
  key_name: NASA_API_KEY

ignores:
  # Variables that are configured in custom ways (not in .env files or standard configs)
  # These will not be reported as missing
  missing:
    # - CUSTOM_API_KEY
    # - EXTERNAL_SERVICE_TOKEN

  # Folders to ignore when auditing (useful for config directories that aren't actual code)
  folders:
    # - config
    # - k8s

  # Literal values that are allowed to appear in code (demo keys, fixtures)
  values:
    # - DEMO_KEY
`

func printHeader() {
	header := ` _  __ ____ _  _ _    _  ___  ____  ____
 || // ||    \\// \\  // // \\ || \\ || \\
 ||<<  ||==   ||   \\// (( ___ ||_// ||  ))
 || \\ ||___  ||    \/   \\_|| || \\ ||_//

`
	fmt.Print(header)
	fmt.Printf("Version: %s\n\n", Version)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
