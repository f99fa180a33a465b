package audit

// EnvUsage represents a single read of an environment variable in code
type EnvUsage struct {
	Key           string // The environment variable key
	File          string // File path where it's read
	Line          int    // Line number
	CodeSnippet   string // The source line, trimmed
	InIgnoredPath bool   // True when the file sits in a folder configured as ignored
	IsPartial     bool   // True for runtime-built names (e.g., "prefix_" + var)
	IsVarRef      bool   // True for variable references (e.g., process.env[a])
	FullExpr      string // Full expression for dynamic patterns
}

// Literal is a string literal assignment found in source, candidate input
// for hardcoded-key classification
type Literal struct {
	Name          string // Identifier the literal is assigned to
	Value         string // The literal value, quotes stripped
	File          string
	Line          int
	CodeSnippet   string
	InIgnoredPath bool
}

// HardcodedKey is a literal classified as a probable live API key
type HardcodedKey struct {
	Name        string // Identifier the value was assigned to
	Rule        string // Which detection rule fired
	Redacted    string // Masked value, safe to print
	File        string
	Line        int
	CodeSnippet string
}

// Report contains the complete audit results
type Report struct {
	Usages        []EnvUsage            // All env var reads found in code
	EnvVars       map[string]string     // Vars from real env files
	EnvVarSources map[string]string     // Var name -> file that defined it
	Hardcoded     []HardcodedKey        // Probable live keys embedded in source
	Missing       map[string][]EnvUsage // Read in code, configured nowhere
	Dynamic       map[string][]EnvUsage // Runtime-built names that cannot be checked statically
	Undocumented  []string              // In real env files but absent from example files
	Unused        []string              // In env files but never read by code

	IgnoredMissing     int // Missing findings suppressed via config
	IgnoredFromFolders int // Unique vars suppressed because all reads sit in ignored folders
	IgnoredHardcoded   int // Literals suppressed via allowlist or ignored folders
}
