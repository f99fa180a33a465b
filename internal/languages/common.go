package languages

// EnvVarMatch represents a matched environment variable read (static or
// built at runtime)
type EnvVarMatch struct {
	Key       string
	IsPartial bool
	IsVarRef  bool   // True for variable references (e.g., process.env[a])
	FullExpr  string // Full expression for dynamic patterns (e.g., "prefix_" + var)
}

// LiteralMatch represents a string literal assigned to an identifier,
// candidate input for secret classification
type LiteralMatch struct {
	Name  string // The identifier the literal is assigned to
	Value string // The literal with quotes stripped
}

// LanguageInfo bundles the queries and extraction functions for a language.
// EnvQuery finds environment variable reads; LiteralQuery finds string
// literal assignments whose values may be hardcoded keys.
type LanguageInfo struct {
	EnvQuery     string
	LiteralQuery string
	ExtractEnv   func([]map[string]string) []EnvVarMatch
}

// GetLanguageInfo returns the queries and extractor for a given language
func GetLanguageInfo(lang string) *LanguageInfo {
	switch lang {
	case "javascript", "typescript":
		return &LanguageInfo{
			EnvQuery:     JavaScriptEnvQuery,
			LiteralQuery: JavaScriptLiteralQuery,
			ExtractEnv:   ExtractEnvVarsFromJS,
		}
	case "go":
		return &LanguageInfo{
			EnvQuery:     GoEnvQuery,
			LiteralQuery: GoLiteralQuery,
			ExtractEnv:   ExtractEnvVarsFromGo,
		}
	case "python":
		return &LanguageInfo{
			EnvQuery:     PythonEnvQuery,
			LiteralQuery: PythonLiteralQuery,
			ExtractEnv:   ExtractEnvVarsFromPython,
		}
	case "rust":
		return &LanguageInfo{
			EnvQuery:     RustEnvQuery,
			LiteralQuery: RustLiteralQuery,
			ExtractEnv:   ExtractEnvVarsFromRust,
		}
	case "java":
		return &LanguageInfo{
			EnvQuery:     JavaEnvQuery,
			LiteralQuery: JavaLiteralQuery,
			ExtractEnv:   ExtractEnvVarsFromJava,
		}
	default:
		return nil
	}
}

// ExtractLiteral converts a literal-query match into a LiteralMatch.
// Returns nil when the match captures are incomplete or the value is empty
// once quotes are stripped.
func ExtractLiteral(match map[string]string) *LiteralMatch {
	name := match["name"]
	value := trimQuotes(match["value"])
	if name == "" || value == "" {
		return nil
	}
	return &LiteralMatch{Name: name, Value: value}
}

// trimQuotes removes surrounding quotes from a string
func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '`' && s[len(s)-1] == '`') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
