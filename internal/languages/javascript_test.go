package languages

import "testing"

func TestExtractEnvVarsFromJS_StaticPatterns(t *testing.T) {
	matches := []map[string]string{
		{"obj": "process", "prop": "env", "key": "NASA_API_KEY"},
		{"obj": "process", "prop": "env", "key": `"STRIPE_KEY"`},
		{"obj": "window", "prop": "env", "key": "NOT_PROCESS_ENV"},
	}

	result := ExtractEnvVarsFromJS(matches)
	if len(result) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %v", len(result), result)
	}
	if result[0].Key != "NASA_API_KEY" || result[0].IsPartial {
		t.Errorf("Unexpected first match: %+v", result[0])
	}
	if result[1].Key != "STRIPE_KEY" {
		t.Errorf("Quotes should be stripped, got %+v", result[1])
	}
}

func TestExtractEnvVarsFromJS_DynamicPatterns(t *testing.T) {
	matches := []map[string]string{
		{"obj": "process", "prop": "env", "full_expr": `"PREFIX_" + name`},
		{"obj": "process", "prop": "env", "var": "dynamicKey"},
	}

	result := ExtractEnvVarsFromJS(matches)
	if len(result) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(result))
	}

	if !result[0].IsPartial || result[0].Key != "PREFIX_" {
		t.Errorf("Expected partial match keyed by string part, got %+v", result[0])
	}
	if result[0].FullExpr != `"PREFIX_" + name` {
		t.Errorf("Full expression should be preserved, got %q", result[0].FullExpr)
	}
	if !result[1].IsVarRef || result[1].Key != "dynamicKey" {
		t.Errorf("Expected var-ref match, got %+v", result[1])
	}
}

func TestStringLiteralHelpers(t *testing.T) {
	expr := `"APP_" + name + "_SUFFIX"`
	if got := firstStringLiteral(expr); got != "APP_" {
		t.Errorf("firstStringLiteral = %q, want APP_", got)
	}
	if got := lastStringLiteral(expr); got != "_SUFFIX" {
		t.Errorf("lastStringLiteral = %q, want _SUFFIX", got)
	}
	if got := firstStringLiteral("a + b"); got != "" {
		t.Errorf("Expected empty for expression without strings, got %q", got)
	}
}
