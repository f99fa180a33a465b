package languages

import "testing"

func TestExtractEnvVarsFromJava(t *testing.T) {
	matches := []map[string]string{
		{"obj": "System", "method": "getenv", "key": `"NASA_API_KEY"`},
		{"obj": "System", "method1": "getenv", "method2": "get", "key": `"DATABASE_URL"`},
		{"obj": "Config", "method": "getenv", "key": `"NOT_SYSTEM"`},
		{"obj": "System", "method1": "getProperties", "method2": "get", "key": `"NOT_ENV"`},
	}

	result := ExtractEnvVarsFromJava(matches)
	if len(result) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %v", len(result), result)
	}
	if result[0].Key != "NASA_API_KEY" || result[1].Key != "DATABASE_URL" {
		t.Errorf("Unexpected keys: %v", result)
	}
}

func TestExtractEnvVarsFromJava_Dynamic(t *testing.T) {
	matches := []map[string]string{
		{"obj": "System", "method": "getenv", "full_expr": `"APP_" + suffix`},
		{"obj": "System", "method": "getenv", "var": "keyName"},
	}

	result := ExtractEnvVarsFromJava(matches)
	if len(result) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(result))
	}
	if !result[0].IsPartial || result[0].FullExpr != `"APP_" + suffix` {
		t.Errorf("Expected partial match, got %+v", result[0])
	}
	if !result[1].IsVarRef {
		t.Errorf("Expected var-ref match, got %+v", result[1])
	}
}
