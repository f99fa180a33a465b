package languages

import "testing"

func TestExtractEnvVarsFromPython(t *testing.T) {
	matches := []map[string]string{
		{"obj": "os", "attr": "environ", "key": `"NASA_API_KEY"`},
		{"obj2": "os", "fn": "getenv", "key": `'DATABASE_URL'`},
		{"obj": "settings", "attr": "environ", "key": `"NOT_OS"`},
		{"obj2": "config", "fn": "getenv", "key": `"ALSO_NOT_OS"`},
	}

	result := ExtractEnvVarsFromPython(matches)
	if len(result) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %v", len(result), result)
	}
	if result[0].Key != "NASA_API_KEY" {
		t.Errorf("Expected NASA_API_KEY, got %+v", result[0])
	}
	if result[1].Key != "DATABASE_URL" {
		t.Errorf("Expected DATABASE_URL, got %+v", result[1])
	}
}

func TestExtractEnvVarsFromPython_Dynamic(t *testing.T) {
	matches := []map[string]string{
		{"obj": "os", "attr": "environ", "full_expr": `"APP_" + suffix`},
		{"obj2": "os", "fn": "getenv", "var": "key_name"},
	}

	result := ExtractEnvVarsFromPython(matches)
	if len(result) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(result))
	}
	if !result[0].IsPartial {
		t.Errorf("Expected partial match, got %+v", result[0])
	}
	if !result[1].IsVarRef || result[1].Key != "key_name" {
		t.Errorf("Expected var-ref match, got %+v", result[1])
	}
}
