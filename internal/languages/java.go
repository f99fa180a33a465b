package languages

// JavaEnvQuery finds System.getenv("KEY") and System.getenv().get("KEY")
// reads plus their dynamic forms. Validation happens in
// ExtractEnvVarsFromJava.
const JavaEnvQuery = `
[
  (method_invocation
    object: (identifier) @obj
    name: (identifier) @method
    arguments: (argument_list (string_literal) @key)
  )
  (method_invocation
    object: (method_invocation
      object: (identifier) @obj
      name: (identifier) @method1
    )
    name: (identifier) @method2
    arguments: (argument_list (string_literal) @key)
  )
  (method_invocation
    object: (identifier) @obj
    name: (identifier) @method
    arguments: (argument_list (binary_expression) @full_expr)
  )
  (method_invocation
    object: (method_invocation
      object: (identifier) @obj
      name: (identifier) @method1
    )
    name: (identifier) @method2
    arguments: (argument_list (binary_expression) @full_expr)
  )
  (method_invocation
    object: (identifier) @obj
    name: (identifier) @method
    arguments: (argument_list (identifier) @var)
  )
  (method_invocation
    object: (method_invocation
      object: (identifier) @obj
      name: (identifier) @method1
    )
    name: (identifier) @method2
    arguments: (argument_list (identifier) @var)
  )
]
`

// JavaLiteralQuery finds string literals assigned in declarations and
// assignments.
const JavaLiteralQuery = `
[
  (variable_declarator
    name: (identifier) @name
    value: (string_literal) @value
  )
  (assignment_expression
    left: (identifier) @name
    right: (string_literal) @value
  )
]
`

// ExtractEnvVarsFromJava extracts environment variable reads from Java AST
// matches
func ExtractEnvVarsFromJava(matches []map[string]string) []EnvVarMatch {
	var results []EnvVarMatch
	seen := make(map[string]bool)

	isEnvRead := func(match map[string]string) bool {
		// Direct call: System.getenv("KEY")
		if match["obj"] == "System" && match["method"] == "getenv" {
			return true
		}
		// Chained call: System.getenv().get("KEY")
		return match["obj"] == "System" && match["method1"] == "getenv" && match["method2"] == "get"
	}

	for _, match := range matches {
		if !isEnvRead(match) {
			continue
		}

		if key := trimQuotes(match["key"]); key != "" {
			if !seen[key] {
				results = append(results, EnvVarMatch{Key: key})
				seen[key] = true
			}
			continue
		}

		if fullExpr := match["full_expr"]; fullExpr != "" {
			if !seen[fullExpr] {
				results = append(results, EnvVarMatch{
					Key:       fullExpr,
					IsPartial: true,
					FullExpr:  fullExpr,
				})
				seen[fullExpr] = true
			}
			continue
		}

		if varName := match["var"]; varName != "" && !seen[varName] {
			results = append(results, EnvVarMatch{
				Key:       varName,
				IsPartial: true,
				IsVarRef:  true,
			})
			seen[varName] = true
		}
	}

	return results
}
