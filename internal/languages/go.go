package languages

// GoEnvQuery finds os.Getenv("KEY") and os.LookupEnv("KEY") patterns,
// including dynamic forms like os.Getenv("prefix_" + v) and os.Getenv(v).
// Filtering on the selector happens in ExtractEnvVarsFromGo, not in the
// query itself.
const GoEnvQuery = `
[
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list (interpreted_string_literal) @key)
  )
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list (binary_expression) @full_expr)
  )
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list (identifier) @var)
  )
]
`

// GoLiteralQuery finds string literals assigned to identifiers:
// declarations, const/var specs, and plain assignments.
const GoLiteralQuery = `
[
  (short_var_declaration
    left: (expression_list (identifier) @name)
    right: (expression_list (interpreted_string_literal) @value)
  )
  (var_spec
    name: (identifier) @name
    value: (expression_list (interpreted_string_literal) @value)
  )
  (const_spec
    name: (identifier) @name
    value: (expression_list (interpreted_string_literal) @value)
  )
  (assignment_statement
    left: (expression_list (identifier) @name)
    right: (expression_list (interpreted_string_literal) @value)
  )
]
`

// ExtractEnvVarsFromGo extracts environment variable reads from Go AST
// matches
func ExtractEnvVarsFromGo(matches []map[string]string) []EnvVarMatch {
	var results []EnvVarMatch
	seen := make(map[string]bool)

	for _, match := range matches {
		obj, objOk := match["obj"]
		fn, fnOk := match["fn"]

		if !objOk || !fnOk || obj != "os" || (fn != "Getenv" && fn != "LookupEnv") {
			continue
		}

		// Static key (string literal)
		if key := trimQuotes(match["key"]); key != "" {
			if !seen[key] {
				results = append(results, EnvVarMatch{Key: key})
				seen[key] = true
			}
			continue
		}

		// Concatenation, e.g. os.Getenv("APP_" + name)
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

		// Bare identifier, e.g. os.Getenv(name)
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
