package languages

// RustEnvQuery finds env::var("KEY") and std::env::var("KEY") reads plus
// their dynamic forms. Validation happens in ExtractEnvVarsFromRust.
const RustEnvQuery = `
[
  (call_expression
    function: (scoped_identifier
      path: (identifier) @path
      name: (identifier) @fn
    )
    arguments: (arguments (string_literal) @key)
  )
  (call_expression
    function: (scoped_identifier
      path: (scoped_identifier
        path: (identifier) @path1
        name: (identifier) @path2
      )
      name: (identifier) @fn
    )
    arguments: (arguments (string_literal) @key)
  )
  (call_expression
    function: (scoped_identifier
      path: (identifier) @path
      name: (identifier) @fn
    )
    arguments: (arguments (binary_expression) @full_expr)
  )
  (call_expression
    function: (scoped_identifier
      path: (scoped_identifier
        path: (identifier) @path1
        name: (identifier) @path2
      )
      name: (identifier) @fn
    )
    arguments: (arguments (binary_expression) @full_expr)
  )
  (call_expression
    function: (scoped_identifier
      path: (identifier) @path
      name: (identifier) @fn
    )
    arguments: (arguments (identifier) @var)
  )
  (call_expression
    function: (scoped_identifier
      path: (scoped_identifier
        path: (identifier) @path1
        name: (identifier) @path2
      )
      name: (identifier) @fn
    )
    arguments: (arguments (identifier) @var)
  )
]
`

// RustLiteralQuery finds string literals bound by let, const, and static
// items.
const RustLiteralQuery = `
[
  (let_declaration
    pattern: (identifier) @name
    value: (string_literal) @value
  )
  (const_item
    name: (identifier) @name
    value: (string_literal) @value
  )
  (static_item
    name: (identifier) @name
    value: (string_literal) @value
  )
]
`

// ExtractEnvVarsFromRust extracts environment variable reads from Rust AST
// matches
func ExtractEnvVarsFromRust(matches []map[string]string) []EnvVarMatch {
	var results []EnvVarMatch
	seen := make(map[string]bool)

	isEnvRead := func(match map[string]string) bool {
		if match["fn"] != "var" && match["fn"] != "var_os" {
			return false
		}
		if match["path"] == "env" {
			return true
		}
		return match["path1"] == "std" && match["path2"] == "env"
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
