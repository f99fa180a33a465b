package languages

// PythonEnvQuery finds os.environ["KEY"], os.environ.get("KEY"), and
// os.getenv("KEY") reads plus their dynamic forms. Validation happens in
// ExtractEnvVarsFromPython.
const PythonEnvQuery = `
[
  (subscript
    value: (attribute
      object: (identifier) @obj
      attribute: (identifier) @attr
    )
    subscript: (string) @key
  )
  (call
    function: (attribute
      object: (identifier) @obj2
      attribute: (identifier) @fn
    )
    arguments: (argument_list (string) @key)
  )
  (subscript
    value: (attribute
      object: (identifier) @obj
      attribute: (identifier) @attr
    )
    subscript: (binary_operator) @full_expr
  )
  (subscript
    value: (attribute
      object: (identifier) @obj
      attribute: (identifier) @attr
    )
    subscript: (identifier) @var
  )
  (call
    function: (attribute
      object: (identifier) @obj2
      attribute: (identifier) @fn
    )
    arguments: (argument_list (binary_operator) @full_expr)
  )
  (call
    function: (attribute
      object: (identifier) @obj2
      attribute: (identifier) @fn
    )
    arguments: (argument_list (identifier) @var)
  )
]
`

// PythonLiteralQuery finds string literals assigned to identifiers.
const PythonLiteralQuery = `
(assignment
  left: (identifier) @name
  right: (string) @value
)
`

// ExtractEnvVarsFromPython extracts environment variable reads from Python
// AST matches
func ExtractEnvVarsFromPython(matches []map[string]string) []EnvVarMatch {
	var results []EnvVarMatch
	seen := make(map[string]bool)

	isEnvRead := func(match map[string]string) bool {
		if match["obj"] == "os" && match["attr"] == "environ" {
			return true
		}
		return match["obj2"] == "os" && match["fn"] == "getenv"
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
