package languages

// JavaScriptEnvQuery finds process.env.KEY and process.env["KEY"] reads,
// plus dynamic forms: process.env["prefix_" + v] and process.env[v].
// Validation that the object really is process.env happens in
// ExtractEnvVarsFromJS.
const JavaScriptEnvQuery = `
[
  (member_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    property: (property_identifier) @key
  )
  (subscript_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    index: (string) @key
  )
  (subscript_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    index: (binary_expression) @full_expr
  )
  (subscript_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    index: (identifier) @var
  )
]
`

// JavaScriptLiteralQuery finds string literals assigned to identifiers or
// object properties.
const JavaScriptLiteralQuery = `
[
  (variable_declarator
    name: (identifier) @name
    value: (string) @value
  )
  (assignment_expression
    left: (identifier) @name
    right: (string) @value
  )
  (pair
    key: (property_identifier) @name
    value: (string) @value
  )
]
`

// ExtractEnvVarsFromJS extracts environment variable reads from
// JavaScript/TypeScript AST matches
func ExtractEnvVarsFromJS(matches []map[string]string) []EnvVarMatch {
	var results []EnvVarMatch
	seen := make(map[string]bool)

	for _, match := range matches {
		obj, objOk := match["obj"]
		prop, propOk := match["prop"]

		if !objOk || !propOk || obj != "process" || prop != "env" {
			continue
		}

		// Static key: dot notation or bracket notation with a string literal
		if key := trimQuotes(match["key"]); key != "" {
			if !seen[key] {
				results = append(results, EnvVarMatch{Key: key})
				seen[key] = true
			}
			continue
		}

		// Concatenation, e.g. process.env["APP_" + name]. The string part
		// is used for matching, the whole expression for display.
		if fullExpr := match["full_expr"]; fullExpr != "" {
			display := firstStringLiteral(fullExpr)
			if display == "" {
				display = lastStringLiteral(fullExpr)
			}
			if display == "" {
				display = fullExpr
			}
			if !seen[fullExpr] {
				results = append(results, EnvVarMatch{
					Key:       display,
					IsPartial: true,
					FullExpr:  fullExpr,
				})
				seen[fullExpr] = true
			}
			continue
		}

		// Bare identifier, e.g. process.env[a]
		if varName := match["var"]; varName != "" {
			marker := "[var:" + varName + "]"
			if !seen[marker] {
				results = append(results, EnvVarMatch{
					Key:       varName,
					IsPartial: true,
					IsVarRef:  true,
				})
				seen[marker] = true
			}
		}
	}

	return results
}

// firstStringLiteral returns the first quoted string inside an expression
func firstStringLiteral(expr string) string {
	start := -1
	var quote byte
	for i := 0; i < len(expr); i++ {
		if expr[i] == '"' || expr[i] == '\'' || expr[i] == '`' {
			if start == -1 {
				start = i
				quote = expr[i]
			} else if expr[i] == quote {
				return expr[start+1 : i]
			}
		}
	}
	return ""
}

// lastStringLiteral returns the last quoted string inside an expression
func lastStringLiteral(expr string) string {
	end := -1
	var quote byte
	for i := len(expr) - 1; i >= 0; i-- {
		if expr[i] == '"' || expr[i] == '\'' || expr[i] == '`' {
			if end == -1 {
				end = i
				quote = expr[i]
			} else if expr[i] == quote {
				return expr[i+1 : end]
			}
		}
	}
	return ""
}
