package parser

import (
	"fmt"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// loadGrammar loads the Tree-Sitter grammar for the given language.
// TSX files currently go through the TypeScript grammar; the scanner
// reports both .ts and .tsx as "typescript".
func loadGrammar(lang string) (*sitter.Language, error) {
	var ptr unsafe.Pointer

	switch lang {
	case "javascript":
		ptr = tree_sitter_javascript.Language()
	case "typescript":
		ptr = tree_sitter_typescript.LanguageTypescript()
	case "go":
		ptr = tree_sitter_go.Language()
	case "python":
		ptr = tree_sitter_python.Language()
	case "rust":
		ptr = tree_sitter_rust.Language()
	case "java":
		ptr = tree_sitter_java.Language()
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	if ptr == nil {
		return nil, fmt.Errorf("failed to load %s grammar", lang)
	}
	return sitter.NewLanguage(ptr), nil
}
