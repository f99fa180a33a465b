package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/keyward/keyward/internal/audit"
	"github.com/keyward/keyward/internal/languages"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser runs the Tree-Sitter queries over source files. Grammars are
// cached; parser instances are created per file because Tree-Sitter
// parsers are not safe for concurrent use.
type Parser struct {
	grammars map[string]*sitter.Language
	mu       sync.RWMutex
	debug    bool
}

// FileResult holds everything extracted from one source file.
type FileResult struct {
	Usages   []audit.EnvUsage
	Literals []audit.Literal
}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{
		grammars: make(map[string]*sitter.Language),
	}
}

// SetDebug enables or disables debug logging
func (p *Parser) SetDebug(debug bool) {
	p.debug = debug
}

// getGrammar returns a cached grammar for the language, loading it on
// first use
func (p *Parser) getGrammar(lang string) (*sitter.Language, error) {
	p.mu.RLock()
	if grammar, ok := p.grammars[lang]; ok {
		p.mu.RUnlock()
		return grammar, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if grammar, ok := p.grammars[lang]; ok {
		return grammar, nil
	}

	grammar, err := loadGrammar(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
	}
	p.grammars[lang] = grammar
	return grammar, nil
}

// queryMatch is one raw query match: its captures by name plus the node
// used for location and context.
type queryMatch struct {
	captures map[string]string
	line     int
	snippet  string
}

// contextCaptures are tried in order when picking the node that provides
// the line number and snippet for a match.
var contextCaptures = []string{"key", "full_expr", "var", "value", "name"}

// ParseFile parses a single file and extracts environment variable reads
// and string literal assignments. scanRoot is used to report relative
// paths.
func (p *Parser) ParseFile(filePath, lang, scanRoot string) (*FileResult, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	grammar, err := p.getGrammar(lang)
	if err != nil {
		return nil, err
	}

	info := languages.GetLanguageInfo(lang)
	if info == nil {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	// One parser per file: Tree-Sitter parsers are not thread-safe and the
	// caller fans files out across goroutines
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(grammar)

	tree := tsParser.Parse(content, nil)
	if tree == nil {
		p.debugf("parse returned nil tree for %s (%s)", filePath, lang)
		return &FileResult{}, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return &FileResult{}, nil
	}

	relPath := relativePath(filePath, scanRoot)
	result := &FileResult{}

	envMatches := p.runQuery(grammar, info.EnvQuery, root, content, filePath)
	seenUsages := make(map[string]bool)
	for _, m := range envMatches {
		for _, extracted := range info.ExtractEnv([]map[string]string{m.captures}) {
			dedupeKey := fmt.Sprintf("%s:%d", extracted.Key, m.line)
			if seenUsages[dedupeKey] {
				continue
			}
			seenUsages[dedupeKey] = true
			result.Usages = append(result.Usages, audit.EnvUsage{
				Key:         extracted.Key,
				File:        relPath,
				Line:        m.line,
				CodeSnippet: m.snippet,
				IsPartial:   extracted.IsPartial,
				IsVarRef:    extracted.IsVarRef,
				FullExpr:    extracted.FullExpr,
			})
		}
	}

	literalMatches := p.runQuery(grammar, info.LiteralQuery, root, content, filePath)
	seenLiterals := make(map[string]bool)
	for _, m := range literalMatches {
		lit := languages.ExtractLiteral(m.captures)
		if lit == nil {
			continue
		}
		dedupeKey := fmt.Sprintf("%s:%d", lit.Name, m.line)
		if seenLiterals[dedupeKey] {
			continue
		}
		seenLiterals[dedupeKey] = true
		result.Literals = append(result.Literals, audit.Literal{
			Name:        lit.Name,
			Value:       lit.Value,
			File:        relPath,
			Line:        m.line,
			CodeSnippet: m.snippet,
		})
	}

	return result, nil
}

// runQuery executes one query and collects capture maps with location
// context. Query compile failures are logged in debug mode and yield no
// matches; a grammar/query version skew should degrade the audit, not
// abort it.
func (p *Parser) runQuery(grammar *sitter.Language, queryStr string, root *sitter.Node, content []byte, filePath string) []queryMatch {
	queryStr = strings.TrimSpace(queryStr)
	if queryStr == "" {
		return nil
	}

	query, queryErr := sitter.NewQuery(grammar, queryStr)
	if queryErr != nil {
		p.debugf("query creation failed for %s: %v", filePath, queryErr)
		return nil
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	captureNames := query.CaptureNames()
	matches := cursor.Matches(query, root, content)

	var results []queryMatch
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		captures := make(map[string]string)
		nodes := make(map[string]*sitter.Node)
		for i := range match.Captures {
			capture := &match.Captures[i]
			if int(capture.Index) >= len(captureNames) {
				continue
			}
			name := captureNames[capture.Index]
			node := &capture.Node
			captures[name] = string(content[node.StartByte():node.EndByte()])
			nodes[name] = node
		}

		contextNode := pickContextNode(nodes)
		if contextNode == nil {
			continue
		}

		line := int(contextNode.StartPosition().Row) + 1
		results = append(results, queryMatch{
			captures: captures,
			line:     line,
			snippet:  lineSnippet(content, contextNode.StartByte()),
		})
	}

	return results
}

// pickContextNode chooses which captured node anchors the match location
func pickContextNode(nodes map[string]*sitter.Node) *sitter.Node {
	for _, name := range contextCaptures {
		if node, ok := nodes[name]; ok {
			return node
		}
	}
	for _, node := range nodes {
		return node
	}
	return nil
}

// lineSnippet returns the trimmed source line containing the byte offset
func lineSnippet(content []byte, offset uint) string {
	start := int(offset)
	if start > len(content) {
		start = len(content)
	}
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	end := int(offset)
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return strings.TrimSpace(string(content[start:end]))
}

// relativePath reports filePath relative to scanRoot when possible
func relativePath(filePath, scanRoot string) string {
	if scanRoot == "" {
		return filePath
	}
	absRoot, err1 := filepath.Abs(scanRoot)
	absFile, err2 := filepath.Abs(filePath)
	if err1 != nil || err2 != nil {
		return filePath
	}
	if rel, err := filepath.Rel(absRoot, absFile); err == nil && rel != "" {
		return rel
	}
	return filePath
}

func (p *Parser) debugf(format string, args ...any) {
	if p.debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}
