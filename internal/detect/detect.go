package detect

import (
	"math"
	"regexp"
	"strings"
)

// Match describes a string literal classified as a probable live API key.
type Match struct {
	Rule     string // Which rule fired (vendor prefix or entropy)
	Redacted string // Masked form of the value, safe to print
}

// Rule matches one vendor's key format. NameHint rules only fire when the
// literal is assigned to a credential-looking identifier, which keeps
// generic patterns (hex digests, random blobs) from flagging checksums and
// test fixtures.
type rule struct {
	name     string
	re       *regexp.Regexp
	nameHint bool
}

// Vendor key formats. Prefixed token schemes are reliable on their own;
// unprefixed formats (hex keys, generic random strings) additionally
// require a credential-looking variable name.
var rules = []rule{
	{name: "aws-access-key-id", re: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{name: "stripe-secret-key", re: regexp.MustCompile(`\bsk_(live|test)_[0-9a-zA-Z]{16,}\b`)},
	{name: "github-token", re: regexp.MustCompile(`\bgh[pousr]_[0-9A-Za-z]{36,}\b`)},
	{name: "gitlab-pat", re: regexp.MustCompile(`\bglpat-[0-9A-Za-z_\-]{20,}\b`)},
	{name: "slack-token", re: regexp.MustCompile(`\bxox[baprs]-[0-9A-Za-z\-]{10,}\b`)},
	{name: "google-api-key", re: regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{35}\b`)},
	{name: "deno-pat", re: regexp.MustCompile(`\bdd[op]_[0-9A-Za-z]{20,}\b`)},
	{name: "hex-api-key", re: regexp.MustCompile(`\b[0-9a-f]{40}\b`), nameHint: true},
}

// keyLikeName matches identifiers that usually hold credentials.
var keyLikeName = regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret|token|passw|credential|auth[_-]?key|access[_-]?key)`)

// placeholderHints are substrings that mark a value as documentation, not
// a real credential.
var placeholderHints = []string{
	"example", "placeholder", "your-", "your_", "changeme", "change-me",
	"dummy", "fixme", "todo", "xxxx", "<", ">", "${", "%s", "REPL_",
}

// minEntropyLen is the shortest value the entropy rule considers.
const minEntropyLen = 20

// entropyThreshold is bits per character; random base62 material sits well
// above it, English words and URLs below.
const entropyThreshold = 3.7

// Classify decides whether a string literal assigned to the named
// identifier looks like a live API key. The literal arrives with quotes
// already stripped. Returns nil when the value is benign.
func Classify(name, value string) *Match {
	if IsPlaceholder(value) {
		return nil
	}

	hinted := keyLikeName.MatchString(name)

	for _, r := range rules {
		if r.nameHint && !hinted {
			continue
		}
		if r.re.MatchString(value) {
			return &Match{Rule: r.name, Redacted: Redact(value)}
		}
	}

	// Generic fallback: a long high-entropy value in a credential-named
	// variable is worth flagging even without a known vendor prefix.
	if hinted && len(value) >= minEntropyLen && shannonEntropy(value) >= entropyThreshold {
		return &Match{Rule: "high-entropy", Redacted: Redact(value)}
	}

	return nil
}

// IsPlaceholder reports whether a value is clearly documentation or a
// template rather than a real credential.
func IsPlaceholder(value string) bool {
	if value == "" {
		return true
	}
	lower := strings.ToLower(value)
	for _, hint := range placeholderHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return true
		}
	}
	// Shell/compose style references resolve at runtime
	return strings.HasPrefix(value, "$")
}

// Redact masks a secret value for display, keeping just enough of the
// prefix to recognize which key leaked.
func Redact(value string) string {
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + strings.Repeat("*", 8) + value[len(value)-2:]
}

// shannonEntropy returns bits of entropy per character.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}
	length := float64(len([]rune(s)))
	var entropy float64
	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}
