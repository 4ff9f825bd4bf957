// Package skills provides the token-level machinery shared by the
// requirement extractor and the matching engine: a tokenizer that preserves
// technical characters, skill-name normalization, alias lookup and
// contiguous token-sequence matching with evidence snippets.
package skills

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenRe keeps technical identifiers together: "node.js", "c++", "c#" and
// "docker-compose" are single tokens.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:[.#\-][\p{L}\p{N}]+|[+#]+)*`)

var spaceRun = regexp.MustCompile(`\s+`)

// Token is one lexical unit of a text with its byte span in the source.
type Token struct {
	Value string   // lowercased token, technical characters preserved
	Parts []string // dot/hyphen sub-tokens ("node.js" -> "node", "js")
	Start int
	End   int
}

// Tokenize splits text into ordered tokens. Token values are lowercased;
// byte offsets reference the original text.
func Tokenize(text string) []Token {
	spans := tokenRe.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return nil
	}
	tokens := make([]Token, 0, len(spans))
	for _, span := range spans {
		value := strings.ToLower(text[span[0]:span[1]])
		tokens = append(tokens, Token{
			Value: value,
			Parts: splitParts(value),
			Start: span[0],
			End:   span[1],
		})
	}
	return tokens
}

// splitParts exposes the components of dotted or hyphenated tokens so that
// a requirement like "Node" still matches the resume token "node.js". The
// '#' and '+' suffixes stay fused: "c#" has no parts.
func splitParts(value string) []string {
	if !strings.ContainsAny(value, ".-") {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == '.' || r == '-' })
	if len(parts) < 2 {
		return nil
	}
	return parts
}

// Normalize produces the canonical lookup form of a skill string: lowercase,
// inner whitespace collapsed to single spaces, edges trimmed down to a
// letter, digit, '+' or '#'.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

// KeyFor returns the token-normalized key of a phrase: token values joined
// by single spaces. Empty when the phrase carries no tokens.
func KeyFor(s string) string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return ""
	}
	values := make([]string, len(tokens))
	for i, t := range tokens {
		values[i] = t.Value
	}
	return strings.Join(values, " ")
}
