package skills

// Span is the byte range in the source text covered by a matched token
// sequence.
type Span struct {
	Start int
	End   int
}

// FindSequence reports whether the needle's full token sequence appears as a
// contiguous run inside tokens. A needle token matches a text token when it
// equals the token's value or one of its dot/hyphen sub-parts, so the needle
// "node" matches the token "node.js" without an alias hop.
func FindSequence(tokens []Token, needle string) (Span, bool) {
	needleTokens := Tokenize(needle)
	if len(needleTokens) == 0 || len(tokens) < len(needleTokens) {
		return Span{}, false
	}
	for i := 0; i+len(needleTokens) <= len(tokens); i++ {
		matched := true
		for j := range needleTokens {
			if !tokenMatches(tokens[i+j], needleTokens[j].Value) {
				matched = false
				break
			}
		}
		if matched {
			return Span{
				Start: tokens[i].Start,
				End:   tokens[i+len(needleTokens)-1].End,
			}, true
		}
	}
	return Span{}, false
}

func tokenMatches(t Token, needle string) bool {
	if t.Value == needle {
		return true
	}
	for _, p := range t.Parts {
		if p == needle {
			return true
		}
	}
	return false
}

// TokenSet collects every token value and sub-part for plain membership
// checks (used for the keywords_uncertain signal).
func TokenSet(tokens []Token) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t.Value] = struct{}{}
		for _, p := range t.Parts {
			set[p] = struct{}{}
		}
	}
	return set
}
