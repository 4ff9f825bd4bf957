// Package textclean converts HTML job descriptions into normalized plain
// text. The output feeds the section parser and the embedding document
// builders, so it must be deterministic for identical input.
package textclean

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Tags that separate lines. br, p and li emit a newline on both the opening
// and the closing tag; the block tags only on close.
var (
	lineBreakTags = map[string]struct{}{
		"br": {}, "p": {}, "li": {},
	}
	blockTags = map[string]struct{}{
		"div": {}, "ul": {}, "ol": {}, "tr": {}, "table": {}, "section": {}, "article": {},
	}
)

var (
	horizontalWS = regexp.MustCompile("[ \t\f\v ]+")
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// LooksLikeHTML reports whether s plausibly contains markup. Used by callers
// that receive descriptions which may be either HTML or already plain text.
func LooksLikeHTML(s string) bool {
	return strings.ContainsRune(s, '<') && strings.ContainsRune(s, '>')
}

// Clean strips markup from an HTML fragment and normalizes whitespace:
// entities decoded, script/style contents dropped, line-break tags turned
// into newlines, horizontal whitespace runs collapsed, every line trimmed,
// and three or more consecutive newlines folded to exactly two.
func Clean(input string) string {
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed tail; emit what we have.
			return normalize(b.String())
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if _, ok := lineBreakTags[tag]; ok {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if _, isBreak := lineBreakTags[tag]; isBreak {
				b.WriteByte('\n')
				continue
			}
			if _, isBlock := blockTags[tag]; isBlock {
				b.WriteByte('\n')
			}
		}
	}
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = horizontalWS.ReplaceAllString(line, " ")
		lines[i] = strings.TrimSpace(line)
	}

	out := strings.Join(lines, "\n")
	out = manyNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
