package vacancyparse

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Abraxas-365/scout/internal/textclean"
)

// Version tags rows produced by this parser. Stored alongside the parse so a
// version bump triggers re-parsing on the next ingest.
const Version = "hh_sections_v2"

// Section is one labeled block of a parsed description.
type Section struct {
	Lines []string `json:"lines"`
	Text  string   `json:"text"`
}

// Result is the full outcome of parsing one description.
type Result struct {
	PlainText    string
	Sections     map[string]Section
	QualityScore float64
	Version      string
}

var bulletRe = regexp.MustCompile(`(?i)^\s*(?:[-*•●◦▪▫‣∙]+|\d+[.)]|[a-zа-яё]\)|[ivxlcdm]+\))\s+`)

// headerPrefixRes holds one pattern per alias for the "Требования: опыт..."
// form where the header and its first item share a line.
var headerPrefixRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(sectionAliases))
	for i, a := range sectionAliases {
		res[i] = regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(a.alias) + `\s*[:\-–—]\s*(.+)$`)
	}
	return res
}()

// Parse cleans the HTML, splits it into bullet-stripped lines, routes lines
// into sections by header detection and scores the parse quality.
func Parse(html string) Result {
	plain := textclean.Clean(html)

	lines := map[string][]string{}
	current := ""
	lineCount := 0

	appendLine := func(section, line string) {
		lines[section] = append(lines[section], line)
		lineCount++
	}

	for _, raw := range strings.Split(plain, "\n") {
		line := stripBullets(strings.TrimSpace(raw))
		if line == "" {
			continue
		}

		if section, remainder, ok := detectHeader(line); ok {
			current = section
			if remainder != "" {
				appendLine(current, remainder)
			}
			continue
		}

		if current == "" {
			appendLine(SectionOther, line)
			continue
		}
		appendLine(current, line)
	}

	sections := make(map[string]Section, len(sectionOrder))
	for _, name := range sectionOrder {
		sectionLines := lines[name]
		if sectionLines == nil {
			sectionLines = []string{}
		}
		sections[name] = Section{
			Lines: sectionLines,
			Text:  strings.Join(sectionLines, "\n"),
		}
	}

	return Result{
		PlainText:    plain,
		Sections:     sections,
		QualityScore: qualityScore(plain, sections, lineCount),
		Version:      Version,
	}
}

// stripBullets removes stacked bullet and ordinal prefixes ("- 1. Python"
// loses both markers).
func stripBullets(line string) string {
	for {
		stripped := bulletRe.ReplaceAllString(line, "")
		if stripped == line {
			return strings.TrimSpace(stripped)
		}
		line = stripped
	}
}

// detectHeader recognizes a section header either as the whole line
// (trailing colon/dash variants stripped) or as an alias followed by a
// separator and the section's first item.
func detectHeader(line string) (section string, remainder string, ok bool) {
	normalized := strings.ToLower(line)
	stripped := strings.TrimRight(normalized, ":-–— ")

	for _, a := range sectionAliases {
		if stripped == a.alias {
			return a.section, "", true
		}
	}

	for i, a := range sectionAliases {
		if m := headerPrefixRes[i].FindStringSubmatch(line); m != nil {
			rest := stripBullets(strings.TrimSpace(m[1]))
			return a.section, rest, true
		}
	}

	return "", "", false
}

func qualityScore(plain string, sections map[string]Section, lineCount int) float64 {
	score := 0.0
	if len(sections[SectionRequirements].Lines) >= 3 {
		score += 0.45
	}
	if len(sections[SectionResponsibilities].Lines) >= 1 {
		score += 0.15
	}
	if len(sections[SectionConditions].Lines) >= 1 {
		score += 0.10
	}
	if utf8.RuneCountInString(plain) >= 600 {
		score += 0.20
	}
	if lineCount >= 8 {
		score += 0.20
	}
	// Everything landing in "other" means header detection failed.
	if lineCount > 0 && len(sections[SectionOther].Lines) == lineCount {
		score -= 0.25
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return math.Round(score*10000) / 10000
}
