package vacancyparse

import "strings"

// LineClass is the requirement strength of a single line.
type LineClass string

const (
	ClassMust  LineClass = "must"
	ClassNice  LineClass = "nice"
	ClassOther LineClass = "other"
)

// ClassifyLine assigns a requirement strength to one line given the section
// it belongs to. Rule order is load-bearing:
//
//  1. the nice_to_have section wins over any marker,
//  2. inside requirements a nice marker still downgrades the line,
//  3. nice markers beat must markers,
//  4. must markers hold unless the line is an "only format" statement,
//  5. lines that start like a requirement default to must.
func ClassifyLine(line string, section string) LineClass {
	normalized := strings.ToLower(strings.TrimSpace(line))
	if normalized == "" {
		return ClassOther
	}

	if section == SectionNiceToHave {
		return ClassNice
	}

	if section == SectionRequirements {
		if containsAny(normalized, niceMarkers) {
			return ClassNice
		}
		return ClassMust
	}

	if containsAny(normalized, niceMarkers) {
		return ClassNice
	}

	if containsAny(normalized, mustMarkers) {
		if strings.Contains(normalized, "только") && matchesOnlyFormat(normalized) {
			return ClassOther
		}
		return ClassMust
	}

	if startsLikeRequirement(normalized) {
		return ClassMust
	}

	return ClassOther
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func matchesOnlyFormat(s string) bool {
	for _, p := range onlyFormatPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func startsLikeRequirement(normalized string) bool {
	for _, prefix := range requirementPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}
