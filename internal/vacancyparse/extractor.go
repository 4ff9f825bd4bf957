package vacancyparse

import (
	"fmt"
	"strings"

	"github.com/Abraxas-365/scout/internal/skills"
)

// Requirement kinds and extraction sources.
const (
	KindSkill      = "skill"
	KindConstraint = "constraint"

	SourceKeySkills     = "key_skills"
	SourceOtherFallback = "text_other_fallback"
	SourceStructured    = "structured"
)

// Requirement is one extracted vacancy requirement before persistence.
type Requirement struct {
	Kind          string
	RawText       string
	NormalizedKey string
	IsHard        bool
	Weight        int
	Source        string
}

// StructuredFields carries the job board's structured vacancy attributes
// that become constraint requirements.
type StructuredFields struct {
	Experience string
	Schedule   string
	Employment string
	Area       string
}

// ExtractRequirements walks the requirements and nice_to_have sections,
// classifies each line and collects catalog skill hits, deduplicated by
// normalized key with must beating nice. When the sections yield fewer than
// three distinct skills it salvages requirement-looking lines from "other".
// Key skills from the job board merge in as non-hard entries, and structured
// fields append constraint requirements.
func ExtractRequirements(sections map[string]Section, keySkills []string, structured StructuredFields, description string) []Requirement {
	var ordered []Requirement
	index := make(map[string]int)

	addSkill := func(name string, isHard bool, weight int, source string) {
		key := skills.Normalize(name)
		if key == "" {
			return
		}
		if pos, ok := index[key]; ok {
			if isHard && !ordered[pos].IsHard {
				ordered[pos].IsHard = true
				ordered[pos].Weight = 3
			}
			return
		}
		index[key] = len(ordered)
		ordered = append(ordered, Requirement{
			Kind:          KindSkill,
			RawText:       name,
			NormalizedKey: key,
			IsHard:        isHard,
			Weight:        weight,
			Source:        source,
		})
	}

	for _, sectionName := range []string{SectionRequirements, SectionNiceToHave} {
		for _, line := range sections[sectionName].Lines {
			class := ClassifyLine(line, sectionName)
			if class == ClassOther {
				continue
			}
			isHard := class == ClassMust
			weight := 1
			if isHard {
				weight = 3
			}
			for _, name := range scanLineForSkills(line) {
				addSkill(name, isHard, weight, sectionName)
			}
		}
	}

	if len(ordered) < 3 {
		for _, line := range sections[SectionOther].Lines {
			if ClassifyLine(line, SectionOther) == ClassOther {
				continue
			}
			for _, name := range scanLineForSkills(line) {
				addSkill(name, false, 1, SourceOtherFallback)
			}
		}
	}

	for _, ks := range keySkills {
		ks = strings.TrimSpace(ks)
		if ks == "" {
			continue
		}
		addSkill(ks, false, 1, SourceKeySkills)
	}

	return append(ordered, extractConstraints(structured, description)...)
}

// scanLineForSkills returns the catalog names whose alias token sequences
// occur in the line, in catalog order.
func scanLineForSkills(line string) []string {
	tokens := skills.Tokenize(line)
	if len(tokens) == 0 {
		return nil
	}
	var hits []string
	for _, skill := range skills.Catalog {
		for _, alias := range skill.Aliases {
			if _, ok := skills.FindSequence(tokens, alias); ok {
				hits = append(hits, skill.Name)
				break
			}
		}
	}
	return hits
}

// extractConstraints renders structured fields as constraint requirements.
// They are hard when the description itself carries a hard marker.
func extractConstraints(structured StructuredFields, description string) []Requirement {
	fields := []struct {
		name string
		raw  string
	}{
		{"experience", structured.Experience},
		{"schedule", structured.Schedule},
		{"employment", structured.Employment},
		{"area", structured.Area},
	}

	isHard := containsAny(strings.ToLower(description), hardConstraintMarkers)
	weight := 1
	if isHard {
		weight = 3
	}

	var out []Requirement
	seen := make(map[string]struct{})
	for _, f := range fields {
		raw := strings.TrimSpace(f.raw)
		if raw == "" {
			continue
		}
		key := f.name + ":" + skills.KeyFor(raw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Requirement{
			Kind:          KindConstraint,
			RawText:       fmt.Sprintf("%s: %s", f.name, raw),
			NormalizedKey: key,
			IsHard:        isHard,
			Weight:        weight,
			Source:        SourceStructured,
		})
	}
	return out
}
