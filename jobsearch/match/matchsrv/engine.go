package matchsrv

import (
	"fmt"
	"strings"

	"github.com/Abraxas-365/scout/internal/skills"
	"github.com/Abraxas-365/scout/jobsearch/match"
	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
)

// Score composition weights and penalties.
const (
	weightSemantic     = 0.45
	weightHardCoverage = 0.35
	weightNiceCoverage = 0.20

	overqualifiedMultiplier = 0.9
	salaryWarningMultiplier = 0.95
	noSkillRequirementsCap  = 0.65

	verdictStrongThreshold = 0.75
	verdictOKThreshold     = 0.50
	verdictWeakThreshold   = 0.30
)

// evidenceWindow is the rune width of the context snippet around a match.
const evidenceWindow = 180

// minResumeTextLen is the length under which the resume is considered too
// thin and gets a structure suggestion.
const minResumeTextLen = 280

// uncertainTokenMinLen filters noise words out of the partial-hit signal.
const uncertainTokenMinLen = 3

var relocationMarkers = []string{
	"релокац",
	"переезд в",
	"готовность к переезду",
	"обязателен переезд",
	"relocation",
}

// negativeRelocationMarkers neutralize a relocation marker: the vacancy
// mentions relocation only to say it is not needed.
var negativeRelocationMarkers = []string{
	"без релокации",
	"без переезда",
	"релокация не требуется",
	"не требуется релокация",
	"релокации нет",
	"no relocation",
	"without relocation",
}

var remoteMarkers = []string{"удален", "remote", "дистанцион"}

var juniorMarkers = []string{"junior", "джуниор", "младший"}

var seniorMarkers = []string{"senior", "сеньор", "6+"}

// matchedRequirement is one requirement found in the profile text, with the
// evidence snippet that proves it.
type matchedRequirement struct {
	requirement vacancy.Requirement
	snippet     string
	confidence  float64
}

// layer1Result is everything the keyword layer produces.
type layer1Result struct {
	hardCoverage float64
	niceCoverage float64
	ats          match.ATSReport
	matched      []matchedRequirement
}

// computeLayer1 runs alias-aware keyword coverage over the profile text.
// Exact contiguous token-sequence hits count 1.0, alias hits 0.8; a partial
// token hit of a missing requirement lands in keywords_uncertain.
func computeLayer1(requirements []vacancy.Requirement, profileText string) layer1Result {
	tokens := skills.Tokenize(profileText)
	tokenSet := skills.TokenSet(tokens)

	var (
		present, missingMust, missingNice, uncertain []string
		matched                                      []matchedRequirement

		totalHard, matchedHard float64
		totalNice, matchedNice float64
	)

	for _, req := range requirements {
		needle := req.NormalizedKey
		if needle == "" {
			needle = skills.KeyFor(req.RawText)
		}
		weight := float64(req.Weight)
		if weight < 0 {
			weight = 0
		}
		if req.IsHard {
			totalHard += weight
		} else {
			totalNice += weight
		}

		span, confidence, found := findRequirement(tokens, needle)
		if found {
			present = append(present, req.RawText)
			matched = append(matched, matchedRequirement{
				requirement: req,
				snippet:     skills.Snippet(profileText, span, evidenceWindow),
				confidence:  confidence,
			})
			if req.IsHard {
				matchedHard += weight
			} else {
				matchedNice += weight
			}
			continue
		}

		if req.IsHard {
			missingMust = append(missingMust, req.RawText)
		} else {
			missingNice = append(missingNice, req.RawText)
		}
		if hasUncertainTokenHit(needle, tokenSet) {
			uncertain = append(uncertain, req.RawText)
		}
	}

	ats := match.ATSReport{
		KeywordsPresent:     unique(present),
		KeywordsMissingMust: unique(missingMust),
		KeywordsMissingNice: unique(missingNice),
		KeywordsUncertain:   unique(uncertain),
		KeywordsToAdd:       unique(append(append([]string{}, missingNice...), uncertain...)),
	}

	return layer1Result{
		hardCoverage: coverage(matchedHard, totalHard),
		niceCoverage: coverage(matchedNice, totalNice),
		ats:          ats,
		matched:      matched,
	}
}

// findRequirement looks for the needle's token sequence in the profile
// tokens, exact form first, then every catalog alias.
func findRequirement(tokens []skills.Token, needle string) (skills.Span, float64, bool) {
	if needle == "" {
		return skills.Span{}, 0, false
	}
	if span, ok := skills.FindSequence(tokens, needle); ok {
		return span, 1.0, true
	}
	for _, alias := range skills.AliasesFor(needle) {
		if span, ok := skills.FindSequence(tokens, alias); ok {
			return span, 0.8, true
		}
	}
	return skills.Span{}, 0, false
}

// hasUncertainTokenHit reports a partial hit: some token of the requirement
// or its aliases occurs in the profile, just not as the full sequence.
func hasUncertainTokenHit(needle string, tokenSet map[string]struct{}) bool {
	forms := append([]string{needle}, skills.AliasesFor(needle)...)
	for _, form := range forms {
		for _, token := range strings.Fields(form) {
			if len([]rune(token)) < uncertainTokenMinLen {
				continue
			}
			if _, ok := tokenSet[token]; ok {
				return true
			}
		}
	}
	return false
}

func coverage(matched, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return matched / total
}

// evaluateGates runs the eligibility checks: hard-skill misses, relocation,
// location and the salary floor. Reasons fail the pair; warnings only shave
// the score.
func evaluateGates(p *profile.Profile, vac *vacancy.Vacancy, vacancyText string, missingMust []string) match.Eligibility {
	reasons := []string{}
	warnings := []string{}

	if len(missingMust) > 0 {
		reasons = append(reasons, match.ReasonMissingRequiredSkills)
	}

	if requiresRelocation(vacancyText) && !p.RelocationOK {
		reasons = append(reasons, match.ReasonRelocationRequired)
	}

	if p.Location != nil && vac.Location != nil {
		profileLoc := strings.ToLower(strings.TrimSpace(*p.Location))
		vacancyLoc := strings.ToLower(strings.TrimSpace(*vac.Location))
		if profileLoc != "" && vacancyLoc != "" && profileLoc != vacancyLoc && !isRemote(vac, vacancyText) {
			reasons = append(reasons, match.ReasonLocationMismatch)
		}
	}

	if p.SalaryMin != nil {
		switch {
		case vac.SalaryTo != nil && *vac.SalaryTo < *p.SalaryMin:
			reasons = append(reasons, match.ReasonSalaryAboveRange)
		case vac.SalaryFrom != nil && *vac.SalaryFrom < *p.SalaryMin:
			warnings = append(warnings, match.WarningSalaryFloor)
		}
	}

	return match.Eligibility{
		OK:            len(reasons) == 0,
		ReasonsFailed: reasons,
		Warnings:      warnings,
	}
}

func requiresRelocation(vacancyText string) bool {
	if !containsAny(vacancyText, relocationMarkers) {
		return false
	}
	return !containsAny(vacancyText, negativeRelocationMarkers)
}

func isRemote(vac *vacancy.Vacancy, vacancyText string) bool {
	if containsAny(strings.ToLower(vac.Title), remoteMarkers) {
		return true
	}
	if vac.Location != nil && containsAny(strings.ToLower(*vac.Location), remoteMarkers) {
		return true
	}
	return containsAny(vacancyText, remoteMarkers)
}

// isOverqualified probes the junior-vacancy senior-profile mismatch with
// lexical markers. The signal multiplies the score rather than gating.
func isOverqualified(p *profile.Profile, vac *vacancy.Vacancy, vacancyText string) bool {
	vacancyJunior := containsAny(strings.ToLower(vac.Title), juniorMarkers) || containsAny(vacancyText, juniorMarkers)
	if !vacancyJunior {
		return false
	}
	return containsAny(strings.ToLower(p.ResumeText), seniorMarkers)
}

// composeScore folds the layers into the raw score, applies the penalties
// and picks the verdict.
func composeScore(sim, hardCov, niceCov float64, eligible, overqualified, salaryWarning, noSkillReqs bool) (raw, final float64, verdict string, penalties []string) {
	raw = weightSemantic*sim + weightHardCoverage*hardCov + weightNiceCoverage*niceCov
	penalties = []string{}

	if overqualified {
		raw *= overqualifiedMultiplier
		penalties = append(penalties, match.PenaltyOverqualified)
	}
	if salaryWarning {
		raw *= salaryWarningMultiplier
		penalties = append(penalties, match.PenaltySalaryWarning)
	}
	if noSkillReqs {
		if raw > noSkillRequirementsCap {
			raw = noSkillRequirementsCap
		}
		penalties = append(penalties, match.PenaltyNoSkillReqsCap)
	}
	raw = clamp01(raw)

	if !eligible {
		return raw, 0, match.VerdictReject, penalties
	}

	switch {
	case raw >= verdictStrongThreshold:
		verdict = match.VerdictStrong
	case raw >= verdictOKThreshold:
		verdict = match.VerdictOK
	case raw >= verdictWeakThreshold:
		verdict = match.VerdictWeak
	default:
		verdict = match.VerdictReject
	}
	return raw, raw, verdict, penalties
}

func buildCoverLetterPoints(matched []matchedRequirement) []string {
	points := []string{}
	for _, m := range matched {
		if len(points) == 3 {
			break
		}
		points = append(points, fmt.Sprintf("Подкрепите навык '%s' фактом из резюме: %s", m.requirement.RawText, m.snippet))
	}
	return points
}

func buildStructureSuggestions(missingMust []string, resumeText, skillsText string) []string {
	suggestions := []string{
		"Опишите достижения в формате 'действие → результат → метрика'.",
	}
	if strings.TrimSpace(skillsText) == "" {
		suggestions = append(suggestions, "Добавьте раздел Skills с ключевыми навыками.")
	}
	if len([]rune(strings.TrimSpace(resumeText))) < minResumeTextLen {
		suggestions = append(suggestions, "Расширьте описание опыта: добавьте задачи, результаты и метрики.")
	}
	if len(missingMust) > 0 {
		suggestions = append(suggestions, "Явно укажите обязательные навыки в опыте и summary.")
	}
	return suggestions
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := []string{}
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
