package profilesrv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Document modes select how much profile structure goes into the embedding
// input.
const (
	DocumentModeTerse = "terse"
	DocumentModeRich  = "rich"
)

// maxDocumentLength caps the rich document so embedding inputs stay bounded.
const maxDocumentLength = 10000

// Caps per rich document section.
const (
	maxDocumentSkills       = 25
	maxDocumentExperiences  = 5
	maxDocumentProjects     = 3
	maxDocumentAchievements = 5
	maxDocumentEducation    = 3
	maxDocumentCertificates = 5
	maxDocumentLanguages    = 5
)

// BuildDocument assembles the text the embedding provider sees for a
// profile. Terse mode is the flat legacy composition; rich mode folds in the
// structured sub-entities.
func (s *ProfileService) BuildDocument(ctx context.Context, id kernel.ProfileID, mode string) (string, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if mode == DocumentModeRich {
		return s.buildRichDocument(ctx, entity)
	}
	return buildTerseDocument(entity), nil
}

func buildTerseDocument(p *profile.Profile) string {
	parts := make([]string, 0, 3)
	if p.Title != nil && *p.Title != "" {
		parts = append(parts, *p.Title)
	}
	if p.ResumeText != "" {
		parts = append(parts, p.ResumeText)
	}
	if p.SkillsText != nil && *p.SkillsText != "" {
		parts = append(parts, *p.SkillsText)
	}
	return strings.Join(parts, "\n\n")
}

func (s *ProfileService) buildRichDocument(ctx context.Context, p *profile.Profile) (string, error) {
	resumeText := p.ResumeText
	if latest, err := s.repo.LatestApprovedResumeText(ctx, p.ID); err != nil {
		return "", err
	} else if latest != nil && *latest != "" {
		resumeText = *latest
	}

	skills, err := s.repo.ListSkills(ctx, p.ID)
	if err != nil {
		return "", err
	}
	experiences, err := s.repo.ListExperiences(ctx, p.ID)
	if err != nil {
		return "", err
	}
	projects, err := s.repo.ListProjects(ctx, p.ID)
	if err != nil {
		return "", err
	}
	achievements, err := s.repo.ListAchievements(ctx, p.ID)
	if err != nil {
		return "", err
	}
	education, err := s.repo.ListEducation(ctx, p.ID)
	if err != nil {
		return "", err
	}
	certificates, err := s.repo.ListCertificates(ctx, p.ID)
	if err != nil {
		return "", err
	}
	languages, err := s.repo.ListLanguages(ctx, p.ID)
	if err != nil {
		return "", err
	}

	var parts []string
	parts = append(parts, buildHeaderSection(p))

	if resumeText != "" {
		parts = append(parts, "Resume\n"+resumeText)
	}
	if section := buildSkillsSection(capSkills(skills)); section != "" {
		parts = append(parts, section)
	}
	if section := buildExperienceSection(capExperiences(experiences)); section != "" {
		parts = append(parts, section)
	}
	if section := buildProjectsSection(capProjects(projects)); section != "" {
		parts = append(parts, section)
	}
	if section := buildAchievementsSection(capAchievements(achievements)); section != "" {
		parts = append(parts, section)
	}
	if section := buildOtherSection(capEducation(education), capCertificates(certificates), capLanguages(languages)); section != "" {
		parts = append(parts, section)
	}

	return truncateDocument(strings.Join(parts, "\n\n")), nil
}

func buildHeaderSection(p *profile.Profile) string {
	var lines []string
	if p.Title != nil && *p.Title != "" {
		lines = append(lines, "Title: "+*p.Title)
	}
	if p.SummaryAbout != nil && *p.SummaryAbout != "" {
		lines = append(lines, "Headline: "+*p.SummaryAbout)
	}

	var locationParts []string
	if p.City != nil && *p.City != "" {
		locationParts = append(locationParts, *p.City)
	}
	if p.Country != nil && *p.Country != "" {
		locationParts = append(locationParts, *p.Country)
	}
	if len(locationParts) > 0 {
		lines = append(lines, "Location: "+strings.Join(locationParts, ", "))
	}

	lines = append(lines, "Remote: "+yesNo(p.RemoteOK))
	lines = append(lines, "Relocation: "+yesNo(p.RelocationOK))
	if p.SalaryMin != nil {
		lines = append(lines, fmt.Sprintf("Salary min: %d", *p.SalaryMin))
	}
	if p.AvailableFrom != nil {
		lines = append(lines, "Available from: "+p.AvailableFrom.Format("2006-01-02"))
	}
	if p.NoticePeriodDays != nil {
		lines = append(lines, fmt.Sprintf("Notice period (days): %d", *p.NoticePeriodDays))
	}

	return "Profile\n" + strings.Join(lines, "\n")
}

func buildSkillsSection(skills []profile.Skill) string {
	if len(skills) == 0 {
		return ""
	}
	lines := make([]string, 0, len(skills))
	for _, skill := range skills {
		var details []string
		if skill.Level != "" && skill.Level != profile.SkillLevelUnspecified {
			details = append(details, skill.Level)
		}
		if skill.Years != nil {
			details = append(details, fmt.Sprintf("%g years", *skill.Years))
		}
		if len(details) > 0 {
			lines = append(lines, fmt.Sprintf("- %s (%s)", skill.NameRaw, strings.Join(details, ", ")))
		} else {
			lines = append(lines, "- "+skill.NameRaw)
		}
	}
	return "Skills\n" + strings.Join(lines, "\n")
}

func buildExperienceSection(experiences []profile.Experience) string {
	if len(experiences) == 0 {
		return ""
	}
	var lines []string
	for _, exp := range experiences {
		end := exp.EndDate
		if exp.IsCurrent {
			end = nil
		}
		lines = append(lines, fmt.Sprintf("- %s | %s | %s", exp.PositionTitle, exp.CompanyName, dateRange(&exp.StartDate, end)))
		if exp.AchievementsText != "" {
			lines = append(lines, "  Achievements: "+exp.AchievementsText)
		}
		if exp.TechStackText != nil && *exp.TechStackText != "" {
			lines = append(lines, "  Tech: "+*exp.TechStackText)
		}
	}
	return "Experience\n" + strings.Join(lines, "\n")
}

func buildProjectsSection(projects []profile.Project) string {
	if len(projects) == 0 {
		return ""
	}
	var lines []string
	for _, project := range projects {
		header := "- " + project.Name
		if project.Role != nil && *project.Role != "" {
			header += " (" + *project.Role + ")"
		}
		header += " | " + dateRange(project.StartDate, project.EndDate)
		lines = append(lines, header)
		lines = append(lines, "  "+project.DescriptionText)
		if project.TechStackText != nil && *project.TechStackText != "" {
			lines = append(lines, "  Tech: "+*project.TechStackText)
		}
	}
	return "Projects\n" + strings.Join(lines, "\n")
}

func buildAchievementsSection(achievements []profile.Achievement) string {
	if len(achievements) == 0 {
		return ""
	}
	lines := make([]string, 0, len(achievements))
	for _, achievement := range achievements {
		metric := ""
		if achievement.Metric != nil && *achievement.Metric != "" {
			metric = " [" + *achievement.Metric + "]"
		}
		lines = append(lines, fmt.Sprintf("- %s%s: %s", achievement.Title, metric, achievement.DescriptionText))
	}
	return "Achievements\n" + strings.Join(lines, "\n")
}

func buildOtherSection(education []profile.Education, certificates []profile.Certificate, languages []profile.Language) string {
	var sections []string
	if len(education) > 0 {
		entries := make([]string, 0, len(education))
		for _, item := range education {
			entries = append(entries, fmt.Sprintf("%s, %s, %s (%s-%s)",
				item.DegreeLevel, item.FieldOfStudy, item.Institution,
				yearOrQuestion(item.StartYear), yearOrQuestion(item.EndYear)))
		}
		sections = append(sections, "Education: "+strings.Join(entries, "; "))
	}
	if len(certificates) > 0 {
		entries := make([]string, 0, len(certificates))
		for _, item := range certificates {
			entries = append(entries, fmt.Sprintf("%s (%s)", item.Name, item.Issuer))
		}
		sections = append(sections, "Certificates: "+strings.Join(entries, "; "))
	}
	if len(languages) > 0 {
		entries := make([]string, 0, len(languages))
		for _, item := range languages {
			entries = append(entries, fmt.Sprintf("%s (%s)", item.Language, item.Level))
		}
		sections = append(sections, "Languages: "+strings.Join(entries, ", "))
	}
	if len(sections) == 0 {
		return ""
	}
	return "Other\n" + strings.Join(sections, "\n")
}

func dateRange(start, end *time.Time) string {
	return formatMonth(start) + " - " + formatMonth(end)
}

func formatMonth(t *time.Time) string {
	if t == nil {
		return "present"
	}
	return t.Format("2006-01")
}

func yearOrQuestion(year *int) string {
	if year == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *year)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func truncateDocument(text string) string {
	if len(text) <= maxDocumentLength {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxDocumentLength {
		return text
	}
	return strings.TrimRight(string(runes[:maxDocumentLength-3]), " \n") + "..."
}

func capSkills(v []profile.Skill) []profile.Skill {
	if len(v) > maxDocumentSkills {
		return v[:maxDocumentSkills]
	}
	return v
}

func capExperiences(v []profile.Experience) []profile.Experience {
	if len(v) > maxDocumentExperiences {
		return v[:maxDocumentExperiences]
	}
	return v
}

func capProjects(v []profile.Project) []profile.Project {
	if len(v) > maxDocumentProjects {
		return v[:maxDocumentProjects]
	}
	return v
}

func capAchievements(v []profile.Achievement) []profile.Achievement {
	if len(v) > maxDocumentAchievements {
		return v[:maxDocumentAchievements]
	}
	return v
}

func capEducation(v []profile.Education) []profile.Education {
	if len(v) > maxDocumentEducation {
		return v[:maxDocumentEducation]
	}
	return v
}

func capCertificates(v []profile.Certificate) []profile.Certificate {
	if len(v) > maxDocumentCertificates {
		return v[:maxDocumentCertificates]
	}
	return v
}

func capLanguages(v []profile.Language) []profile.Language {
	if len(v) > maxDocumentLanguages {
		return v[:maxDocumentLanguages]
	}
	return v
}
