// Package vacancyparse turns cleaned vacancy descriptions into labeled
// sections, classifies individual lines by requirement strength and extracts
// deduplicated skill and constraint requirements.
package vacancyparse

import "regexp"

// Section names. They double as keys of the persisted sections document, so
// the values never change.
const (
	SectionResponsibilities = "responsibilities"
	SectionRequirements     = "requirements"
	SectionNiceToHave       = "nice_to_have"
	SectionConditions       = "conditions"
	SectionOther            = "other"
)

// sectionOrder fixes iteration order wherever all sections are walked.
var sectionOrder = []string{
	SectionResponsibilities,
	SectionRequirements,
	SectionNiceToHave,
	SectionConditions,
	SectionOther,
}

// sectionAliases maps lowercased header forms to section names. Longer
// aliases are checked before their prefixes ("требования к кандидату" before
// "требования").
var sectionAliases = []struct {
	alias   string
	section string
}{
	{"обязанности", SectionResponsibilities},
	{"задачи", SectionResponsibilities},
	{"что делать", SectionResponsibilities},
	{"требования к кандидату", SectionRequirements},
	{"ожидания от кандидата", SectionRequirements},
	{"мы ожидаем", SectionRequirements},
	{"требования", SectionRequirements},
	{"будет плюсом", SectionNiceToHave},
	{"желательно", SectionNiceToHave},
	{"приветствуется", SectionNiceToHave},
	{"nice to have", SectionNiceToHave},
	{"условия", SectionConditions},
	{"мы предлагаем", SectionConditions},
	{"компенсация", SectionConditions},
	{"benefits", SectionConditions},
}

// niceMarkers downgrade a line to a nice-to-have even inside the
// requirements section.
var niceMarkers = []string{
	"будет плюсом",
	"плюсом будет",
	"желательно",
	"приветствуется",
	"nice to have",
	"будет преимуществом",
	"как преимущество",
}

// mustMarkers promote a line to a hard requirement outside the requirements
// section. "только" is listed here because phrases like "только опыт от 3
// лет обязателен" are hard, while the work-format exceptions below demote
// office-only lines.
var mustMarkers = []string{
	"обязательно",
	"обязателен",
	"обязательна",
	"необходимо",
	"необходим",
	"требуется",
	"только",
	"must have",
	"required",
}

// onlyFormatPatterns catch "office only" style statements that contain a
// must marker but describe the work format, not a skill.
var onlyFormatPatterns = []*regexp.Regexp{
	regexp.MustCompile(`только\s+офис`),
	regexp.MustCompile(`только\s+очно`),
	regexp.MustCompile(`только\s+офлайн`),
	regexp.MustCompile(`только\s+в\s+офисе`),
	regexp.MustCompile(`office\s+only`),
}

// requirementPrefixes mark lines that read like a requirement without any
// explicit marker ("Опыт работы с ...", "Знание ...").
var requirementPrefixes = []string{
	"опыт",
	"знание",
	"знания",
	"умение",
	"владение",
	"понимание",
	"навык",
	"уверенное",
	"experience",
	"knowledge",
	"proficiency",
}

// hardConstraintMarkers flag structured constraints as hard when any of them
// occur in the vacancy description.
var hardConstraintMarkers = []string{
	"обязательно",
	"необходимо",
	"требуется",
}
