package vacancyparse

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionsFromHTML(t *testing.T) {
	html := "<p><strong>Требования</strong></p>" +
		"<ul><li>Python 3</li><li>FastAPI</li><li>SQL</li></ul>" +
		"<p><strong>Мы предлагаем:</strong></p>" +
		"<ul><li>Удалённую работу</li></ul>"

	result := Parse(html)

	assert.Equal(t, []string{"Python 3", "FastAPI", "SQL"}, result.Sections[SectionRequirements].Lines)
	assert.Equal(t, []string{"Удалённую работу"}, result.Sections[SectionConditions].Lines)
	assert.Equal(t, "Python 3\nFastAPI\nSQL", result.Sections[SectionRequirements].Text)
	assert.GreaterOrEqual(t, result.QualityScore, 0.55)
	assert.Equal(t, Version, result.Version)
}

func TestParseHeaderForms(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		section     string
		wantLines   []string
		description string
	}{
		{
			name:      "trailing colon stripped",
			html:      "<p>Требования:</p><p>Python</p>",
			section:   SectionRequirements,
			wantLines: []string{"Python"},
		},
		{
			name:      "header with inline first item",
			html:      "<p>Требования: опыт работы с Python</p>",
			section:   SectionRequirements,
			wantLines: []string{"опыт работы с Python"},
		},
		{
			name:      "dash separator",
			html:      "<p>Требования — Python</p>",
			section:   SectionRequirements,
			wantLines: []string{"Python"},
		},
		{
			name:      "longer alias wins",
			html:      "<p>Требования к кандидату:</p><p>Go</p>",
			section:   SectionRequirements,
			wantLines: []string{"Go"},
		},
		{
			name:      "case insensitive",
			html:      "<p>ТРЕБОВАНИЯ</p><p>Rust</p>",
			section:   SectionRequirements,
			wantLines: []string{"Rust"},
		},
		{
			name:      "responsibilities aliases",
			html:      "<p>Задачи:</p><p>писать код</p>",
			section:   SectionResponsibilities,
			wantLines: []string{"писать код"},
		},
		{
			name:      "nice to have section",
			html:      "<p>Будет плюсом:</p><p>Kafka</p>",
			section:   SectionNiceToHave,
			wantLines: []string{"Kafka"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.html)
			assert.Equal(t, tt.wantLines, result.Sections[tt.section].Lines)
		})
	}
}

func TestParseBulletStripping(t *testing.T) {
	html := "<p>Требования:</p>" +
		"<p>- Python</p>" +
		"<p>• Docker</p>" +
		"<p>1. PostgreSQL</p>" +
		"<p>2) Redis</p>" +
		"<p>a) Git</p>" +
		"<p>- 1. Kafka</p>"

	result := Parse(html)
	assert.Equal(t,
		[]string{"Python", "Docker", "PostgreSQL", "Redis", "Git", "Kafka"},
		result.Sections[SectionRequirements].Lines)
}

func TestParsePreHeaderLinesGoToOther(t *testing.T) {
	html := "<p>Крупная компания ищет разработчика</p><p>Требования:</p><p>Go</p>"
	result := Parse(html)

	assert.Equal(t, []string{"Крупная компания ищет разработчика"}, result.Sections[SectionOther].Lines)
	assert.Equal(t, []string{"Go"}, result.Sections[SectionRequirements].Lines)
}

func TestParseAllSectionKeysPresent(t *testing.T) {
	result := Parse("<p>что-то без заголовков</p>")
	for _, name := range []string{
		SectionResponsibilities, SectionRequirements, SectionNiceToHave, SectionConditions, SectionOther,
	} {
		section, ok := result.Sections[name]
		require.True(t, ok, "missing section %s", name)
		require.NotNil(t, section.Lines)
	}
}

func TestParseQualityScore(t *testing.T) {
	t.Run("requirements and conditions only", func(t *testing.T) {
		html := "<p>Требования</p><ul><li>A</li><li>B</li><li>C</li></ul>" +
			"<p>Условия</p><ul><li>X</li></ul>"
		// +0.45 requirements, +0.10 conditions.
		assert.InDelta(t, 0.55, Parse(html).QualityScore, 1e-9)
	})

	t.Run("all other penalty", func(t *testing.T) {
		long := strings.Repeat("очень длинное описание без структуры ", 20)
		var b strings.Builder
		for i := 0; i < 8; i++ {
			b.WriteString("<p>" + long + "</p>")
		}
		// +0.20 length, +0.20 lines, -0.25 everything in other.
		assert.InDelta(t, 0.15, Parse(b.String()).QualityScore, 1e-9)
	})

	t.Run("clamped at zero", func(t *testing.T) {
		score := Parse("<p>короткий текст</p>").QualityScore
		assert.Equal(t, 0.0, score)
	})

	t.Run("full house", func(t *testing.T) {
		item := strings.Repeat("x", 80)
		html := "<p>Обязанности</p><ul><li>" + item + "</li><li>" + item + "</li></ul>" +
			"<p>Требования</p><ul><li>" + item + "</li><li>" + item + "</li><li>" + item + "</li></ul>" +
			"<p>Условия</p><ul><li>" + item + "</li><li>" + item + "</li><li>" + item + "</li></ul>"
		// 0.45 + 0.15 + 0.10 + 0.20 + 0.20 = 1.0, clamped.
		assert.InDelta(t, 1.0, Parse(html).QualityScore, 1e-9)
	})
}

func TestParseStability(t *testing.T) {
	html := "<p>Требования:</p><ul><li>Python</li><li>Docker</li></ul><p>Условия:</p><p>офис</p>"

	first := Parse(html)
	second := Parse(html)

	require.Equal(t, first.PlainText, second.PlainText)

	firstJSON, err := json.Marshal(first.Sections)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Sections)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}
