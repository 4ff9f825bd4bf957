package profileinfra

import (
	"testing"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileModelRoundTrip(t *testing.T) {
	title := "Senior Go Developer"
	skills := "Go, PostgreSQL, Docker"
	location := "Москва"
	salaryMin := 250000
	years := 7.5

	entity := &profile.Profile{
		ID:           kernel.NewProfileID(5),
		Title:        &title,
		ResumeText:   "Семь лет разработки на Go.",
		SkillsText:   &skills,
		Location:     &location,
		RemoteOK:     true,
		RelocationOK: false,
		SalaryMin:    &salaryMin,

		PreferredIndustries: []string{"fintech"},
		PreferredTech:       []string{"go", "postgresql"},
		ExcludedTech:        []string{"php"},
		InterestTags:        []string{},
		TeamPreferences:     map[string]any{"size": "small"},

		YearsTotal: &years,
		CreatedAt:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2026, 8, 13, 9, 0, 0, 0, time.UTC),
	}

	model, err := fromEntity(entity)
	require.NoError(t, err)
	assert.JSONEq(t, `["go","postgresql"]`, string(model.PreferredTech))

	back, err := model.toEntity()
	require.NoError(t, err)

	assert.Equal(t, entity.ID, back.ID)
	assert.Equal(t, entity.Title, back.Title)
	assert.Equal(t, entity.ResumeText, back.ResumeText)
	assert.Equal(t, entity.SalaryMin, back.SalaryMin)
	assert.Equal(t, entity.PreferredIndustries, back.PreferredIndustries)
	assert.Equal(t, entity.PreferredTech, back.PreferredTech)
	assert.Equal(t, entity.ExcludedTech, back.ExcludedTech)
	assert.Equal(t, "small", back.TeamPreferences["size"])
}

func TestProfileModelNilCollections(t *testing.T) {
	entity := &profile.Profile{ID: kernel.NewProfileID(6), ResumeText: "text"}

	model, err := fromEntity(entity)
	require.NoError(t, err)

	back, err := model.toEntity()
	require.NoError(t, err)

	assert.NotNil(t, back.PreferredIndustries)
	assert.Empty(t, back.PreferredIndustries)
	assert.NotNil(t, back.TeamPreferences)
	assert.Empty(t, back.TeamPreferences)
}
