package savedsearchinfra

import (
	"testing"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/savedsearch"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedSearchModelRoundTrip(t *testing.T) {
	area := "1"
	salaryFrom := 250000
	currency := "RUR"
	lastSync := time.Date(2026, 8, 10, 9, 30, 0, 0, time.UTC)
	watermark := time.Date(2026, 8, 9, 18, 0, 0, 0, time.UTC)

	entity := &savedsearch.SavedSearch{
		ID:         kernel.NewSavedSearchID(7),
		Text:       "golang backend",
		Area:       &area,
		SalaryFrom: &salaryFrom,
		Currency:   &currency,
		FiltersJSON: map[string]any{
			"only_with_salary":  true,
			"professional_role": []any{"96", "104"},
		},
		PerPage:             20,
		PagesLimit:          3,
		CursorPage:          6,
		IsActive:            true,
		LastSyncAt:          &lastSync,
		LastSeenPublishedAt: &watermark,
		CreatedAt:           time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:           time.Date(2026, 8, 10, 9, 30, 0, 0, time.UTC),
	}

	model, err := fromEntity(entity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"only_with_salary":true,"professional_role":["96","104"]}`, string(model.FiltersJSON))

	back, err := model.toEntity()
	require.NoError(t, err)

	assert.Equal(t, entity.ID, back.ID)
	assert.Equal(t, entity.Text, back.Text)
	assert.Equal(t, entity.Area, back.Area)
	assert.Equal(t, entity.SalaryFrom, back.SalaryFrom)
	assert.Equal(t, entity.CursorPage, back.CursorPage)
	assert.Equal(t, entity.LastSeenPublishedAt, back.LastSeenPublishedAt)
	assert.Equal(t, true, back.FiltersJSON["only_with_salary"])
	assert.Equal(t, []any{"96", "104"}, back.FiltersJSON["professional_role"])
}

func TestSavedSearchModelEmptyFilters(t *testing.T) {
	model := &savedSearchModel{ID: 1, Text: "q", PerPage: 20, PagesLimit: 3}

	entity, err := model.toEntity()
	require.NoError(t, err)

	assert.NotNil(t, entity.FiltersJSON)
	assert.Empty(t, entity.FiltersJSON)
}
