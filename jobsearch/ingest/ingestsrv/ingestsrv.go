package ingestsrv

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/scout/internal/vacancyparse"
	"github.com/Abraxas-365/scout/jobsearch/ingest"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/jobsearch/vacancy/vacancysrv"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/Abraxas-365/scout/pkg/logx"
)

// hh publishes timestamps with a colon-less zone offset, which RFC 3339
// rejects.
const hhTimeLayout = "2006-01-02T15:04:05-0700"

// IngestService drives vacancy imports from the job board: one-off filter
// imports, scheduled saved-search syncs and parse backfills.
type IngestService struct {
	client    ingest.Client
	vacancies vacancy.Repository
	searches  savedsearch.Repository
	profiles  ingest.ProfileLister
	tasks     ingest.TaskEnqueuer
}

// NewIngestService creates a new ingest service
func NewIngestService(
	client ingest.Client,
	vacancies vacancy.Repository,
	searches savedsearch.Repository,
	profiles ingest.ProfileLister,
	tasks ingest.TaskEnqueuer,
) *IngestService {
	return &IngestService{
		client:    client,
		vacancies: vacancies,
		searches:  searches,
		profiles:  profiles,
		tasks:     tasks,
	}
}

// ============================================================================
// Import
// ============================================================================

// ImportVacancies walks search pages [startPage, startPage+pages_limit) and
// upserts every item. Items at or before the cutoff are skipped and flip
// stop_by_cutoff once the page finishes. One bad item never fails the run;
// a failed page fetch does.
func (s *IngestService) ImportVacancies(ctx context.Context, filters ingest.ImportFilters, cutoff *time.Time, startPage int) (*ingest.ImportResult, error) {
	pagesLimit := filters.PagesLimit
	if pagesLimit <= 0 {
		pagesLimit = 1
	}

	result := &ingest.ImportResult{}
	baseQuery := filters.Query()

	for page := startPage; page < startPage+pagesLimit; page++ {
		if page > startPage {
			if err := s.client.PoliteDelay(ctx); err != nil {
				return result, err
			}
		}

		query := cloneValues(baseQuery)
		query.Set("page", strconv.Itoa(page))

		searchPage, err := s.client.SearchVacancies(ctx, query)
		if err != nil {
			return result, err
		}
		result.PagesProcessed++

		reachedCutoff := false
		for i := range searchPage.Items {
			item := &searchPage.Items[i]

			publishedAt := parsePublishedAt(item.PublishedAt)
			if cutoff != nil && publishedAt != nil && !publishedAt.After(*cutoff) {
				reachedCutoff = true
				continue
			}

			created, err := s.importItem(ctx, filters, item, publishedAt)
			if err != nil {
				result.Errors++
				logx.Errorf("Failed to import vacancy | external_id=%s error=%v", item.ID, err)
				continue
			}
			result.VacanciesSeen++
			if created {
				result.Saved++
			} else {
				result.Updated++
			}
		}

		if reachedCutoff {
			result.StopByCutoff = true
			break
		}
		if page+1 >= searchPage.Pages {
			break
		}
	}

	logx.Infof("Vacancy import finished | pages=%d seen=%d saved=%d updated=%d errors=%d stop_by_cutoff=%t",
		result.PagesProcessed, result.VacanciesSeen, result.Saved, result.Updated, result.Errors, result.StopByCutoff)
	return result, nil
}

// importItem upserts one board item: optionally fetch details, parse the
// description, extract requirements and write everything atomically.
func (s *IngestService) importItem(ctx context.Context, filters ingest.ImportFilters, item *ingest.BoardVacancy, publishedAt *time.Time) (bool, error) {
	if filters.IncludeDetails {
		if err := s.client.PoliteDelay(ctx); err != nil {
			return false, err
		}
		details, err := s.client.GetVacancyDetails(ctx, item.ID)
		if err != nil {
			return false, err
		}
		mergeDetails(item, details)
	}

	description := itemDescription(item)
	parse := vacancyparse.Parse(description)

	keySkills := make([]string, 0, len(item.KeySkills))
	for _, skill := range item.KeySkills {
		keySkills = append(keySkills, skill.Name)
	}
	extracted := vacancyparse.ExtractRequirements(parse.Sections, keySkills, structuredFields(item), parse.PlainText)

	entity := boardItemToEntity(item, description, publishedAt)
	parsed := &vacancy.Parsed{
		PlainText:    parse.PlainText,
		Sections:     parse.Sections,
		Version:      parse.Version,
		QualityScore: parse.QualityScore,
		ExtractedAt:  time.Now(),
	}
	requirements := vacancysrv.RequirementsFromExtraction(kernel.NewVacancyID(0), extracted)

	created, id, err := s.vacancies.UpsertImported(ctx, entity, parsed, requirements)
	if err != nil {
		return false, err
	}

	if _, err := s.tasks.Enqueue(ctx, task.NameBuildVacancyEmbedding, map[string]any{"vacancy_id": id.Int64()}); err != nil {
		logx.Errorf("Failed to schedule vacancy embedding | vacancy_id=%s error=%v", id, err)
	}
	return created, nil
}

// ============================================================================
// Saved-search sync
// ============================================================================

// SyncSavedSearch runs one incremental import for the saved search: import
// from its page cursor with its watermark as cutoff, then record the new
// watermark and cursor. Hitting the cutoff resets the cursor to page zero.
func (s *IngestService) SyncSavedSearch(ctx context.Context, id kernel.SavedSearchID) (*ingest.SyncResult, error) {
	search, err := s.searches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	importResult, err := s.ImportVacancies(ctx, filtersFromSearch(search), search.Cutoff(), search.CursorPage)
	if err != nil {
		return nil, err
	}

	watermark, err := s.vacancies.MaxPublishedAt(ctx, vacancy.SourceHH)
	if err != nil {
		return nil, err
	}
	if watermark == nil {
		watermark = search.LastSeenPublishedAt
	}

	nextCursor := search.CursorPage + importResult.PagesProcessed
	if importResult.StopByCutoff {
		nextCursor = 0
	}

	if err := s.searches.RecordSyncResult(ctx, id, time.Now(), watermark, nextCursor); err != nil {
		return nil, err
	}

	logx.Infof("Saved search synced | saved_search_id=%s saved=%d updated=%d next_cursor=%d",
		id, importResult.Saved, importResult.Updated, nextCursor)
	return &ingest.SyncResult{
		SavedSearchID: id,
		Import:        *importResult,
		NextCursor:    nextCursor,
		Watermark:     watermark,
	}, nil
}

// ============================================================================
// Parse backfill
// ============================================================================

// BackfillParsed re-parses stored vacancy descriptions. With OnlyMissing it
// touches only vacancies whose parse row is missing or predates the current
// parser version; otherwise it re-parses everything. Board key skills kept
// as requirements survive the re-extraction.
func (s *IngestService) BackfillParsed(ctx context.Context, req ingest.BackfillParsedRequest) (*ingest.BackfillParsedResult, error) {
	var (
		ids []kernel.VacancyID
		err error
	)
	if req.OnlyMissing {
		ids, err = s.vacancies.ListIDsNeedingParse(ctx, vacancyparse.Version, req.Limit)
	} else {
		ids, err = s.vacancies.ListIDs(ctx, req.Limit)
	}
	if err != nil {
		return nil, err
	}

	result := &ingest.BackfillParsedResult{}
	for _, id := range ids {
		if err := s.reparseVacancy(ctx, id); err != nil {
			result.Errors++
			logx.Errorf("Failed to backfill vacancy parse | vacancy_id=%s error=%v", id, err)
			continue
		}
		result.Processed++

		if req.ScheduleEmbeddings {
			if _, err := s.tasks.Enqueue(ctx, task.NameBuildVacancyEmbedding, map[string]any{"vacancy_id": id.Int64()}); err != nil {
				logx.Errorf("Failed to schedule vacancy embedding | vacancy_id=%s error=%v", id, err)
				continue
			}
			result.EmbeddingTasks++
		}
	}

	if req.ScheduleRecommendations {
		profileIDs, err := s.profiles.ListIDs(ctx, 0)
		if err != nil {
			return result, err
		}
		for _, profileID := range profileIDs {
			if _, err := s.tasks.Enqueue(ctx, task.NameComputeRecommendations, map[string]any{"profile_id": profileID.Int64()}); err != nil {
				logx.Errorf("Failed to schedule recommendations | profile_id=%s error=%v", profileID, err)
				continue
			}
			result.RecommendationRuns++
		}
	}

	logx.Infof("Parse backfill finished | processed=%d errors=%d embedding_tasks=%d recommendation_runs=%d",
		result.Processed, result.Errors, result.EmbeddingTasks, result.RecommendationRuns)
	return result, nil
}

func (s *IngestService) reparseVacancy(ctx context.Context, id kernel.VacancyID) error {
	entity, err := s.vacancies.GetByID(ctx, id)
	if err != nil {
		return err
	}

	parse := vacancyparse.Parse(entity.Description)
	parsed := &vacancy.Parsed{
		VacancyID:    id,
		PlainText:    parse.PlainText,
		Sections:     parse.Sections,
		Version:      parse.Version,
		QualityScore: parse.QualityScore,
		ExtractedAt:  time.Now(),
	}
	if err := s.vacancies.UpsertParsed(ctx, parsed); err != nil {
		return err
	}

	existing, err := s.vacancies.ListRequirements(ctx, id)
	if err != nil {
		return err
	}
	var keySkills []string
	for _, req := range existing {
		if req.Source == vacancyparse.SourceKeySkills {
			keySkills = append(keySkills, req.RawText)
		}
	}

	extracted := vacancyparse.ExtractRequirements(parse.Sections, keySkills, vacancyparse.StructuredFields{}, parse.PlainText)
	return s.vacancies.ReplaceGeneratedRequirements(ctx, id, vacancysrv.RequirementsFromExtraction(id, extracted))
}

// ============================================================================
// Helpers
// ============================================================================

func filtersFromSearch(search *savedsearch.SavedSearch) ingest.ImportFilters {
	return ingest.ImportFilters{
		Text:           search.Text,
		Area:           search.Area,
		Schedule:       search.Schedule,
		Experience:     search.Experience,
		Salary:         search.SalaryFrom,
		Currency:       search.Currency,
		PerPage:        search.PerPage,
		PagesLimit:     search.PagesLimit,
		IncludeDetails: true,
		Extra:          search.FiltersJSON,
	}
}

// parsePublishedAt tolerates both RFC 3339 and the board's colon-less zone
// format. Unparseable values become nil rather than an item error.
func parsePublishedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, hhTimeLayout} {
		if at, err := time.Parse(layout, raw); err == nil {
			return &at
		}
	}
	logx.Warnf("Unparseable published_at from board | value=%q", raw)
	return nil
}

// mergeDetails overlays the detail response on a search item. Details carry
// the full description and key skills the search snippet lacks.
func mergeDetails(item, details *ingest.BoardVacancy) {
	if details.Description != "" {
		item.Description = details.Description
	}
	if len(details.KeySkills) > 0 {
		item.KeySkills = details.KeySkills
	}
	if details.Salary != nil {
		item.Salary = details.Salary
	}
	if details.Area != nil {
		item.Area = details.Area
	}
	if details.Schedule != nil {
		item.Schedule = details.Schedule
	}
	if details.Experience != nil {
		item.Experience = details.Experience
	}
	if details.Employment != nil {
		item.Employment = details.Employment
	}
}

// itemDescription prefers the full description and falls back to the search
// snippet parts.
func itemDescription(item *ingest.BoardVacancy) string {
	if item.Description != "" {
		return item.Description
	}
	if item.Snippet == nil {
		return ""
	}
	var parts []string
	if item.Snippet.Responsibility != "" {
		parts = append(parts, item.Snippet.Responsibility)
	}
	if item.Snippet.Requirement != "" {
		parts = append(parts, item.Snippet.Requirement)
	}
	return strings.Join(parts, "\n")
}

func structuredFields(item *ingest.BoardVacancy) vacancyparse.StructuredFields {
	fields := vacancyparse.StructuredFields{}
	if item.Experience != nil {
		fields.Experience = item.Experience.Name
	}
	if item.Schedule != nil {
		fields.Schedule = item.Schedule.Name
	}
	if item.Employment != nil {
		fields.Employment = item.Employment.Name
	}
	if item.Area != nil {
		fields.Area = item.Area.Name
	}
	return fields
}

func boardItemToEntity(item *ingest.BoardVacancy, description string, publishedAt *time.Time) *vacancy.Vacancy {
	entity := &vacancy.Vacancy{
		Source:      vacancy.SourceHH,
		ExternalID:  item.ID,
		Title:       item.Name,
		Description: description,
		PublishedAt: publishedAt,
		Status:      vacancy.StatusOpen,
	}
	if item.Employer != nil && item.Employer.Name != "" {
		entity.CompanyName = &item.Employer.Name
	}
	if item.Area != nil && item.Area.Name != "" {
		entity.Location = &item.Area.Name
	}
	if item.Salary != nil {
		entity.SalaryFrom = item.Salary.From
		entity.SalaryTo = item.Salary.To
		if item.Salary.Currency != "" {
			entity.Currency = &item.Salary.Currency
		}
	}
	if item.AlternateURL != "" {
		entity.URL = &item.AlternateURL
	}
	return entity
}

func cloneValues(values url.Values) url.Values {
	clone := url.Values{}
	for key, vals := range values {
		clone[key] = append([]string(nil), vals...)
	}
	return clone
}
