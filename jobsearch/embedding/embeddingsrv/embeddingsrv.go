package embeddingsrv

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abraxas-365/scout/internal/ai/embeddings"
	"github.com/Abraxas-365/scout/internal/textclean"
	"github.com/Abraxas-365/scout/jobsearch/embedding"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/errx"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/Abraxas-365/scout/pkg/logx"
)

// rebuildChunkSize bounds one EmbedBatch call during bulk rebuilds.
const rebuildChunkSize = 32

// Skip reasons surfaced in task results.
const (
	reasonVacancyNotFound = "vacancy_not_found"
	reasonProfileNotFound = "profile_not_found"
)

// EmbeddingService builds and stores vectors for vacancies and profiles.
type EmbeddingService struct {
	provider     embeddings.Provider
	repo         embedding.Repository
	vacancies    embedding.VacancySource
	profiles     embedding.ProfileDocumentBuilder
	profileIDs   embedding.ProfileLister
	documentMode string
}

// NewEmbeddingService creates a new embedding service. documentMode selects
// the profile document composition (terse or rich).
func NewEmbeddingService(
	provider embeddings.Provider,
	repo embedding.Repository,
	vacancies embedding.VacancySource,
	profiles embedding.ProfileDocumentBuilder,
	profileIDs embedding.ProfileLister,
	documentMode string,
) *EmbeddingService {
	return &EmbeddingService{
		provider:     provider,
		repo:         repo,
		vacancies:    vacancies,
		profiles:     profiles,
		profileIDs:   profileIDs,
		documentMode: documentMode,
	}
}

// BuildVacancyEmbedding embeds one vacancy document and upserts its vector.
// A vacancy deleted between enqueue and execution yields a skipped outcome,
// not an error.
func (s *EmbeddingService) BuildVacancyEmbedding(ctx context.Context, id kernel.VacancyID) (*embedding.BuildOutcome, error) {
	doc, err := s.vacancyDocument(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return &embedding.BuildOutcome{Status: embedding.StatusSkipped, Reason: reasonVacancyNotFound}, nil
		}
		return nil, err
	}

	vector, err := s.provider.Embed(ctx, doc)
	if err != nil {
		return nil, errx.Wrap(err, "failed to embed vacancy document", errx.TypeExternal)
	}

	record := &embedding.VacancyEmbedding{
		VacancyID: id,
		Vector:    vector,
		ModelName: s.provider.Name(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.UpsertVacancyEmbedding(ctx, record); err != nil {
		return nil, err
	}
	return &embedding.BuildOutcome{Status: embedding.StatusOK, Model: s.provider.Name()}, nil
}

// BuildProfileEmbedding embeds one profile document and upserts its vector.
func (s *EmbeddingService) BuildProfileEmbedding(ctx context.Context, id kernel.ProfileID) (*embedding.BuildOutcome, error) {
	doc, err := s.profiles.BuildDocument(ctx, id, s.documentMode)
	if err != nil {
		if isNotFound(err) {
			return &embedding.BuildOutcome{Status: embedding.StatusSkipped, Reason: reasonProfileNotFound}, nil
		}
		return nil, err
	}

	vector, err := s.provider.Embed(ctx, doc)
	if err != nil {
		return nil, errx.Wrap(err, "failed to embed profile document", errx.TypeExternal)
	}

	record := &embedding.ProfileEmbedding{
		ProfileID: id,
		Vector:    vector,
		ModelName: s.provider.Name(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.UpsertProfileEmbedding(ctx, record); err != nil {
		return nil, err
	}
	return &embedding.BuildOutcome{Status: embedding.StatusOK, Model: s.provider.Name()}, nil
}

// RebuildVacancyEmbeddings drops and regenerates vacancy vectors in batches.
// limit <= 0 rebuilds everything.
func (s *EmbeddingService) RebuildVacancyEmbeddings(ctx context.Context, limit int) (*embedding.RebuildOutcome, error) {
	ids, err := s.vacancies.ListIDs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteVacancyEmbeddings(ctx, ids); err != nil {
		return nil, err
	}

	processed := 0
	for start := 0; start < len(ids); start += rebuildChunkSize {
		end := min(start+rebuildChunkSize, len(ids))
		chunk := ids[start:end]

		docs := make([]string, 0, len(chunk))
		chunkIDs := make([]kernel.VacancyID, 0, len(chunk))
		for _, id := range chunk {
			doc, err := s.vacancyDocument(ctx, id)
			if err != nil {
				if isNotFound(err) {
					continue
				}
				return nil, err
			}
			docs = append(docs, doc)
			chunkIDs = append(chunkIDs, id)
		}
		if len(docs) == 0 {
			continue
		}

		vectors, err := s.provider.EmbedBatch(ctx, docs)
		if err != nil {
			return nil, errx.Wrap(err, "failed to embed vacancy batch", errx.TypeExternal)
		}

		now := time.Now()
		for i, id := range chunkIDs {
			record := &embedding.VacancyEmbedding{
				VacancyID: id,
				Vector:    vectors[i],
				ModelName: s.provider.Name(),
				UpdatedAt: now,
			}
			if err := s.repo.UpsertVacancyEmbedding(ctx, record); err != nil {
				return nil, err
			}
			processed++
		}
	}

	logx.Infof("Vacancy embeddings rebuilt | processed=%d model=%s", processed, s.provider.Name())
	return &embedding.RebuildOutcome{Processed: processed, Model: s.provider.Name()}, nil
}

// RebuildProfileEmbeddings drops and regenerates profile vectors in batches.
func (s *EmbeddingService) RebuildProfileEmbeddings(ctx context.Context, limit int) (*embedding.RebuildOutcome, error) {
	ids, err := s.profileIDs.ListIDs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteProfileEmbeddings(ctx, ids); err != nil {
		return nil, err
	}

	processed := 0
	for start := 0; start < len(ids); start += rebuildChunkSize {
		end := min(start+rebuildChunkSize, len(ids))
		chunk := ids[start:end]

		docs := make([]string, 0, len(chunk))
		chunkIDs := make([]kernel.ProfileID, 0, len(chunk))
		for _, id := range chunk {
			doc, err := s.profiles.BuildDocument(ctx, id, s.documentMode)
			if err != nil {
				if isNotFound(err) {
					continue
				}
				return nil, err
			}
			docs = append(docs, doc)
			chunkIDs = append(chunkIDs, id)
		}
		if len(docs) == 0 {
			continue
		}

		vectors, err := s.provider.EmbedBatch(ctx, docs)
		if err != nil {
			return nil, errx.Wrap(err, "failed to embed profile batch", errx.TypeExternal)
		}

		now := time.Now()
		for i, id := range chunkIDs {
			record := &embedding.ProfileEmbedding{
				ProfileID: id,
				Vector:    vectors[i],
				ModelName: s.provider.Name(),
				UpdatedAt: now,
			}
			if err := s.repo.UpsertProfileEmbedding(ctx, record); err != nil {
				return nil, err
			}
			processed++
		}
	}

	logx.Infof("Profile embeddings rebuilt | processed=%d model=%s", processed, s.provider.Name())
	return &embedding.RebuildOutcome{Processed: processed, Model: s.provider.Name()}, nil
}

// vacancyDocument composes the text a vacancy embeds as: title, the parsed
// plain text (or the cleaned raw description) and the skill line.
func (s *EmbeddingService) vacancyDocument(ctx context.Context, id kernel.VacancyID) (string, error) {
	vac, err := s.vacancies.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	parsed, err := s.vacancies.GetParsed(ctx, id)
	if err != nil {
		return "", err
	}
	skills, err := s.vacancies.ListSkillRequirements(ctx, id)
	if err != nil {
		return "", err
	}
	return composeVacancyDocument(vac, parsed, skills), nil
}

func composeVacancyDocument(vac *vacancy.Vacancy, parsed *vacancy.Parsed, skills []vacancy.Requirement) string {
	var parts []string
	if vac.Title != "" {
		parts = append(parts, vac.Title)
	}

	body := ""
	if parsed != nil && parsed.PlainText != "" {
		body = parsed.PlainText
	} else if vac.Description != "" {
		body = vac.Description
		if textclean.LooksLikeHTML(body) {
			body = textclean.Clean(body)
		}
	}
	if body != "" {
		parts = append(parts, body)
	}

	if len(skills) > 0 {
		names := make([]string, 0, len(skills))
		for _, skill := range skills {
			names = append(names, skill.RawText)
		}
		parts = append(parts, "Ключевые навыки: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "\n\n")
}

func isNotFound(err error) bool {
	var e *errx.Error
	return errors.As(err, &e) && e.Type == errx.TypeNotFound
}
