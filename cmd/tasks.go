package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Abraxas-365/scout/jobsearch/ingest"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/kernel"
)

// registerTaskHandlers binds every queued task name to its service method.
// Args cross the queue as JSON, so numeric ids arrive as float64.
func registerTaskHandlers(c *Container) {
	c.TaskService.Register(task.NameImportHH, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		var req ingest.ImportRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		result, err := c.IngestService.ImportVacancies(ctx, req.Filters, req.Cutoff, req.StartPage)
		if err != nil {
			return nil, err
		}
		return asResult(result)
	})

	c.TaskService.Register(task.NameSyncSavedSearch, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		id, err := argID(args, "saved_search_id")
		if err != nil {
			return nil, err
		}
		result, err := c.IngestService.SyncSavedSearch(ctx, kernel.NewSavedSearchID(id))
		if err != nil {
			return nil, err
		}
		return asResult(result)
	})

	c.TaskService.Register(task.NameBackfillParsed, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		var req ingest.BackfillParsedRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		result, err := c.IngestService.BackfillParsed(ctx, req)
		if err != nil {
			return nil, err
		}
		return asResult(result)
	})

	c.TaskService.Register(task.NameBuildVacancyEmbedding, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		id, err := argID(args, "vacancy_id")
		if err != nil {
			return nil, err
		}
		outcome, err := c.EmbeddingService.BuildVacancyEmbedding(ctx, kernel.NewVacancyID(id))
		if err != nil {
			return nil, err
		}
		return asResult(outcome)
	})

	c.TaskService.Register(task.NameBuildProfileEmbedding, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		id, err := argID(args, "profile_id")
		if err != nil {
			return nil, err
		}
		outcome, err := c.EmbeddingService.BuildProfileEmbedding(ctx, kernel.NewProfileID(id))
		if err != nil {
			return nil, err
		}
		return asResult(outcome)
	})

	c.TaskService.Register(task.NameRebuildVacancyEmbeddings, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		outcome, err := c.EmbeddingService.RebuildVacancyEmbeddings(ctx, argLimit(args))
		if err != nil {
			return nil, err
		}
		return asResult(outcome)
	})

	c.TaskService.Register(task.NameRebuildProfileEmbeddings, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		outcome, err := c.EmbeddingService.RebuildProfileEmbeddings(ctx, argLimit(args))
		if err != nil {
			return nil, err
		}
		return asResult(outcome)
	})

	c.TaskService.Register(task.NameComputeRecommendations, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		id, err := argID(args, "profile_id")
		if err != nil {
			return nil, err
		}
		scores, err := c.MatchService.ComputeRecommendations(ctx, kernel.NewProfileID(id), argLimit(args))
		if err != nil {
			return nil, err
		}
		return map[string]any{"scored": len(scores)}, nil
	})

	c.TaskService.Register(task.NameProfileBackfill, func(ctx context.Context, args map[string]any) (map[string]any, error) {
		id, err := argID(args, "profile_id")
		if err != nil {
			return nil, err
		}
		result, err := c.ProfileService.Backfill(ctx, kernel.NewProfileID(id))
		if err != nil {
			return nil, err
		}
		return asResult(result)
	})
}

// decodeArgs maps loosely-typed task args onto a request struct through its
// JSON tags.
func decodeArgs(args map[string]any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode task args: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode task args: %w", err)
	}
	return nil
}

// asResult renders a service result as the map stored on the task row.
func asResult(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task result: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode task result: %w", err)
	}
	return m, nil
}

func argID(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing task argument %q", key)
	}
	id, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("task argument %q: %w", key, err)
	}
	return id, nil
}

// argLimit reads the optional limit argument; absent or malformed means no
// limit.
func argLimit(args map[string]any) int {
	v, ok := args["limit"]
	if !ok {
		return 0
	}
	n, err := toInt64(v)
	if err != nil {
		return 0
	}
	return int(n)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
