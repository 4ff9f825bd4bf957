package ingestinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/ingest"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch"
	"github.com/Abraxas-365/scout/pkg/logx"
)

const (
	requestTimeout = 10 * time.Second
	maxAttempts    = 5

	politeDelayMin = 200 * time.Millisecond
	politeDelayMax = 500 * time.Millisecond
)

// HHClient talks to the HH.ru public API. The board bans clients without a
// User-Agent, so the constructor refuses an empty one.
type HHClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewHHClient creates a new HH.ru API client
func NewHHClient(baseURL, userAgent string) (*HHClient, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("hh client requires a non-empty user agent")
	}
	if baseURL == "" {
		baseURL = "https://api.hh.ru"
	}
	return &HHClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: requestTimeout},
	}, nil
}

// SearchVacancies runs GET /vacancies with the given query.
func (c *HHClient) SearchVacancies(ctx context.Context, query url.Values) (*ingest.SearchPage, error) {
	var page ingest.SearchPage
	if err := c.getJSON(ctx, "/vacancies", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetVacancyDetails runs GET /vacancies/{id} for the full description and
// key skills.
func (c *HHClient) GetVacancyDetails(ctx context.Context, externalID string) (*ingest.BoardVacancy, error) {
	var item ingest.BoardVacancy
	if err := c.getJSON(ctx, "/vacancies/"+url.PathEscape(externalID), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// FetchClusters runs a clusters=true search and returns the facet groups.
// Implements the saved-search cluster port.
func (c *HHClient) FetchClusters(ctx context.Context, query url.Values) ([]savedsearch.ClusterGroup, error) {
	page, err := c.SearchVacancies(ctx, query)
	if err != nil {
		return nil, err
	}
	groups := make([]savedsearch.ClusterGroup, 0, len(page.Clusters))
	for _, cluster := range page.Clusters {
		group := savedsearch.ClusterGroup{ID: cluster.ID, Name: cluster.Name}
		for _, item := range cluster.Items {
			group.Items = append(group.Items, savedsearch.ClusterItem{
				Name:  item.Name,
				URL:   item.URL,
				Count: item.Count,
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// PoliteDelay sleeps a uniform random 200-500ms between page fetches.
func (c *HHClient) PoliteDelay(ctx context.Context) error {
	jitter := time.Duration(rand.Int63n(int64(politeDelayMax - politeDelayMin)))
	return sleepCtx(ctx, politeDelayMin+jitter)
}

// getJSON fetches and decodes one endpoint with the retry ladder: up to five
// attempts, backing off on 429 (honoring Retry-After) and on 5xx. Any other
// 4xx is permanent and fails immediately.
func (c *HHClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to build hh request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logx.Warnf("HH request failed | path=%s attempt=%d error=%v", path, attempt+1, err)
			if err := sleepCtx(ctx, backoffDelay(attempt)); err != nil {
				return err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read hh response: %w", readErr)
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to decode hh response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests:
			delay := retryAfterDelay(resp.Header.Get("Retry-After"), attempt)
			logx.Warnf("HH rate limited | path=%s attempt=%d delay=%s", path, attempt+1, delay)
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}

		case resp.StatusCode >= 500:
			logx.Warnf("HH server error | path=%s status=%d attempt=%d", path, resp.StatusCode, attempt+1)
			if err := sleepCtx(ctx, backoffDelay(attempt)); err != nil {
				return err
			}

		default:
			return ingest.ErrHHAPI().
				WithDetail("status", resp.StatusCode).
				WithDetail("path", path)
		}
	}

	return ingest.ErrHHAPI().
		WithDetail("path", path).
		WithDetail("reason", "retries_exhausted")
}

// retryAfterDelay interprets Retry-After as integer seconds or an HTTP date,
// falling back to the exponential ladder.
func retryAfterDelay(header string, attempt int) time.Duration {
	if header == "" {
		return backoffDelay(attempt)
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
		return 0
	}
	return backoffDelay(attempt)
}

func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
