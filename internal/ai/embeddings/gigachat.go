package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	gigaChatDefaultOAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	gigaChatDefaultAPIBase  = "https://gigachat.devices.sberbank.ru/api/v1"
	gigaChatDefaultModel    = "Embeddings"

	// The cached token is considered expired this long before the server
	// says so, to avoid using a token that dies mid-request.
	gigaChatTokenExpiryGuard = 120 * time.Second
)

// GigaChatProvider produces embeddings through the GigaChat API. Access
// tokens are short-lived and refreshed lazily through the OAuth endpoint.
type GigaChatProvider struct {
	httpClient *http.Client
	authKey    string
	scope      string
	oauthURL   string
	apiBase    string
	model      string
	name       string
	dim        int

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewGigaChatProvider creates a GigaChat-backed provider. authKey is the
// pre-encoded Basic credential issued with the API subscription.
func NewGigaChatProvider(authKey, scope, oauthURL, apiBase, model string, dim int) (*GigaChatProvider, error) {
	if authKey == "" {
		return nil, fmt.Errorf("gigachat embedding provider requires an auth key")
	}
	if scope == "" {
		scope = "GIGACHAT_API_PERS"
	}
	if oauthURL == "" {
		oauthURL = gigaChatDefaultOAuthURL
	}
	if apiBase == "" {
		apiBase = gigaChatDefaultAPIBase
	}
	if model == "" {
		model = gigaChatDefaultModel
	}
	if dim <= 0 {
		dim = DefaultDim
	}

	return &GigaChatProvider{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		authKey:    authKey,
		scope:      scope,
		oauthURL:   oauthURL,
		apiBase:    strings.TrimRight(apiBase, "/"),
		model:      model,
		name:       "gigachat:" + model,
		dim:        dim,
	}, nil
}

func (p *GigaChatProvider) Name() string { return p.name }

func (p *GigaChatProvider) Dim() int { return p.dim }

func (p *GigaChatProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (p *GigaChatProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	var vectors [][]float32
	operation := func() error {
		var err error
		vectors, err = p.embedOnce(ctx, texts)
		return err
	}

	// 429 and 5xx responses are retried with exponential backoff; other
	// failures are permanent.
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return vectors, nil
}

type gigaChatEmbeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type gigaChatEmbeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (p *GigaChatProvider) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(gigaChatEmbeddingsRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("marshal embeddings request: %w", err))
	}

	resp, err := p.doAuthorized(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("gigachat embeddings returned %d", resp.StatusCode)
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, backoff.Permanent(fmt.Errorf("gigachat embeddings returned %d: %s", resp.StatusCode, payload))
	}

	var parsed gigaChatEmbeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode embeddings response: %w", err))
	}
	if len(parsed.Data) != len(texts) {
		return nil, backoff.Permanent(fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Data)))
	}

	vectors := make([][]float32, len(parsed.Data))
	for _, data := range parsed.Data {
		if len(data.Embedding) != p.dim {
			return nil, backoff.Permanent(fmt.Errorf("model %s returned dimension %d, configured %d", p.model, len(data.Embedding), p.dim))
		}
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, backoff.Permanent(fmt.Errorf("embedding index %d out of range", data.Index))
		}
		vector := make([]float32, len(data.Embedding))
		copy(vector, data.Embedding)
		normalize(vector)
		vectors[data.Index] = vector
	}
	return vectors, nil
}

// doAuthorized sends the embeddings request with a valid access token,
// refreshing the token once if the API answers 401.
func (p *GigaChatProvider) doAuthorized(ctx context.Context, body []byte) (*http.Response, error) {
	token, err := p.token(ctx, false)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	resp, err := p.postEmbeddings(ctx, token, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	token, err = p.token(ctx, true)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return p.postEmbeddings(ctx, token, body)
}

func (p *GigaChatProvider) postEmbeddings(ctx context.Context, token string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gigachat embeddings request: %w", err)
	}
	return resp, nil
}

type gigaChatTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix milliseconds
}

// token returns a cached access token, fetching a fresh one when it is
// missing, near expiry or a forced refresh is requested.
func (p *GigaChatProvider) token(ctx context.Context, force bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !force && p.accessToken != "" && time.Now().Before(p.expiresAt.Add(-gigaChatTokenExpiryGuard)) {
		return p.accessToken, nil
	}

	form := url.Values{"scope": {p.scope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.oauthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+p.authKey)
	req.Header.Set("RqUID", uuid.NewString())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gigachat oauth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return "", fmt.Errorf("gigachat oauth returned %d: %s", resp.StatusCode, payload)
	}

	var parsed gigaChatTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode oauth response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("gigachat oauth returned an empty access token")
	}

	p.accessToken = parsed.AccessToken
	p.expiresAt = time.UnixMilli(parsed.ExpiresAt)
	return p.accessToken, nil
}
